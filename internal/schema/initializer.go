package schema

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"foodorder/internal/platform/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Result is the outcome of creating one table.
type Result struct {
	Table string
	Err   error
}

// Report collects per-table results of Init in creation order.
type Report struct {
	Results []Result
}

// Err joins every table error; nil when all tables were created.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

// Failed lists the tables whose statement failed.
func (r Report) Failed() []string {
	var names []string
	for _, res := range r.Results {
		if res.Err != nil {
			names = append(names, res.Table)
		}
	}
	return names
}

// CreateTable executes one schema-definition statement.
func CreateTable(ctx context.Context, q sqlite.Querier, t Table) error {
	if _, err := q.ExecContext(ctx, t.DDL); err != nil {
		return sqlite.DriverErr("create table", t.Name, err)
	}
	return nil
}

// Initializer creates tables one statement at a time.
type Initializer struct {
	Tables []Table
	Log    *slog.Logger
}

// NewInitializer returns an Initializer for the food-ordering tables.
func NewInitializer(log *slog.Logger) *Initializer {
	if log == nil {
		log = slog.Default()
	}
	return &Initializer{Tables: Tables(), Log: log}
}

// CatalogTarget is the Result.Table of a catalogue that failed Validate.
const CatalogTarget = "tables"

// Init checks the table order and then runs CreateTable for every table.
// An invalid catalogue is reported as a single result and nothing is created.
// Otherwise a failing table is recorded and the next table is still
// attempted; no rows exist yet at this stage.
func (in *Initializer) Init(ctx context.Context, q sqlite.Querier) Report {
	if err := Validate(in.Tables); err != nil {
		in.Log.Error("table catalogue rejected", slog.Any("err", err))
		return Report{Results: []Result{{Table: CatalogTarget, Err: err}}}
	}

	report := Report{Results: make([]Result, 0, len(in.Tables))}
	for _, t := range in.Tables {
		err := CreateTable(ctx, q, t)
		if err != nil {
			in.Log.Error("create table failed", slog.String("table", t.Name), slog.Any("err", err))
		} else {
			in.Log.Debug("table ready", slog.String("table", t.Name))
		}
		report.Results = append(report.Results, Result{Table: t.Name, Err: err})
	}
	return report
}

// Migrate applies the embedded migration to the database file at dbPath and
// returns the schema version recorded in schema_migrations afterwards.
// It creates the same tables as Init.
func Migrate(dbPath string) (uint, error) {
	if err := sqlite.ApplyMigrationsFS(dbPath, migrationsFS, "migrations"); err != nil {
		return 0, sqlite.DriverErr("migrate", dbPath, err)
	}
	version, dirty, err := sqlite.GetMigrationVersion(dbPath, migrationsFS, "migrations")
	if err != nil {
		return 0, sqlite.DriverErr("migration version", dbPath, err)
	}
	if dirty {
		return version, sqlite.DriverErr("migration version", dbPath, fmt.Errorf("database is dirty at version %d", version))
	}
	return version, nil
}

// Existing returns the user tables present in the database, in creation order.
func Existing(ctx context.Context, q sqlite.Querier) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name != 'schema_migrations' ORDER BY rowid")
	if err != nil {
		return nil, sqlite.DriverErr("list tables", "", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, sqlite.DriverErr("list tables", "", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlite.DriverErr("list tables", "", err)
	}
	return names, nil
}
