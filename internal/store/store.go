// Package store runs parameterized batch inserts and unfiltered selects
// against the food-ordering database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"

	"foodorder/internal/domain"
	"foodorder/internal/platform/sqlite"
	"foodorder/internal/shared"
)

// Row is one result row in column order, as returned by the driver.
type Row []any

// ResultSet is a materialized query result.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// Store executes queries through one open database handle.
type Store struct {
	db  *sqlx.DB
	tx  *sqlite.TxRunner
	log *slog.Logger
}

// New wraps db for the sqlite driver. A nil runner gets default retry settings.
func New(db *sql.DB, tx *sqlite.TxRunner, log *slog.Logger) *Store {
	if tx == nil {
		tx = sqlite.NewTxRunner(db)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{db: sqlx.NewDb(db, "sqlite"), tx: tx, log: log}
}

// FromHandle builds a Store over an opened handle.
func FromHandle(h *sqlite.Handle, log *slog.Logger) *Store {
	return New(h.DB, h.TxRunner, log)
}

// InsertBatch prepares template and executes it for every row inside a
// single transaction. Values are bound positionally, never interpolated.
//
// Every row must carry exactly as many values as template has parameters;
// otherwise nothing is executed. If any row fails the whole batch is rolled
// back and the returned error names the failing row. The sqlite driver
// compiles the statement on first execution, so a bad template (for example a
// missing table) is reported against row 0.
func (s *Store) InsertBatch(ctx context.Context, template string, rows [][]any) (int, error) {
	want := placeholders(template)
	for i, row := range rows {
		if len(row) != want {
			return 0, shared.NewDriverError("insert batch", rowTarget(i), shared.KindValidation,
				fmt.Errorf("expected %d values, got %d", want, len(row)))
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		stmt, err := s.tx.GetQuerier(ctx).PrepareContext(ctx, template)
		if err != nil {
			return sqlite.DriverErr("prepare", template, err)
		}
		defer stmt.Close()

		for i, row := range rows {
			if _, err := stmt.ExecContext(ctx, row...); err != nil {
				return sqlite.DriverErr("insert batch", rowTarget(i), err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, sqlite.DriverErr("insert batch", "commit", err)
	}

	s.log.Debug("batch inserted", slog.Int("rows", len(rows)))
	return len(rows), nil
}

// Select runs a read-only query and materializes all rows with their column
// names. On failure no partial rows are returned.
func (s *Store) Select(ctx context.Context, query string, args ...any) (ResultSet, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return ResultSet{}, sqlite.DriverErr("select", query, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return ResultSet{}, sqlite.DriverErr("select", query, err)
	}

	var out []Row
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return ResultSet{}, sqlite.DriverErr("select", query, err)
		}
		out = append(out, Row(vals))
	}
	if err := rows.Err(); err != nil {
		return ResultSet{}, sqlite.DriverErr("select", query, err)
	}

	return ResultSet{Columns: cols, Rows: out}, nil
}

// SelectAll runs a read-only query and returns every row in driver order.
func (s *Store) SelectAll(ctx context.Context, query string, args ...any) ([]Row, error) {
	rs, err := s.Select(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rs.Rows, nil
}

// SelectAndPrint writes each row of the query result to w, one tuple per
// line. Nothing is written when the query fails.
func (s *Store) SelectAndPrint(ctx context.Context, w io.Writer, query string, args ...any) (int, error) {
	rows, err := s.SelectAll(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	if err := PrintRows(w, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// PrintRows writes rows to w in tuple form.
func PrintRows(w io.Writer, rows []Row) error {
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, FormatRow(row)); err != nil {
			return shared.Wrap(err, "print row")
		}
	}
	return nil
}

// Categories returns all categories ordered by id.
func (s *Store) Categories(ctx context.Context) ([]domain.Category, error) {
	return selectTyped[domain.Category](ctx, s.db,
		"SELECT category_id, name FROM Categories ORDER BY category_id")
}

// Dishes returns all dishes ordered by id.
func (s *Store) Dishes(ctx context.Context) ([]domain.Dish, error) {
	return selectTyped[domain.Dish](ctx, s.db,
		"SELECT dish_id, category_id, name, description, price FROM Dishes ORDER BY dish_id")
}

// Orders returns all orders ordered by id.
func (s *Store) Orders(ctx context.Context) ([]domain.Order, error) {
	return selectTyped[domain.Order](ctx, s.db,
		"SELECT order_id, user_id, total_price, status, created_at FROM Orders ORDER BY order_id")
}

func selectTyped[T any](ctx context.Context, db *sqlx.DB, query string) ([]T, error) {
	var out []T
	if err := db.SelectContext(ctx, &out, query); err != nil {
		return nil, sqlite.DriverErr("select", query, err)
	}
	return out, nil
}

// placeholders returns the number of values a statement binds, following
// SQLite numbering: a bare ? takes the next index, ?NNN takes NNN, and each
// distinct :name, @name or $name takes the next index once. Quoted text is
// skipped.
func placeholders(query string) int {
	highest := 0
	named := map[string]bool{}
	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '[':
			quote = ']'
		case c == '?':
			j := i + 1
			for j < len(query) && query[j] >= '0' && query[j] <= '9' {
				j++
			}
			if j == i+1 {
				highest++
				continue
			}
			if n, err := strconv.Atoi(query[i+1 : j]); err == nil && n > highest {
				highest = n
			}
			i = j - 1
		case c == ':' || c == '@' || c == '$':
			j := i + 1
			for j < len(query) && isIdentByte(query[j]) {
				j++
			}
			if j == i+1 {
				continue
			}
			if name := query[i:j]; !named[name] {
				named[name] = true
				highest++
			}
			i = j - 1
		}
	}
	return highest
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

func rowTarget(i int) string {
	return "row " + strconv.Itoa(i)
}
