package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

// TestDB представляет тестовую SQLite базу данных с удобными хелперами.
type TestDB struct {
	DB       *sql.DB
	Path     string // Путь к файлу БД (":memory:" для in-memory)
	TxRunner *TxRunner
}

// NewTestDBInMemory создает in-memory SQLite БД для тестов.
// БД автоматически закрывается после завершения теста.
func NewTestDBInMemory(t *testing.T) *TestDB {
	t.Helper()

	db, err := NewInMemoryDB(context.Background())
	if err != nil {
		t.Fatalf("Failed to create in-memory test DB: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return &TestDB{DB: db, Path: ":memory:", TxRunner: NewTxRunner(db)}
}

// NewTestDBFile создает файловую SQLite БД для тестов.
// БД автоматически удаляется после завершения теста.
func NewTestDBFile(t *testing.T) *TestDB {
	t.Helper()

	// Файл удаляется вместе с t.TempDir()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to create file test DB: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return &TestDB{DB: db, Path: path, TxRunner: NewTxRunner(db)}
}

// Exec выполняет SQL команду и проверяет отсутствие ошибок.
func (tdb *TestDB) Exec(t *testing.T, query string, args ...any) sql.Result {
	t.Helper()

	result, err := tdb.DB.ExecContext(context.Background(), query, args...)
	if err != nil {
		t.Fatalf("Failed to execute query: %v", err)
	}
	return result
}

// QueryRow выполняет SQL запрос и возвращает одну строку.
func (tdb *TestDB) QueryRow(t *testing.T, query string, args ...any) *sql.Row {
	t.Helper()
	return tdb.DB.QueryRowContext(context.Background(), query, args...)
}

// CountRows возвращает количество строк в таблице.
func (tdb *TestDB) CountRows(t *testing.T, tableName string) int {
	t.Helper()

	var count int
	if err := tdb.QueryRow(t, "SELECT COUNT(*) FROM "+tableName).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows in table %s: %v", tableName, err)
	}
	return count
}

// TableExists проверяет существование таблицы.
func (tdb *TestDB) TableExists(t *testing.T, tableName string) bool {
	t.Helper()

	var count int
	row := tdb.QueryRow(t, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", tableName)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("Failed to check table existence: %v", err)
	}
	return count > 0
}

// UserTables возвращает имена пользовательских таблиц в порядке создания.
func (tdb *TestDB) UserTables(t *testing.T) []string {
	t.Helper()

	rows, err := tdb.DB.QueryContext(context.Background(),
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' AND name != 'schema_migrations' ORDER BY rowid")
	if err != nil {
		t.Fatalf("Failed to list tables: %v", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("Failed to scan table name: %v", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Failed to iterate tables: %v", err)
	}
	return tables
}
