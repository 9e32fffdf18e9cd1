package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite драйвер
)

// TxLockMode определяет режим блокировки транзакций SQLite
type TxLockMode string

const (
	// TxLockDeferred - откладывает блокировку до первого чтения/записи (по умолчанию SQLite)
	TxLockDeferred TxLockMode = "deferred"
	// TxLockImmediate - немедленно захватывает RESERVED блокировку для избежания SQLITE_BUSY при записи
	TxLockImmediate TxLockMode = "immediate"
	// TxLockExclusive - немедленно захватывает EXCLUSIVE блокировку
	TxLockExclusive TxLockMode = "exclusive"
)

// DBOptions содержит настройки для SQLite базы данных.
type DBOptions struct {
	// ConnMaxLifetime - максимальное время жизни соединения
	ConnMaxLifetime time.Duration
	// MaxOpenConns - максимальное количество открытых соединений
	MaxOpenConns int
	// MaxIdleConns - максимальное количество idle соединений
	MaxIdleConns int
	// PingTimeout - таймаут для проверки соединения при создании БД
	PingTimeout time.Duration
	// WALMode - использовать ли WAL режим
	WALMode bool
	// ForeignKeys - включить ли проверку внешних ключей
	ForeignKeys bool
	// BusyTimeout - таймаут ожидания при SQLITE_BUSY
	BusyTimeout time.Duration
	// TxLockMode - режим блокировки для новых транзакций
	TxLockMode TxLockMode
}

// DefaultDBOptions возвращает настройки по умолчанию для однопоточного прогона:
// одно соединение, обычный журнал отката, внешние ключи объявлены, но не проверяются.
func DefaultDBOptions() DBOptions {
	return DBOptions{
		ConnMaxLifetime: 0,               // Соединение живёт до Close
		MaxOpenConns:    1,               // Один дескриптор на весь прогон
		MaxIdleConns:    1,               // Соединение не закрывается между операциями
		PingTimeout:     5 * time.Second, // Ping форсирует открытие файла
		WALMode:         false,           // Обычный rollback-журнал, без -wal/-shm файлов
		ForeignKeys:     false,           // Поведение SQLite по умолчанию
		BusyTimeout:     5 * time.Second, // 5 секунд ожидания при блокировке
		TxLockMode:      TxLockDeferred,  // Стандартный режим SQLite
	}
}

// Handle - открытое подключение к файлу БД.
// Закрывается ровно один раз через Close; Close на nil безопасен.
type Handle struct {
	DB       *sql.DB
	Path     string
	Version  string
	TxRunner *TxRunner

	closed bool
}

// Open открывает или создает файл БД по пути path.
// При ошибке возвращает nil и *shared.DriverError; открытый дескриптор не утекает.
func Open(ctx context.Context, path string, opts DBOptions) (*Handle, error) {
	db, err := NewDBWithOptions(ctx, path, opts)
	if err != nil {
		return nil, DriverErr("open", path, err)
	}

	var version string
	if err := db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		_ = db.Close()
		return nil, DriverErr("open", path, err)
	}

	return &Handle{
		DB:       db,
		Path:     path,
		Version:  version,
		TxRunner: NewTxRunner(db),
	}, nil
}

// Close освобождает дескриптор. Повторный вызов и вызов на nil ничего не делают.
func (h *Handle) Close() error {
	if h == nil || h.closed || h.DB == nil {
		return nil
	}
	h.closed = true
	if err := h.DB.Close(); err != nil {
		return DriverErr("close", h.Path, err)
	}
	return nil
}

// NewDB создает новое подключение к SQLite базе данных с настройками по умолчанию.
func NewDB(ctx context.Context, dbPath string) (*sql.DB, error) {
	return NewDBWithOptions(ctx, dbPath, DefaultDBOptions())
}

// NewDBWithOptions создает новое подключение к SQLite с заданными параметрами.
func NewDBWithOptions(ctx context.Context, dbPath string, opts DBOptions) (*sql.DB, error) {
	// Создаем директорию для БД если её нет
	if dir := filepath.Dir(dbPath); dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", buildDSN(dbPath, opts))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)

	// sql.Open ленивый: файл открывается только при первом соединении
	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return db, nil
}

// buildDSN строит DSN строку для драйвера modernc.org/sqlite.
// PRAGMA передаются через параметры _pragma, поэтому применяются к каждому
// новому соединению пула, а не только к первому.
func buildDSN(dbPath string, opts DBOptions) string {
	params := []string{}

	if opts.BusyTimeout > 0 {
		params = append(params, fmt.Sprintf("_pragma=busy_timeout(%d)", opts.BusyTimeout.Milliseconds()))
	}

	// Значение всегда задаётся явно, чтобы не зависеть от сборки SQLite
	if opts.ForeignKeys {
		params = append(params, "_pragma=foreign_keys(1)")
	} else {
		params = append(params, "_pragma=foreign_keys(0)")
	}

	if opts.WALMode {
		params = append(params, "_pragma=journal_mode(WAL)")
	}

	if opts.TxLockMode != "" && opts.TxLockMode != TxLockDeferred {
		params = append(params, fmt.Sprintf("_txlock=%s", opts.TxLockMode))
	}

	return dbPath + "?" + strings.Join(params, "&")
}

// NewInMemoryDB создает in-memory SQLite базу данных для тестов.
func NewInMemoryDB(ctx context.Context) (*sql.DB, error) {
	opts := DefaultDBOptions()
	opts.MaxOpenConns = 1 // Критично для in-memory БД - одно соединение
	opts.MaxIdleConns = 1

	return NewDBWithOptions(ctx, ":memory:", opts)
}
