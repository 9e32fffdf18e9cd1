package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"foodorder/pkg/retry"
)

// txKey используется как ключ для хранения транзакции в context.Context
type txKey struct{}

// Querier объединяет методы выполнения запросов, общие для БД и транзакции.
// Позволяет работать с одним интерфейсом независимо от того,
// выполняется ли запрос в транзакции или через основное подключение.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Убедимся на этапе компиляции, что типы реализуют интерфейс
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// ErrNestedTx возвращается при попытке открыть транзакцию внутри транзакции.
var ErrNestedTx = errors.New("nested transactions are not supported by SQLite")

// TxRunner предоставляет возможность выполнения кода внутри транзакции.
// Реализует паттерн "функция обратного вызова" для гарантированного
// коммита или отката транзакции, с ретраями на SQLITE_BUSY.
type TxRunner struct {
	DB    *sql.DB
	Retry retry.Config
}

// NewTxRunner создает новый TxRunner с настройками ретраев по умолчанию.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{DB: db, Retry: retry.DefaultConfig()}
}

// WithinTx выполняет функцию fn внутри транзакции.
// Если fn возвращает ошибку, транзакция откатывается.
// Если fn выполняется успешно (возвращает nil), транзакция коммитится.
// Транзакция доступна внутри fn через SqlTx(ctx) или GetQuerier(ctx).
// Вся транзакция повторяется, если SQLite ответил SQLITE_BUSY.
func (r *TxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, r.Retry, func(ctx context.Context) error {
		return r.executeTx(ctx, fn)
	}, IsBusy)
}

// SqlTx извлекает активную транзакцию из контекста.
func SqlTx(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// GetQuerier возвращает объект для выполнения запросов.
// Если в контексте есть активная транзакция - возвращает её,
// иначе возвращает основное подключение к БД.
func (r *TxRunner) GetQuerier(ctx context.Context) Querier {
	if tx, ok := SqlTx(ctx); ok {
		return tx
	}
	return r.DB
}

// executeTx выполняет одну попытку транзакции.
func (r *TxRunner) executeTx(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := SqlTx(ctx); ok {
		return ErrNestedTx
	}

	// Режим блокировки (_txlock) задан в DSN, BEGIN выполняет драйвер
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	ctx = context.WithValue(ctx, txKey{}, tx)

	if err := fn(ctx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
