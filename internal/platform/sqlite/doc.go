// Package sqlite предоставляет инфраструктурные компоненты для работы с SQLite.
//
// Основные возможности:
// - Открытие файла БД (Handle) с явными PRAGMA в DSN
// - Управление транзакциями с ретраями на SQLITE_BUSY
// - Классификация ошибок драйвера в shared.DriverError
// - Миграции golang-migrate из embed.FS
// - Тестовые хелперы для удобного тестирования
//
// # Быстрый старт
//
//	h, err := sqlite.Open(ctx, "food_ordering.db", sqlite.DefaultDBOptions())
//	if err != nil {
//		return err // *shared.DriverError, h == nil
//	}
//	defer h.Close()
//
// Внешние ключи по умолчанию объявлены, но не проверяются (foreign_keys(0)).
// Проверку включает DBOptions.ForeignKeys.
//
// # Транзакции
//
//	err = h.TxRunner.WithinTx(ctx, func(ctx context.Context) error {
//		q := h.TxRunner.GetQuerier(ctx)
//		_, err := q.ExecContext(ctx, "INSERT INTO Categories (category_id, name) VALUES (?, ?)", 1, "Appetizers")
//		return err
//	})
//
// # Миграции
//
//	err = sqlite.ApplyMigrationsFS("app.db", migrationsFS, "migrations")
//	version, dirty, err := sqlite.GetMigrationVersion("app.db", migrationsFS, "migrations")
//
// # Тестирование
//
//	func TestSomething(t *testing.T) {
//		testDB := sqlite.NewTestDBInMemory(t)
//		// testDB.DB, testDB.TxRunner доступны для использования
//	}
package sqlite
