package sqlite

import (
	"errors"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"foodorder/internal/shared"
)

// Classify сопоставляет ошибку драйвера с категорией shared.Kind.
// Расширенный код SQLite сводится к основному (младший байт).
func Classify(err error) shared.Kind {
	if err == nil {
		return shared.KindUnknown
	}
	if k := shared.KindOf(err); k != shared.KindUnknown {
		return k
	}

	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_CONSTRAINT:
			return shared.KindConflict
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return shared.KindBusy
		case sqlite3.SQLITE_MISMATCH, sqlite3.SQLITE_RANGE:
			return shared.KindValidation
		default:
			return shared.KindInternal
		}
	}

	if isBusyMessage(err.Error()) {
		return shared.KindBusy
	}
	return shared.KindInternal
}

// DriverErr оборачивает ошибку в *shared.DriverError с классификацией.
// Уже обёрнутая ошибка возвращается без изменений.
func DriverErr(op, target string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := shared.AsDriverError(err); ok {
		return err
	}
	return shared.NewDriverError(op, target, Classify(err), err)
}

// IsBusy проверяет, является ли ошибка SQLITE_BUSY / SQLITE_LOCKED.
func IsBusy(err error) bool {
	return err != nil && Classify(err) == shared.KindBusy
}

func isBusyMessage(msg string) bool {
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database table is locked")
}
