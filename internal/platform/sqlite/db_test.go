package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodorder/internal/shared"
)

func TestDefaultDBOptions(t *testing.T) {
	opts := DefaultDBOptions()

	assert.Equal(t, time.Duration(0), opts.ConnMaxLifetime)
	assert.Equal(t, 1, opts.MaxOpenConns)
	assert.Equal(t, 1, opts.MaxIdleConns)
	assert.Equal(t, 5*time.Second, opts.PingTimeout)
	assert.False(t, opts.WALMode)
	assert.False(t, opts.ForeignKeys)
	assert.Equal(t, 5*time.Second, opts.BusyTimeout)
	assert.Equal(t, TxLockDeferred, opts.TxLockMode)
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name     string
		dbPath   string
		opts     DBOptions
		expected string
	}{
		{
			name:     "default options",
			dbPath:   "/tmp/test.db",
			opts:     DefaultDBOptions(),
			expected: "/tmp/test.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(0)",
		},
		{
			name:     "without busy timeout",
			dbPath:   ":memory:",
			opts:     DBOptions{},
			expected: ":memory:?_pragma=foreign_keys(0)",
		},
		{
			name:   "foreign keys and wal",
			dbPath: "test.db",
			opts: DBOptions{
				ForeignKeys: true,
				WALMode:     true,
			},
			expected: "test.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)",
		},
		{
			name:     "exclusive lock",
			dbPath:   "test.db",
			opts:     DBOptions{TxLockMode: TxLockExclusive},
			expected: "test.db?_pragma=foreign_keys(0)&_txlock=exclusive",
		},
		{
			name:   "immediate lock with timeout",
			dbPath: "test.db",
			opts: DBOptions{
				BusyTimeout: 2 * time.Second,
				TxLockMode:  TxLockImmediate,
			},
			expected: "test.db?_pragma=busy_timeout(2000)&_pragma=foreign_keys(0)&_txlock=immediate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildDSN(tt.dbPath, tt.opts))
		})
	}
}

func TestNewInMemoryDB(t *testing.T) {
	ctx := context.Background()
	db, err := NewInMemoryDB(ctx)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.ExecContext(ctx, "CREATE TABLE test (id INTEGER PRIMARY KEY)")
	assert.NoError(t, err)
}

func TestNewDB_CreateDirectory(t *testing.T) {
	ctx := context.Background()

	// Путь к БД в поддиректории, которой еще нет
	dbPath := filepath.Join(t.TempDir(), "subdir", "test.db")

	db, err := NewDB(ctx, dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "food_ordering.db")

	h, err := Open(ctx, dbPath, DefaultDBOptions())
	require.NoError(t, err)
	require.NotNil(t, h)

	assert.Equal(t, dbPath, h.Path)
	assert.Regexp(t, `^3\.\d+\.\d+`, h.Version)
	assert.NotNil(t, h.TxRunner)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "файл БД должен быть создан")

	require.NoError(t, h.Close())
	// Повторное закрытие ничего не делает
	assert.NoError(t, h.Close())
}

func TestOpen_ForeignKeysPragma(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		enabled  bool
		expected int
	}{
		{"declared but not enforced by default", false, 0},
		{"enforced when enabled", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultDBOptions()
			opts.ForeignKeys = tt.enabled

			h, err := Open(ctx, filepath.Join(t.TempDir(), "fk.db"), opts)
			require.NoError(t, err)
			defer h.Close()

			var fk int
			require.NoError(t, h.DB.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
			assert.Equal(t, tt.expected, fk)
		})
	}
}

func TestOpen_ParentIsFile(t *testing.T) {
	ctx := context.Background()

	// Родитель пути - обычный файл, директорию создать нельзя
	parent := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))
	dbPath := filepath.Join(parent, "food_ordering.db")

	h, err := Open(ctx, dbPath, DefaultDBOptions())
	require.Error(t, err)
	assert.Nil(t, h)

	de, ok := shared.AsDriverError(err)
	require.True(t, ok)
	assert.Equal(t, "open", de.Op)
	assert.Equal(t, dbPath, de.Target)

	_, statErr := os.Stat(dbPath)
	assert.Error(t, statErr, "файл не должен быть создан")
}

// Под root права 0555 не мешают создать файл, поэтому тест пропускается;
// TestOpen_UncreatableSystemDirectory проверяет тот же сценарий и под root.
func TestOpen_NonWritableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root игнорирует права доступа к директории")
	}
	ctx := context.Background()

	dir := filepath.Join(t.TempDir(), "readonly")
	require.NoError(t, os.Mkdir(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })
	dbPath := filepath.Join(dir, "food_ordering.db")

	h, err := Open(ctx, dbPath, DefaultDBOptions())
	require.Error(t, err)
	assert.Nil(t, h)

	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestHandle_CloseNil(t *testing.T) {
	var h *Handle
	assert.NotPanics(t, func() {
		assert.NoError(t, h.Close())
	})
}

func TestOpen_UncreatableSystemDirectory(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("нужна файловая система /proc")
	}
	ctx := context.Background()

	// В /proc нельзя создать директорию даже под root
	dbPath := filepath.Join("/proc", "foodorder-test", "food_ordering.db")

	h, err := Open(ctx, dbPath, DefaultDBOptions())
	require.Error(t, err)
	assert.Nil(t, h)

	de, ok := shared.AsDriverError(err)
	require.True(t, ok)
	assert.Equal(t, "open", de.Op)
	assert.NoFileExists(t, dbPath)
}

func TestOpen_TxLockImmediate(t *testing.T) {
	ctx := context.Background()
	opts := DefaultDBOptions()
	opts.TxLockMode = TxLockImmediate

	h, err := Open(ctx, filepath.Join(t.TempDir(), "food_ordering.db"), opts)
	require.NoError(t, err)
	defer h.Close()

	err = h.TxRunner.WithinTx(ctx, func(ctx context.Context) error {
		_, err := h.TxRunner.GetQuerier(ctx).ExecContext(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY)")
		return err
	})
	assert.NoError(t, err)
}
