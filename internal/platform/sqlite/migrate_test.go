package sqlite

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMigrateURL(t *testing.T) {
	tests := []struct {
		name      string
		inputPath string
	}{
		{"relative path", "test.db"},
		{"absolute unix path", "/tmp/test.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := BuildMigrateURL(tt.inputPath)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(url, "sqlite://"))
			assert.True(t, strings.HasSuffix(url, "/test.db"))
			assert.NotContains(t, url, "\\")
		})
	}

	if runtime.GOOS != "windows" {
		url, err := BuildMigrateURL("/tmp/test.db")
		require.NoError(t, err)
		assert.Equal(t, "sqlite:///tmp/test.db", url)
	}
}

func testMigrations() fstest.MapFS {
	return fstest.MapFS{
		"migrations/001_create_users.up.sql":   {Data: []byte("CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL);")},
		"migrations/001_create_users.down.sql": {Data: []byte("DROP TABLE users;")},
		"migrations/002_create_posts.up.sql": {Data: []byte(`CREATE TABLE posts (
    id INTEGER PRIMARY KEY,
    user_id INTEGER,
    FOREIGN KEY(user_id) REFERENCES users(id)
);`)},
		"migrations/002_create_posts.down.sql": {Data: []byte("DROP TABLE posts;")},
	}
}

func TestApplyMigrationsFS_Version(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")
	fsys := testMigrations()

	require.NoError(t, ApplyMigrationsFS(dbPath, fsys, "migrations"))

	db, err := NewDB(context.Background(), dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('users', 'posts')").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Повторное применение не должно давать ошибку
	assert.NoError(t, ApplyMigrationsFS(dbPath, fsys, "migrations"))

	version, dirty, err := GetMigrationVersion(dbPath, fsys, "migrations")
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)
}

func TestGetMigrationVersion_NoMigrationsApplied(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")

	version, dirty, err := GetMigrationVersion(dbPath, testMigrations(), "migrations")
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)
}

func TestApplyMigrationsFS(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "embedded.db")
	fsys := fstest.MapFS{
		"migrations/1_init.up.sql":   {Data: []byte("CREATE TABLE IF NOT EXISTS items (id INTEGER PRIMARY KEY);")},
		"migrations/1_init.down.sql": {Data: []byte("DROP TABLE IF EXISTS items;")},
	}

	require.NoError(t, ApplyMigrationsFS(dbPath, fsys, "migrations"))
	require.NoError(t, ApplyMigrationsFS(dbPath, fsys, "migrations"))

	db, err := NewDB(context.Background(), dbPath)
	require.NoError(t, err)
	defer db.Close()

	var name string
	require.NoError(t, db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='items'").Scan(&name))
	assert.Equal(t, "items", name)
}

func TestApplyMigrationsFS_MissingDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")
	err := ApplyMigrationsFS(dbPath, fstest.MapFS{}, "migrations")
	assert.Error(t, err)
}
