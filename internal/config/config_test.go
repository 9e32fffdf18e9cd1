package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ENV", "DB_PATH", "DB_FOREIGN_KEYS", "DB_TX_LOCK", "SCHEMA_MODE", "SEED",
		"REPORT_XLSX", "LOG_CONSOLE_LEVEL", "LOG_FILE_LEVEL", "LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir()) // no .env file

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", c.Env)
	assert.Equal(t, "food_ordering.db", c.DB.Path)
	assert.False(t, c.DB.ForeignKeys)
	assert.Equal(t, "deferred", c.DB.TxLock)
	assert.Equal(t, SchemaModeDDL, c.Schema.Mode)
	assert.True(t, c.Seed)
	assert.Empty(t, c.Report.XLSX)
	assert.Equal(t, "info", c.Log.ConsoleLevel)
	assert.Equal(t, "debug", c.Log.FileLevel)
	assert.Empty(t, c.Log.File)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("ENV", "dev")
	t.Setenv("DB_PATH", "data/orders.db")
	t.Setenv("DB_FOREIGN_KEYS", "true")
	t.Setenv("DB_TX_LOCK", "Immediate")
	t.Setenv("SCHEMA_MODE", "MIGRATE")
	t.Setenv("SEED", "0")
	t.Setenv("REPORT_XLSX", "report.xlsx")
	t.Setenv("LOG_CONSOLE_LEVEL", "WARN")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", c.Env)
	assert.Equal(t, "data/orders.db", c.DB.Path)
	assert.True(t, c.DB.ForeignKeys)
	assert.Equal(t, "immediate", c.DB.TxLock)
	assert.Equal(t, SchemaModeMigrate, c.Schema.Mode)
	assert.False(t, c.Seed)
	assert.Equal(t, "report.xlsx", c.Report.XLSX)
	assert.Equal(t, "warn", c.Log.ConsoleLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad env", "ENV", "staging"},
		{"bad schema mode", "SCHEMA_MODE", "auto"},
		{"bad log level", "LOG_FILE_LEVEL", "trace"},
		{"bad bool", "DB_FOREIGN_KEYS", "maybe"},
		{"bad tx lock", "DB_TX_LOCK", "shared"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDefault_Valid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
