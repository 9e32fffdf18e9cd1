package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DefaultDBPath is the database file used when DB_PATH is not set.
const DefaultDBPath = "food_ordering.db"

// Schema modes.
const (
	SchemaModeDDL     = "ddl"
	SchemaModeMigrate = "migrate"
)

// Config holds application configuration values.
type Config struct {
	Env string `validate:"required,oneof=dev prod"`
	DB  struct {
		Path        string `validate:"required"`
		ForeignKeys bool
		TxLock      string `validate:"required,oneof=deferred immediate exclusive"`
	}
	Schema struct {
		Mode string `validate:"required,oneof=ddl migrate"`
	}
	Seed   bool
	Report struct {
		XLSX string
	}
	Log struct {
		ConsoleLevel string `validate:"required,oneof=debug info warn error"`
		FileLevel    string `validate:"required,oneof=debug info warn error"`
		File         string
	}
}

var validate = validator.New()

// Default returns the configuration of a plain run: food_ordering.db in the
// working directory, permissive foreign keys, DDL schema, seeding on.
func Default() Config {
	var c Config
	c.Env = "prod"
	c.DB.Path = DefaultDBPath
	c.DB.TxLock = "deferred"
	c.Schema.Mode = SchemaModeDDL
	c.Seed = true
	c.Log.ConsoleLevel = "info"
	c.Log.FileLevel = "debug"
	return c
}

// Load reads configuration from environment variables and optional .env file.
// Every variable is optional.
func Load() (Config, error) {
	_ = godotenv.Load()

	c := Default()
	c.Env = getenv("ENV", c.Env)
	c.DB.Path = getenv("DB_PATH", c.DB.Path)
	c.DB.TxLock = strings.ToLower(getenv("DB_TX_LOCK", c.DB.TxLock))
	c.Schema.Mode = strings.ToLower(getenv("SCHEMA_MODE", c.Schema.Mode))
	c.Report.XLSX = os.Getenv("REPORT_XLSX")
	c.Log.ConsoleLevel = strings.ToLower(getenv("LOG_CONSOLE_LEVEL", c.Log.ConsoleLevel))
	c.Log.FileLevel = strings.ToLower(getenv("LOG_FILE_LEVEL", c.Log.FileLevel))
	c.Log.File = os.Getenv("LOG_FILE")

	var err error
	if c.DB.ForeignKeys, err = getbool("DB_FOREIGN_KEYS", c.DB.ForeignKeys); err != nil {
		return Config{}, err
	}
	if c.Seed, err = getbool("SEED", c.Seed); err != nil {
		return Config{}, err
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	return validate.Struct(c)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", k, v)
	}
	return b, nil
}
