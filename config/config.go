// Package config loads the settings shared by the advisor CLI and the
// catalog importers.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Log      LogConfig      `yaml:"log"`
	Resolve  ResolveConfig  `yaml:"resolve"`
	Scrape   ScrapeConfig   `yaml:"scrape"`
}

// DatabaseConfig holds a Postgres connection string, either a URL or
// keyword/value pairs such as "host=localhost dbname=advise".
type DatabaseConfig struct {
	URL string `yaml:"url" validate:"omitempty,dsn"`
}

// CatalogConfig names a catalog JSON document to read instead of the
// database.
type CatalogConfig struct {
	File string `yaml:"file"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

type ResolveConfig struct {
	Parallelism int `yaml:"parallelism" validate:"min=1"`
	MaxRounds   int `yaml:"max_rounds" validate:"min=1"`
}

type ScrapeConfig struct {
	// BaseURL is the registrar's class search site.
	BaseURL string `yaml:"base_url" validate:"required,url"`
	// APIURL serves the course catalog API.
	APIURL            string  `yaml:"api_url" validate:"required,url"`
	Quarter           string  `yaml:"quarter" validate:"required"`
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gt=0"`
	Burst             int     `yaml:"burst" validate:"min=1"`
	Workers           int     `yaml:"workers" validate:"min=1"`
}

const (
	EnvDatabaseURL = "DATABASE_CONNECTION_STRING"
	EnvCatalogFile = "ADVISE_CATALOG_FILE"
	EnvLogLevel    = "ADVISE_LOG_LEVEL"
)

func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Resolve: ResolveConfig{
			Parallelism: 4,
			MaxRounds:   16,
		},
		Scrape: ScrapeConfig{
			BaseURL:           "https://sa.ucla.edu",
			APIURL:            "https://api.ucla.edu/sis/publicapis",
			Quarter:           "24W",
			RequestsPerSecond: 5,
			Burst:             5,
			Workers:           8,
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDatabaseURL); ok && v != "" {
		c.Database.URL = v
	}
	if v, ok := lookup(EnvCatalogFile); ok && v != "" {
		c.Catalog.File = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

var validate = newValidator()

// newValidator reports fields by their YAML names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("dsn", func(fl validator.FieldLevel) bool {
		_, err := pgxpool.ParseConfig(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate reports every invalid field, named by its YAML path.
func (c Config) Validate() error {
	err := validate.Struct(c)
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return err
	}
	var msgs []string
	for _, fe := range invalid {
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", path, fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// LogLevel is the configured level. Validate guarantees it parses.
func (c Config) LogLevel() slog.Level {
	var level slog.Level
	_ = level.UnmarshalText([]byte(c.Log.Level))
	return level
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel()}))
}
