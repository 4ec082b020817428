package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultSecret = "default-secret"

var ErrDatabaseURLRequired = errors.New("database_url is required")

type Config struct {
	Debug                 bool          `yaml:"debug"`
	Dev                   bool          `yaml:"dev"`
	Host                  string        `yaml:"host"`
	Port                  string        `yaml:"port"`
	Secret                string        `yaml:"secret"`
	DatabaseURL           string        `yaml:"database_url"`
	MigrationSource       string        `yaml:"migration_source"`
	OtelCollectorUrl      string        `yaml:"otel_collector_url"`
	AllowOrigins          []string      `yaml:"allow_origins"`
	AccessTokenExpiration time.Duration `yaml:"access_token_expiration"`
	MetricsEnabled        bool          `yaml:"metrics_enabled"`
	ExportMaxRows         int           `yaml:"export_max_rows"`
}

func Default() Config {
	return Config{
		Debug:                 false,
		Dev:                   false,
		Host:                  "localhost",
		Port:                  "8080",
		Secret:                DefaultSecret,
		MigrationSource:       "file://internal/database/migrations",
		AllowOrigins:          []string{},
		AccessTokenExpiration: 24 * time.Hour,
		MetricsEnabled:        false,
		ExportMaxRows:         50000,
	}
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrDatabaseURLRequired
	}
	if c.ExportMaxRows < 0 {
		return fmt.Errorf("export_max_rows must not be negative, got %d", c.ExportMaxRows)
	}
	return nil
}

// Load resolves the configuration from defaults, config.yaml, a .env file,
// the process environment and command line flags, later sources winning.
// Messages are buffered because the logger does not exist yet.
func Load() (Config, *LogBuffer) {
	logger := NewConfigLogger()
	config := Default()

	fileConfig, err := FromFile("config.yaml", logger)
	if err != nil {
		logger.Warn("Failed to load config from file", err, map[string]string{"path": "config.yaml"})
	} else {
		config = Merge(config, fileConfig)
	}

	if err := godotenv.Overload(); err != nil {
		logger.Info("No .env file loaded", map[string]string{"error": err.Error()})
	}

	envConfig, err := FromEnv(os.LookupEnv)
	if err != nil {
		logger.Warn("Failed to parse environment variables", err, nil)
	} else {
		config = Merge(config, envConfig)
	}

	flagConfig, err := FromFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		logger.Warn("Failed to parse flags", err, nil)
	} else {
		config = Merge(config, flagConfig)
	}

	return config, logger
}

// FromFile reads a YAML config file. A missing file yields an empty config.
func FromFile(path string, logger *LogBuffer) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("Config file not found, skipping", map[string]string{"path": path})
			return Config{}, nil
		}
		return Config{}, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	logger.Info("Loaded config from file", map[string]string{"path": path})
	return config, nil
}

// FromEnv reads the supported environment variables through lookup.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	var config Config
	var errs []error

	parseBool := func(key string, target *bool) {
		if value, ok := lookup(key); ok && value != "" {
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*target = parsed
		}
	}
	parseString := func(key string, target *string) {
		if value, ok := lookup(key); ok && value != "" {
			*target = value
		}
	}

	parseBool("DEBUG", &config.Debug)
	parseBool("DEV", &config.Dev)
	parseString("HOST", &config.Host)
	parseString("PORT", &config.Port)
	parseString("SECRET", &config.Secret)
	parseString("DATABASE_URL", &config.DatabaseURL)
	parseString("MIGRATION_SOURCE", &config.MigrationSource)
	parseString("OTEL_COLLECTOR_URL", &config.OtelCollectorUrl)
	parseBool("METRICS_ENABLED", &config.MetricsEnabled)

	if value, ok := lookup("ALLOW_ORIGINS"); ok && value != "" {
		config.AllowOrigins = splitList(value)
	}
	if value, ok := lookup("ACCESS_TOKEN_EXPIRATION"); ok && value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("ACCESS_TOKEN_EXPIRATION: %w", err))
		} else {
			config.AccessTokenExpiration = parsed
		}
	}
	if value, ok := lookup("EXPORT_MAX_ROWS"); ok && value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("EXPORT_MAX_ROWS: %w", err))
		} else {
			config.ExportMaxRows = parsed
		}
	}

	return config, errors.Join(errs...)
}

func FromFlags(fs *flag.FlagSet, args []string) (Config, error) {
	var config Config
	var allowOrigins string

	fs.BoolVar(&config.Debug, "debug", false, "debug mode")
	fs.BoolVar(&config.Dev, "dev", false, "development mode")
	fs.StringVar(&config.Host, "host", "", "host")
	fs.StringVar(&config.Port, "port", "", "port")
	fs.StringVar(&config.Secret, "secret", "", "secret")
	fs.StringVar(&config.DatabaseURL, "database_url", "", "database url")
	fs.StringVar(&config.MigrationSource, "migration_source", "", "migration source")
	fs.StringVar(&config.OtelCollectorUrl, "otel_collector_url", "", "OpenTelemetry collector URL")
	fs.StringVar(&allowOrigins, "allow_origins", "", "comma separated allowed CORS origins")
	fs.DurationVar(&config.AccessTokenExpiration, "access_token_expiration", 0, "access token lifetime")
	fs.IntVar(&config.ExportMaxRows, "export_max_rows", 0, "maximum rows per export")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if allowOrigins != "" {
		config.AllowOrigins = splitList(allowOrigins)
	}
	return config, nil
}

// Merge overlays the non-zero fields of override onto base. Booleans can only
// be switched on by an override.
func Merge(base, override Config) Config {
	if override.Debug {
		base.Debug = true
	}
	if override.Dev {
		base.Dev = true
	}
	if override.Host != "" {
		base.Host = override.Host
	}
	if override.Port != "" {
		base.Port = override.Port
	}
	if override.Secret != "" {
		base.Secret = override.Secret
	}
	if override.DatabaseURL != "" {
		base.DatabaseURL = override.DatabaseURL
	}
	if override.MigrationSource != "" {
		base.MigrationSource = override.MigrationSource
	}
	if override.OtelCollectorUrl != "" {
		base.OtelCollectorUrl = override.OtelCollectorUrl
	}
	if len(override.AllowOrigins) > 0 {
		base.AllowOrigins = override.AllowOrigins
	}
	if override.AccessTokenExpiration != 0 {
		base.AccessTokenExpiration = override.AccessTokenExpiration
	}
	if override.MetricsEnabled {
		base.MetricsEnabled = true
	}
	if override.ExportMaxRows != 0 {
		base.ExportMaxRows = override.ExportMaxRows
	}
	return base
}

func splitList(value string) []string {
	var items []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}
