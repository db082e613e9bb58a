package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the main configuration structure
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Http     HttpConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Cors     CorsConfig     `yaml:"cors"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type HttpConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// RootPath is prepended to every route. Stored without a trailing slash.
	RootPath        string        `yaml:"root_path"`
	MaxRequestSize  int64         `yaml:"max_request_size"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns the listen address for the HTTP server.
func (c HttpConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	Driver             string         `yaml:"driver"`
	MaxOpenConnections int            `yaml:"max_open_connections"`
	Postgres           PostgresConfig `yaml:"postgres"`
	SQLite             SQLiteConfig   `yaml:"sqlite"`
}

type PostgresConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		url.QueryEscape(c.Database),
	)
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// DSN returns the modernc sqlite data source name for the configured path.
// Paths that already are a "file:" URI are used verbatim.
func (c SQLiteConfig) DSN() string {
	if strings.HasPrefix(c.Path, "file:") {
		return c.Path
	}
	if c.Path == ":memory:" {
		return "file::memory:?cache=shared"
	}
	// writers take the lock up front and wait for each other instead of deadlocking
	return fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate", c.Path)
}

// InMemory reports whether the database lives only as long as its connections
func (c SQLiteConfig) InMemory() bool {
	return strings.Contains(c.Path, ":memory:") || strings.Contains(c.Path, "mode=memory")
}

type CorsConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

// Default returns a copy of the built-in configuration.
func Default() *Config {
	cfg := defaultConfig
	cfg.Cors.AllowOrigins = append([]string(nil), defaultConfig.Cors.AllowOrigins...)
	return &cfg
}

// set sane defaults for all of the config options. when loading the config from
// the file, any options that are not set will be set to these defaults.
var defaultConfig = Config{
	Log: LogConfig{
		Level:  "info",
		Format: "json",
	},
	Http: HttpConfig{
		Host:            "0.0.0.0",
		Port:            8000,
		RootPath:        "",
		MaxRequestSize:  1048576,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	},
	Database: DatabaseConfig{
		Driver:             DriverSQLite,
		MaxOpenConnections: 10,
		Postgres: PostgresConfig{
			User:     "postgres",
			Password: "postgres",
			Host:     "localhost",
			Port:     5432,
			Database: "users",
		},
		SQLite: SQLiteConfig{
			Path: "users.db",
		},
	},
	Cors: CorsConfig{
		AllowOrigins: []string{"*"},
	},
}

// Load builds the configuration following proper precedence:
// defaults → config file → .env file → environment variables.
// A missing config file or .env file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	if err := cfg.mergeFile(ConfigFilePath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	envFile := os.Getenv("USERAPI_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables that are already set in the process
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}

	cfg.Http.RootPath = NormalizeRootPath(cfg.Http.RootPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFilePath returns the YAML file Load reads, USERAPI_CONFIG_FILE or userapi.yaml
func ConfigFilePath() string {
	if path := os.Getenv("USERAPI_CONFIG_FILE"); path != "" {
		return path
	}
	return "userapi.yaml"
}

func (c *Config) mergeFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// ApplyEnvOverrides overrides config values with environment variables if present
func (c *Config) ApplyEnvOverrides() error {
	if rootPath := os.Getenv("ROOT_PATH"); rootPath != "" {
		c.Http.RootPath = rootPath
	}
	if httpHost := os.Getenv("USERAPI_HTTP_HOST"); httpHost != "" {
		c.Http.Host = httpHost
	}
	if httpPort := os.Getenv("USERAPI_HTTP_PORT"); httpPort != "" {
		port, err := strconv.Atoi(httpPort)
		if err != nil {
			return fmt.Errorf("invalid USERAPI_HTTP_PORT %q: %w", httpPort, err)
		}
		c.Http.Port = port
	}

	if level := os.Getenv("USERAPI_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if format := os.Getenv("USERAPI_LOG_FORMAT"); format != "" {
		c.Log.Format = format
	}

	if driver := os.Getenv("USERAPI_DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dbHost := os.Getenv("USERAPI_DB_HOST"); dbHost != "" {
		c.Database.Postgres.Host = dbHost
	}
	if dbPort := os.Getenv("USERAPI_DB_PORT"); dbPort != "" {
		port, err := strconv.Atoi(dbPort)
		if err != nil {
			return fmt.Errorf("invalid USERAPI_DB_PORT %q: %w", dbPort, err)
		}
		c.Database.Postgres.Port = port
	}
	if dbUser := os.Getenv("USERAPI_DB_USER"); dbUser != "" {
		c.Database.Postgres.User = dbUser
	}
	if dbPassword := os.Getenv("USERAPI_DB_PASSWORD"); dbPassword != "" {
		c.Database.Postgres.Password = dbPassword
	}
	if dbName := os.Getenv("USERAPI_DB_NAME"); dbName != "" {
		c.Database.Postgres.Database = dbName
	}
	if sqlitePath := os.Getenv("USERAPI_SQLITE_PATH"); sqlitePath != "" {
		c.Database.SQLite.Path = sqlitePath
	}

	if origins := os.Getenv("USERAPI_CORS_ALLOW_ORIGINS"); origins != "" {
		var allow []string
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allow = append(allow, origin)
			}
		}
		c.Cors.AllowOrigins = allow
	}

	return nil
}

// Validate checks the values that the server cannot start without
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}

	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("http port must be between 1 and 65535, got %d", c.Http.Port)
	}

	if c.Database.MaxOpenConnections <= 0 {
		return fmt.Errorf("max_open_connections must be a positive integer")
	}

	if c.Database.Driver == DriverSQLite && c.Database.SQLite.Path == "" {
		return fmt.Errorf("sqlite path is required when driver is %q", DriverSQLite)
	}

	return nil
}

// NormalizeRootPath strips trailing slashes and makes sure a non-empty
// prefix starts with a slash. "/" and "" both mean no prefix.
func NormalizeRootPath(rootPath string) string {
	rootPath = strings.TrimRight(strings.TrimSpace(rootPath), "/")
	if rootPath == "" {
		return ""
	}
	if !strings.HasPrefix(rootPath, "/") {
		rootPath = "/" + rootPath
	}
	return rootPath
}
