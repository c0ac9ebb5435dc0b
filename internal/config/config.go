package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Supported storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration options for the tasks service
type Config struct {
	Database    DatabaseConfig
	Server      ServerConfig
	Validation  ValidationConfig
	Pagination  PaginationConfig
	Application ApplicationConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver         string        `env:"TASKS_DB_DRIVER"`
	Dir            string        `env:"TASKS_DB_DIR"`
	Filename       string        `env:"TASKS_DB_FILENAME"`
	URL            string        `env:"TASKS_DB_URL"`
	ConnectTimeout time.Duration `env:"TASKS_DB_CONNECT_TIMEOUT"`
	DirPermissions uint32        `env:"TASKS_DB_DIR_PERMISSIONS"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr               string        `env:"TASKS_SERVER_ADDR"`
	RequestTimeout     time.Duration `env:"TASKS_SERVER_REQUEST_TIMEOUT"`
	ShutdownTimeout    time.Duration `env:"TASKS_SERVER_SHUTDOWN_TIMEOUT"`
	CORSAllowedOrigins []string      `env:"TASKS_CORS_ALLOWED_ORIGINS"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	QueryMinLength int `env:"TASKS_VALIDATION_QUERY_MIN"`
	QueryMaxLength int `env:"TASKS_VALIDATION_QUERY_MAX"`
	// TextMaxLength of zero leaves task text unbounded
	TextMaxLength int `env:"TASKS_VALIDATION_TEXT_MAX"`
}

// PaginationConfig holds listing defaults
type PaginationConfig struct {
	DefaultLimit int `env:"TASKS_PAGE_DEFAULT_LIMIT"`
	MaxLimit     int `env:"TASKS_PAGE_MAX_LIMIT"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"TASKS_APP_TIMEOUT"`
	Verbose bool          `env:"TASKS_APP_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".tasks")

	return &Config{
		Database: DatabaseConfig{
			Driver:         DriverSQLite,
			Dir:            defaultDBDir,
			Filename:       "tasks.db",
			ConnectTimeout: 10 * time.Second,
			DirPermissions: 0755,
		},
		Server: ServerConfig{
			Addr:            ":8000",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSAllowedOrigins: []string{
				"http://localhost",
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			},
		},
		Validation: ValidationConfig{
			QueryMinLength: 1,
			QueryMaxLength: 50,
			TextMaxLength:  0,
		},
		Pagination: PaginationConfig{
			DefaultLimit: 5,
			MaxLimit:     50,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
	}
}

// GetDatabasePath returns the full path to the SQLite database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// LoadFromEnvironment loads configuration from environment variables.
// Unparseable values keep the current setting.
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if driver := os.Getenv("TASKS_DB_DRIVER"); driver != "" {
		c.Database.Driver = strings.ToLower(driver)
	}
	if dir := os.Getenv("TASKS_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("TASKS_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.Database.URL = url
	}
	if url := os.Getenv("TASKS_DB_URL"); url != "" {
		c.Database.URL = url
	}
	if timeout := os.Getenv("TASKS_DB_CONNECT_TIMEOUT"); timeout != "" {
		c.Database.ConnectTimeout = ParseDurationWithFallback(timeout, c.Database.ConnectTimeout)
	}
	if perms := os.Getenv("TASKS_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}

	// Server configuration
	if addr := os.Getenv("TASKS_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if timeout := os.Getenv("TASKS_SERVER_REQUEST_TIMEOUT"); timeout != "" {
		c.Server.RequestTimeout = ParseDurationWithFallback(timeout, c.Server.RequestTimeout)
	}
	if timeout := os.Getenv("TASKS_SERVER_SHUTDOWN_TIMEOUT"); timeout != "" {
		c.Server.ShutdownTimeout = ParseDurationWithFallback(timeout, c.Server.ShutdownTimeout)
	}
	if origins := os.Getenv("TASKS_CORS_ALLOWED_ORIGINS"); origins != "" {
		c.Server.CORSAllowedOrigins = ParseListWithFallback(origins, c.Server.CORSAllowedOrigins)
	}

	// Validation configuration
	if minLen := os.Getenv("TASKS_VALIDATION_QUERY_MIN"); minLen != "" {
		c.Validation.QueryMinLength = ParseIntWithFallback(minLen, c.Validation.QueryMinLength)
	}
	if maxLen := os.Getenv("TASKS_VALIDATION_QUERY_MAX"); maxLen != "" {
		c.Validation.QueryMaxLength = ParseIntWithFallback(maxLen, c.Validation.QueryMaxLength)
	}
	if maxLen := os.Getenv("TASKS_VALIDATION_TEXT_MAX"); maxLen != "" {
		c.Validation.TextMaxLength = ParseIntWithFallback(maxLen, c.Validation.TextMaxLength)
	}

	// Pagination configuration
	if limit := os.Getenv("TASKS_PAGE_DEFAULT_LIMIT"); limit != "" {
		c.Pagination.DefaultLimit = ParseIntWithFallback(limit, c.Pagination.DefaultLimit)
	}
	if limit := os.Getenv("TASKS_PAGE_MAX_LIMIT"); limit != "" {
		c.Pagination.MaxLimit = ParseIntWithFallback(limit, c.Pagination.MaxLimit)
	}

	// Application configuration
	if timeout := os.Getenv("TASKS_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("TASKS_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Dir == "" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return &ConfigError{Field: "database.url", Message: "database url is required for the postgres driver"}
		}
	default:
		return &ConfigError{Field: "database.driver", Message: "driver must be sqlite or postgres"}
	}
	if c.Database.ConnectTimeout <= 0 {
		return &ConfigError{Field: "database.connect_timeout", Message: "connect timeout must be positive"}
	}

	// Validate server configuration
	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address cannot be empty"}
	}
	if c.Server.RequestTimeout <= 0 {
		return &ConfigError{Field: "server.request_timeout", Message: "request timeout must be positive"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}
	// Credentialed CORS cannot be combined with a wildcard, and an empty list
	// means a wildcard to the middleware
	if len(c.Server.CORSAllowedOrigins) == 0 || slices.Contains(c.Server.CORSAllowedOrigins, "*") {
		return &ConfigError{Field: "server.cors_allowed_origins", Message: "allowed origins must be listed explicitly, '*' is not accepted"}
	}

	// Validate validation configuration
	if c.Validation.QueryMinLength < 1 {
		return &ConfigError{Field: "validation.query_min_length", Message: "query minimum length must be at least 1"}
	}
	if c.Validation.QueryMaxLength < c.Validation.QueryMinLength {
		return &ConfigError{Field: "validation.query_max_length", Message: "query maximum length must not be less than minimum length"}
	}
	if c.Validation.TextMaxLength < 0 {
		return &ConfigError{Field: "validation.text_max_length", Message: "text maximum length cannot be negative"}
	}

	// Validate pagination configuration
	if c.Pagination.MaxLimit < 1 {
		return &ConfigError{Field: "pagination.max_limit", Message: "maximum page size must be at least 1"}
	}
	if c.Pagination.DefaultLimit < 1 || c.Pagination.DefaultLimit > c.Pagination.MaxLimit {
		return &ConfigError{Field: "pagination.default_limit", Message: "default page size must be between 1 and the maximum"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
