// Package config loads PopcornPicks configuration from command-line flags,
// environment variables and an optional .env file.
//
// Precedence, highest first: flags, environment, .env file, defaults.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Data     DataConfig
	Server   ServerConfig
	Auth     AuthConfig
	Metadata MetadataConfig
	Catalog  CatalogConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig locates on-disk state: the sqlite database and the token key.
type DataConfig struct {
	BasePath string
}

// DatabasePath returns the sqlite file location.
func (d DataConfig) DatabasePath() string {
	return filepath.Join(d.BasePath, "popcornpicks.db")
}

// KeyPath returns the access token key location.
func (d DataConfig) KeyPath() string {
	return filepath.Join(d.BasePath, "auth.key")
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	CORSAllowedOrigins []string
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// AccessTokenKey is the PASETO v4 symmetric key. Filled in at startup
	// by auth.LoadOrGenerateKey.
	AccessTokenKey      []byte
	AccessTokenDuration time.Duration
}

// MetadataConfig configures the external title lookup service.
type MetadataConfig struct {
	APIKey  string
	BaseURL string
	// Timeout bounds every lookup attempt.
	Timeout time.Duration
	// MaxRetries applies to unavailable responses only. Zero disables retrying.
	MaxRetries int
	// Concurrency caps parallel lookups inside one recommendation or search.
	Concurrency int
	// RequestsPerSecond throttles outgoing lookups across the process.
	RequestsPerSecond float64
}

// CatalogConfig locates the movie catalog.
type CatalogConfig struct {
	// Path to a JSON catalog file. Empty selects the built-in trending list.
	Path string
}

// DefaultOMDbURL is the public OMDb endpoint.
const DefaultOMDbURL = "https://www.omdbapi.com/"

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load parses args and the environment into a validated Config.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("popcornpicks", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory for the database and key files")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	port := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins")

	accessTokenDuration := fs.String("access-token-duration", "", "Access token lifetime (default: 30m)")

	omdbKey := fs.String("omdb-api-key", "", "OMDb API key")
	omdbURL := fs.String("omdb-base-url", "", "OMDb base URL")
	metadataTimeout := fs.String("metadata-timeout", "", "Per-lookup timeout (default: 5s)")
	metadataRetries := fs.String("metadata-max-retries", "", "Retries for unavailable lookups (default: 0)")
	metadataConcurrency := fs.String("metadata-concurrency", "", "Parallel lookups per request (default: 4)")
	metadataRPS := fs.String("metadata-rps", "", "Outgoing lookup rate (default: 5)")

	catalogPath := fs.String("catalog-path", "", "Path to a JSON movie catalog")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// A missing .env file is normal.
	if err := loadEnvFile(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:               getConfigValue(*port, "SERVER_PORT", "8080"),
			CORSAllowedOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "*")),
		},
		Metadata: MetadataConfig{
			APIKey:  getConfigValue(*omdbKey, "OMDB_API_KEY", ""),
			BaseURL: getConfigValue(*omdbURL, "OMDB_BASE_URL", DefaultOMDbURL),
		},
		Catalog: CatalogConfig{
			Path: getConfigValue(*catalogPath, "CATALOG_PATH", ""),
		},
	}

	var err error
	durations := []struct {
		dst         *time.Duration
		flagValue   string
		envKey, def string
		description string
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s", "read timeout"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "30s", "write timeout"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", "idle timeout"},
		{&cfg.Auth.AccessTokenDuration, *accessTokenDuration, "ACCESS_TOKEN_DURATION", "30m", "access token duration"},
		{&cfg.Metadata.Timeout, *metadataTimeout, "METADATA_TIMEOUT", "5s", "metadata timeout"},
	}
	for _, d := range durations {
		if *d.dst, err = getDurationConfigValue(d.flagValue, d.envKey, d.def); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.description, err)
		}
	}

	if cfg.Metadata.MaxRetries, err = getIntConfigValue(*metadataRetries, "METADATA_MAX_RETRIES", 0); err != nil {
		return nil, fmt.Errorf("invalid metadata max retries: %w", err)
	}
	if cfg.Metadata.Concurrency, err = getIntConfigValue(*metadataConcurrency, "METADATA_CONCURRENCY", 4); err != nil {
		return nil, fmt.Errorf("invalid metadata concurrency: %w", err)
	}
	if cfg.Metadata.RequestsPerSecond, err = getFloatConfigValue(*metadataRPS, "METADATA_RPS", 5); err != nil {
		return nil, fmt.Errorf("invalid metadata rps: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that all config values are present and sane.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	case "":
		return errors.New("ENV is required")
	default:
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data path cannot be empty after expansion")
	}
	if c.Auth.AccessTokenDuration <= 0 {
		return errors.New("access token duration must be positive")
	}
	if c.Metadata.Timeout <= 0 {
		return errors.New("metadata timeout must be positive")
	}
	if c.Metadata.MaxRetries < 0 {
		return errors.New("metadata max retries cannot be negative")
	}
	if c.Metadata.Concurrency < 1 {
		return errors.New("metadata concurrency must be at least 1")
	}
	if c.Metadata.RequestsPerSecond <= 0 {
		return errors.New("metadata rps must be positive")
	}
	if c.Metadata.BaseURL == "" {
		return errors.New("metadata base url cannot be empty")
	}
	return nil
}

func (c *Config) expandPaths() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	c.Data.BasePath, err = expandPath(c.Data.BasePath, filepath.Join(home, ".popcornpicks"))
	if err != nil {
		return fmt.Errorf("invalid data path: %w", err)
	}
	if c.Catalog.Path != "" {
		c.Catalog.Path, err = expandPath(c.Catalog.Path, "")
		if err != nil {
			return fmt.Errorf("invalid catalog path: %w", err)
		}
	}
	return nil
}

// expandPath expands ~ and makes path absolute. An empty path yields defaultPath.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return abs, nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}

func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	raw := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", envKey, raw, err)
	}
	return d, nil
}

func getIntConfigValue(flagValue, envKey string, defaultValue int) (int, error) {
	raw := getConfigValue(flagValue, envKey, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", envKey, raw, err)
	}
	return n, nil
}

func getFloatConfigValue(flagValue, envKey string, defaultValue float64) (float64, error) {
	raw := getConfigValue(flagValue, envKey, "")
	if raw == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", envKey, raw, err)
	}
	return f, nil
}

func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads KEY=value lines from path into the environment.
// Variables already set in the environment win.
func loadEnvFile(path string) error {
	f, err := os.Open(path) //#nosec G304 -- path comes from the operator
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set env var %s: %w", key, err)
		}
	}
	return scanner.Err()
}
