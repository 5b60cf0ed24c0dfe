package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	defaultDatabaseURL     = "gameshelf.db"
	defaultSheetTTLSeconds = 86400
	defaultPort            = "8080"
	defaultIGDBRate        = 4.0
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	IGDB     IGDBConfig     `yaml:"igdb"`
	Sheet    SheetConfig    `yaml:"sheet"`
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// DatabaseConfig selects the SQL store.
type DatabaseConfig struct {
	URL    string `yaml:"url"`
	Driver string `yaml:"driver"` // sqlite, sqlite3 or postgres; inferred from URL when empty
}

// IGDBConfig holds catalog credentials.
type IGDBConfig struct {
	ClientID          string  `yaml:"client_id"`
	ClientSecret      string  `yaml:"client_secret"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// SheetConfig controls the game sheet cache.
type SheetConfig struct {
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// RedisConfig enables the shared lookup cache when URL is set.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TracingConfig holds the OTLP endpoint.
type TracingConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// envOverrides mirrors the environment variables that take precedence over the file.
type envOverrides struct {
	DatabaseURL      string   `env:"DATABASE_URL"`
	DatabaseDriver   string   `env:"GAMESHELF_DB_DRIVER"`
	IGDBClientID     string   `env:"IGDB_CLIENT_ID"`
	IGDBClientSecret string   `env:"IGDB_CLIENT_SECRET"`
	IGDBRate         string   `env:"GAMESHELF_IGDB_RATE"`
	SheetTTL         string   `env:"SHEET_CACHE_TTL_SECONDS"`
	Port             string   `env:"GAMESHELF_PORT"`
	CORSOrigins      []string `env:"GAMESHELF_CORS_ORIGINS" envSeparator:","`
	RedisURL         string   `env:"GAMESHELF_REDIS_URL"`
	LogLevel         string   `env:"GAMESHELF_LOG_LEVEL"`
	LogFormat        string   `env:"GAMESHELF_LOG_FORMAT"`
	OTLPEndpoint     string   `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{URL: defaultDatabaseURL},
		IGDB:     IGDBConfig{RequestsPerSecond: defaultIGDBRate},
		Sheet:    SheetConfig{CacheTTLSeconds: defaultSheetTTLSeconds},
		Server:   ServerConfig{Port: defaultPort, CORSOrigins: []string{"*"}},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}

// configPaths returns the list of paths to search for config file.
func configPaths() []string {
	paths := []string{
		".gameshelf.yaml",
		".gameshelf.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "gameshelf", "config.yaml"),
			filepath.Join(home, ".config", "gameshelf", "config.yml"),
		)
	}

	return paths
}

// Load loads configuration from file or returns defaults.
// Priority: environment variables > GAMESHELF_CONFIG file > search paths > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if envPath := os.Getenv("GAMESHELF_CONFIG"); envPath != "" {
		if err := cfg.loadFromFile(envPath); err != nil {
			return nil, err
		}
		return cfg, cfg.applyEnvOverrides()
	}

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadFromFile(path); err != nil {
				return nil, err
			}
			break
		}
	}

	return cfg, cfg.applyEnvOverrides()
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnvOverrides() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return err
	}

	setIf(&c.Database.URL, o.DatabaseURL)
	setIf(&c.Database.Driver, o.DatabaseDriver)
	setIf(&c.IGDB.ClientID, o.IGDBClientID)
	setIf(&c.IGDB.ClientSecret, o.IGDBClientSecret)
	setIf(&c.Server.Port, o.Port)
	setIf(&c.Redis.URL, o.RedisURL)
	setIf(&c.Logging.Level, o.LogLevel)
	setIf(&c.Logging.Format, o.LogFormat)
	setIf(&c.Tracing.Endpoint, o.OTLPEndpoint)

	if len(o.CORSOrigins) > 0 {
		c.Server.CORSOrigins = o.CORSOrigins
	}

	// An unparsable TTL falls back to the default instead of failing startup.
	if o.SheetTTL != "" {
		ttl, err := strconv.Atoi(strings.TrimSpace(o.SheetTTL))
		if err != nil {
			ttl = defaultSheetTTLSeconds
		}
		c.Sheet.CacheTTLSeconds = ttl
	}
	if o.IGDBRate != "" {
		if rate, err := strconv.ParseFloat(strings.TrimSpace(o.IGDBRate), 64); err == nil {
			c.IGDB.RequestsPerSecond = rate
		}
	}

	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// GetDatabaseURL returns the database URL with driver-specific scheme suffixes removed.
// SQLite URLs are reduced to a file path.
func (c *Config) GetDatabaseURL() string {
	u := strings.TrimSpace(c.Database.URL)
	if u == "" {
		return defaultDatabaseURL
	}
	scheme, rest, ok := strings.Cut(u, "://")
	if !ok {
		return u
	}
	base, _, _ := strings.Cut(scheme, "+")
	if base == "sqlite" || base == "sqlite3" {
		// sqlite:///games.db names a relative file, sqlite:////data/games.db an absolute one.
		return strings.TrimPrefix(rest, "/")
	}
	return base + "://" + rest
}

// GetDatabaseDriver returns the configured driver, inferring postgres from the URL scheme.
func (c *Config) GetDatabaseDriver() string {
	if c.Database.Driver != "" {
		return strings.ToLower(c.Database.Driver)
	}
	u := c.GetDatabaseURL()
	if strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

// GetSheetTTL returns the sheet cache lifetime. Non-positive values use the default.
func (c *Config) GetSheetTTL() time.Duration {
	if c.Sheet.CacheTTLSeconds > 0 {
		return time.Duration(c.Sheet.CacheTTLSeconds) * time.Second
	}
	return defaultSheetTTLSeconds * time.Second
}

// GetPort returns the HTTP listen port.
func (c *Config) GetPort() string {
	if c.Server.Port != "" {
		return c.Server.Port
	}
	return defaultPort
}

// GetCORSOrigins returns allowed CORS origins.
func (c *Config) GetCORSOrigins() []string {
	if len(c.Server.CORSOrigins) > 0 {
		return c.Server.CORSOrigins
	}
	return []string{"*"}
}

// GetIGDBRate returns the outbound IGDB request rate per second.
func (c *Config) GetIGDBRate() float64 {
	if c.IGDB.RequestsPerSecond > 0 {
		return c.IGDB.RequestsPerSecond
	}
	return defaultIGDBRate
}

// CatalogConfigured reports whether both IGDB credentials are present.
func (c *Config) CatalogConfigured() bool {
	return strings.TrimSpace(c.IGDB.ClientID) != "" && strings.TrimSpace(c.IGDB.ClientSecret) != ""
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if out.IGDB.ClientSecret != "" {
		out.IGDB.ClientSecret = "********"
	}
	return &out
}
