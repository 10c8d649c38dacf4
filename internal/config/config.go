package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(LevelForEnvironment(GetEnvWithDefault("APP_ENV", "development")))
}

// DefaultDatabaseURI is used when DB_URI is not set
const DefaultDatabaseURI = "sqlite:///app.db"

// DevelopmentJWTSecret signs tokens when auth is disabled and JWT_SECRET is unset.
// It is rejected once AUTH_ENABLED is true.
const DevelopmentJWTSecret = "secret"

// Config used for the application configuration. Values come from defaults,
// then an optional YAML file named by CONFIG_FILE, then environment variables.
type Config struct {
	// Server Configuration
	Environment string `koanf:"environment" json:"environment"`
	Host        string `koanf:"host" json:"host"`
	Port        int    `koanf:"port" json:"port"`

	// DatabaseURI is a sqlite path (optionally sqlite:///path) or a postgres URL
	DatabaseURI string `koanf:"database_uri" json:"database_uri"`
	SeedOnStart bool   `koanf:"seed_on_start" json:"seed_on_start"`

	// Logging configuration
	LogLevel string `koanf:"log_level" json:"log_level"`

	// Security Configuration
	AuthEnabled        bool     `koanf:"auth_enabled" json:"auth_enabled"`
	JWTSecret          string   `koanf:"jwt_secret" json:"jwt_secret"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" json:"cors_allowed_origins"`

	// Cache configuration, an empty RedisURL disables caching
	RedisURL string        `koanf:"redis_url" json:"redis_url"`
	CacheTTL time.Duration `koanf:"-" json:"cache_ttl"`

	// LatencyBuckets overrides the request latency histogram buckets, in seconds.
	// Only read from the config file.
	LatencyBuckets []float64 `koanf:"latency_buckets" json:"latency_buckets,omitempty"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Environment:        "development",
		Host:               "localhost",
		Port:               5555,
		DatabaseURI:        DefaultDatabaseURI,
		SeedOnStart:        true,
		LogLevel:           "info",
		AuthEnabled:        false,
		JWTSecret:          DevelopmentJWTSecret,
		CORSAllowedOrigins: []string{"*"},
		CacheTTL:           60 * time.Second,
	}
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Environment: %s, Host: %s, Port: %d, DatabaseURI: %s, SeedOnStart: %t, LogLevel: %s, AuthEnabled: %t, JWTSecret: [REDACTED], CORSAllowedOrigins: %v, RedisURL: %s, CacheTTL: %s}",
		c.Environment, c.Host, c.Port, maskURL(c.DatabaseURI), c.SeedOnStart, c.LogLevel, c.AuthEnabled, c.CORSAllowedOrigins, maskURL(c.RedisURL), c.CacheTTL)
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// maskURL masks the password in a connection URL
func maskURL(raw string) string {
	if raw == "" || !strings.Contains(raw, "://") {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		if _, hasPassword := parsed.User.Password(); hasPassword {
			parsed.User = url.UserPassword(parsed.User.Username(), "REDACTED")
		}
	}

	return parsed.String()
}

// LoadConfig reads the configuration and returns a Config struct
// Returns an error if a value is present but cannot be parsed
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration")
	config := Default()

	if path := GetEnvWithDefault("CONFIG_FILE", ""); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, err
		}
	}

	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", strconv.Itoa(config.Port)))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	config.Port = port

	authEnabled, err := strconv.ParseBool(GetEnvWithDefault("AUTH_ENABLED", strconv.FormatBool(config.AuthEnabled)))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_ENABLED: %w", err)
	}
	config.AuthEnabled = authEnabled

	seed, err := strconv.ParseBool(GetEnvWithDefault("SEED_ON_START", strconv.FormatBool(config.SeedOnStart)))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_ON_START: %w", err)
	}
	config.SeedOnStart = seed

	config.Environment = GetEnvWithDefault("APP_ENV", config.Environment)
	config.Host = GetEnvWithDefault("APP_HOST", config.Host)
	config.DatabaseURI = GetEnvWithDefault("DB_URI", config.DatabaseURI)
	config.LogLevel = GetEnvWithDefault("LOG_LEVEL", config.LogLevel)
	config.JWTSecret = GetEnvWithDefault("JWT_SECRET", config.JWTSecret)
	config.RedisURL = GetEnvWithDefault("REDIS_URL", config.RedisURL)
	config.CacheTTL = time.Duration(GetEnvAsType("CACHE_TTL_SECONDS", int(config.CacheTTL/time.Second))) * time.Second

	if origins := GetEnvWithDefault("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		config.CORSAllowedOrigins = splitList(origins)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Validate checks values that cannot be used as given
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.DatabaseURI == "" {
		return fmt.Errorf("database uri must not be empty")
	}
	if c.AuthEnabled && (c.JWTSecret == "" || c.JWTSecret == DevelopmentJWTSecret) {
		return fmt.Errorf("JWT_SECRET must be set to a non-default value when AUTH_ENABLED is true")
	}
	for i := 1; i < len(c.LatencyBuckets); i++ {
		if c.LatencyBuckets[i] <= c.LatencyBuckets[i-1] {
			return fmt.Errorf("latency buckets must be strictly increasing: %v", c.LatencyBuckets)
		}
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}

// loadFile layers a YAML configuration file over the defaults
func loadFile(path string, config *Config) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := k.UnmarshalWithConf("", config, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if k.Exists("cache_ttl_seconds") {
		config.CacheTTL = time.Duration(k.Int("cache_ttl_seconds")) * time.Second
	}
	log.WithField("path", path).Debug("Configuration file applied")
	return nil
}

// LevelForEnvironment returns the log level used by default in an environment
func LevelForEnvironment(environment string) logrus.Level {
	switch environment {
	case "development":
		return logrus.DebugLevel
	case "production":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
