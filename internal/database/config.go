package database

import (
	"fmt"
	"net/url"
	"strings"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	// Driver specifies the database driver (postgres, sqlite)
	Driver string

	// URL is the PostgreSQL connection URL
	URL string

	// Path is the SQLite database file, or ":memory:"
	Path string
}

// ParseDatabaseURI builds a DatabaseConfig from a DB_URI style value.
// Accepted forms: postgres://..., postgresql://..., sqlite:///path, or a bare sqlite path.
func ParseDatabaseURI(uri string) (DatabaseConfig, error) {
	uri = strings.TrimSpace(uri)
	switch {
	case uri == "":
		return DatabaseConfig{}, fmt.Errorf("empty database uri")
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		if _, err := url.Parse(uri); err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid postgres uri: %w", err)
		}
		return DatabaseConfig{Driver: DriverPostgres, URL: uri}, nil
	case strings.HasPrefix(uri, "sqlite:///"):
		return DatabaseConfig{Driver: DriverSQLite, Path: strings.TrimPrefix(uri, "sqlite:///")}, nil
	case strings.HasPrefix(uri, "sqlite://"):
		return DatabaseConfig{Driver: DriverSQLite, Path: strings.TrimPrefix(uri, "sqlite://")}, nil
	case strings.Contains(uri, "://"):
		return DatabaseConfig{}, fmt.Errorf("unsupported database uri scheme: %s", uri)
	default:
		return DatabaseConfig{Driver: DriverSQLite, Path: uri}, nil
	}
}

// String returns a string representation with sensitive data masked
func (c *DatabaseConfig) String() string {
	masked := c.URL
	if parsed, err := url.Parse(c.URL); err == nil && parsed.User != nil {
		parsed.User = url.UserPassword(parsed.User.Username(), "REDACTED")
		masked = parsed.String()
	}
	return fmt.Sprintf("DatabaseConfig{Driver: %s, URL: %s, Path: %s}", c.Driver, masked, c.Path)
}

// DSN builds a Data Source Name string based on the driver.
// SQLite connections always enable foreign key enforcement.
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case DriverPostgres, "postgresql":
		return c.URL
	case DriverSQLite, "":
		if strings.Contains(c.Path, "_foreign_keys") || strings.Contains(c.Path, "_fk=") {
			return c.Path
		}
		separator := "?"
		if strings.Contains(c.Path, "?") {
			separator = "&"
		}
		return c.Path + separator + "_foreign_keys=on"
	default:
		return ""
	}
}
