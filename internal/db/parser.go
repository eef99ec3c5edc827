package db

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

// ParseConnectionString parses a PostgreSQL URI and returns a ConnectionConfig.
//
// Format: postgresql://[user[:password]@][host][:port][/dbname][?param1=value1&...]
// The postgres:// scheme alias is accepted as well.
func ParseConnectionString(connStr string) (*cispumf.ConnectionConfig, error) {
	if connStr == "" {
		return nil, fmt.Errorf("connection string is empty: %w", cispumf.ErrInvalidConfig)
	}

	if !strings.HasPrefix(connStr, "postgresql://") && !strings.HasPrefix(connStr, "postgres://") {
		return nil, fmt.Errorf("unrecognized connection string format, expected a postgresql:// URI: %w", cispumf.ErrInvalidConfig)
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid PostgreSQL URI: %w", cispumf.ErrInvalidConfig, err)
	}

	config := &cispumf.ConnectionConfig{
		Host:             "localhost",
		Port:             5432,
		Database:         "postgres",
		AdditionalParams: make(map[string]string),
	}

	// Parse host and port
	if u.Hostname() != "" {
		config.Host = u.Hostname()
	}
	if u.Port() != "" {
		port, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("%w: invalid port: %w", cispumf.ErrInvalidConfig, err)
		}
		config.Port = port
	}

	// Parse username and password
	if u.User != nil {
		config.Username = u.User.Username()
		if pass, ok := u.User.Password(); ok {
			config.Password = pass
		}
	}

	// Parse database name
	if len(u.Path) > 1 {
		config.Database = strings.TrimPrefix(u.Path, "/")
	}

	// Parse query parameters. SSLMode stays empty when the URI does not carry
	// one; the resolver applies the PGSSLMODE fallback and the "prefer" default.
	query := u.Query()
	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		value := values[0]

		switch strings.ToLower(key) {
		case "sslmode":
			config.SSLMode = value
		case "application_name", "applicationname":
			config.AppName = value
		case "connect_timeout", "connecttimeout":
			timeout, err := strconv.Atoi(value)
			if err == nil {
				config.ConnectTimeout = time.Duration(timeout) * time.Second
			}
		default:
			config.AdditionalParams[key] = value
		}
	}

	return config, nil
}

// BuildConnectionString converts a ConnectionConfig back to a PostgreSQL URI.
// This is useful for creating connection strings for pgx.
func BuildConnectionString(config *cispumf.ConnectionConfig) string {
	u := &url.URL{
		Scheme: "postgresql",
		Host:   fmt.Sprintf("%s:%d", config.Host, config.Port),
		Path:   "/" + config.Database,
	}

	if config.Username != "" {
		if config.Password != "" {
			u.User = url.UserPassword(config.Username, config.Password)
		} else {
			u.User = url.User(config.Username)
		}
	}

	query := url.Values{}
	if config.SSLMode != "" {
		query.Set("sslmode", config.SSLMode)
	}
	if config.AppName != "" {
		query.Set("application_name", config.AppName)
	}
	if config.ConnectTimeout > 0 {
		query.Set("connect_timeout", strconv.Itoa(int(config.ConnectTimeout.Seconds())))
	}

	for key, value := range config.AdditionalParams {
		query.Set(key, value)
	}

	u.RawQuery = query.Encode()
	return u.String()
}
