package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/microdata-tools/cispumf/internal/config"
	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use one of these methods instead:
//  1. $PGPASSWORD environment variable
//  2. .pgpass file (PostgreSQL standard)
//  3. Connection string with embedded password
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided by the user.
// Note: Database flag is excluded from this check because it can be used to override
// the database specified in a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// EnvVars represents PostgreSQL standard environment variables.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string // PostgreSQL server host
	PGPORT       string // PostgreSQL server port
	PGUSER       string // PostgreSQL username
	PGPASSWORD   string // PostgreSQL password (discouraged, use .pgpass instead)
	PGDATABASE   string // Default database name
	PGSSLMODE    string // SSL mode
	DATABASE_URL string // Full connection string (Heroku/Rails convention)
}

// LoadFromEnvironment loads PostgreSQL environment variables.
// This follows standard PostgreSQL client behavior.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:       os.Getenv("PGHOST"),
		PGPORT:       os.Getenv("PGPORT"),
		PGUSER:       os.Getenv("PGUSER"),
		PGPASSWORD:   os.Getenv("PGPASSWORD"),
		PGDATABASE:   os.Getenv("PGDATABASE"),
		PGSSLMODE:    os.Getenv("PGSSLMODE"),
		DATABASE_URL: os.Getenv("DATABASE_URL"),
	}
}

// ResolveConnectionParams resolves connection parameters using PostgreSQL-standard precedence:
//
//  1. Connection string flag (--connection) - if provided, parse and use directly
//  2. Granular flags (-h, -p, -U, -d) - if any provided, build config from flags
//  3. Environment variables (PGHOST, PGPORT, etc.) - fallback if no flags
//  4. DATABASE_URL environment variable - fallback if no granular params
//  5. cispumf.yaml postgres section - fallback if no flags or environment
//  6. Defaults (localhost:5432, prefer SSL)
//
// Conflict Detection:
// Returns error if BOTH --connection flag AND granular flags are provided.
// This prevents ambiguity and ensures clear user intent. The --database/-d
// flag is exempt: it overrides the database embedded in a connection string.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*cispumf.ConnectionConfig, error) {
	// Validate inputs
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	// Check for conflicts: connection string XOR granular flags
	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U): %w\n"+
				"Choose one approach:\n"+
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/surveys\"\n"+
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d surveys\n"+
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser",
			cispumf.ErrInvalidConfig,
		)
	}

	var cfg *cispumf.ConnectionConfig
	var err error

	// Path 1: Connection string provided via --connection flag
	if connStringFlag != "" {
		cfg, err = resolveFromConnectionString(connStringFlag, envVars)
	} else if granularFlags.IsEmpty() && envVars.DATABASE_URL != "" {
		// Path 2: DATABASE_URL environment variable (if no granular flags)
		cfg, err = resolveFromConnectionString(envVars.DATABASE_URL, envVars)
	} else {
		// Path 3: Granular flags + environment variables + cispumf.yaml with precedence
		cfg, err = resolveFromGranularParams(granularFlags, envVars, projectConfig)
	}

	if err != nil {
		return nil, err
	}

	// The -d flag overrides whatever database the connection string carried.
	// For the granular path this is a no-op.
	if granularFlags.Database != "" {
		cfg.Database = granularFlags.Database
	}

	return cfg, nil
}

// resolveFromConnectionString parses a connection string into a full config.
//
// Environment variables are applied as fallbacks for parameters not specified
// in the connection string (following PostgreSQL standard behavior).
func resolveFromConnectionString(connStr string, envVars *EnvVars) (*cispumf.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	// Apply PGSSLMODE from environment if not specified in the connection
	// string. This follows libpq behavior where environment variables serve
	// as fallbacks for connection string parameters.
	if cfg.SSLMode == "" && envVars != nil && envVars.PGSSLMODE != "" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "prefer"
	}

	if cfg.Password == "" && envVars != nil && envVars.PGPASSWORD != "" {
		cfg.Password = envVars.PGPASSWORD
	}

	return cfg, nil
}

// resolveFromGranularParams builds a ConnectionConfig from granular flags,
// environment variables and the project config file.
//
// Precedence for each parameter (following PostgreSQL standards):
//  1. CLI flag (highest priority)
//  2. Environment variable
//  3. cispumf.yaml postgres section
//  4. Default value (lowest priority)
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*cispumf.ConnectionConfig, error) {
	cfg := &cispumf.ConnectionConfig{
		AdditionalParams: make(map[string]string),
	}

	var pc config.PostgresConfig
	if projectConfig != nil {
		pc = projectConfig.Postgres
	}

	// Host: flag > PGHOST > cispumf.yaml > default
	cfg.Host = flags.Host
	if cfg.Host == "" {
		cfg.Host = envVars.PGHOST
	}
	if cfg.Host == "" {
		cfg.Host = pc.Host
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}

	// Port: flag > PGPORT > cispumf.yaml > default
	if flags.Port != 0 {
		cfg.Port = flags.Port
	} else if envVars.PGPORT != "" {
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s', must be an integer: %w", envVars.PGPORT, cispumf.ErrInvalidConfig)
		}
		cfg.Port = port
	} else if pc.Port != 0 {
		cfg.Port = pc.Port
	} else {
		cfg.Port = 5432
	}

	// Username: flag > PGUSER > cispumf.yaml > current OS user
	cfg.Username = flags.Username
	if cfg.Username == "" {
		cfg.Username = envVars.PGUSER
	}
	if cfg.Username == "" {
		cfg.Username = pc.Username
	}
	if cfg.Username == "" {
		if currentUser := os.Getenv("USER"); currentUser != "" {
			cfg.Username = currentUser
		} else if currentUser := os.Getenv("USERNAME"); currentUser != "" {
			cfg.Username = currentUser
		}
	}

	cfg.Password = envVars.PGPASSWORD

	// Database: flag > PGDATABASE > cispumf.yaml > default
	cfg.Database = flags.Database
	if cfg.Database == "" {
		cfg.Database = envVars.PGDATABASE
	}
	if cfg.Database == "" {
		cfg.Database = pc.Database
	}
	if cfg.Database == "" {
		cfg.Database = "postgres"
	}

	// SSLMode: flag > PGSSLMODE > cispumf.yaml > default
	cfg.SSLMode = flags.SSLMode
	if cfg.SSLMode == "" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = pc.SSLMode
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "prefer"
	}

	return cfg, nil
}
