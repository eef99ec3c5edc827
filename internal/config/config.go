package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// PostgresConfig carries connection defaults for the ingest command.
// Flags and PG* environment variables take precedence over these values.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	Table    string `yaml:"table,omitempty"`
}

// OutputConfig carries defaults for the export command.
type OutputConfig struct {
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// ProjectConfig is the cispumf.yaml file kept alongside the survey files.
type ProjectConfig struct {
	Pattern  string         `yaml:"pattern"`
	Output   OutputConfig   `yaml:"output"`
	Postgres PostgresConfig `yaml:"postgres"`
	Timeout  string         `yaml:"timeout"`
}

const ConfigFileName = "cispumf.yaml"

func Load(dataDir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dataDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
