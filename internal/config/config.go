// Package config loads the pagegrid configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PublishTarget configures where published pages are deployed.
type PublishTarget struct {
	Driver   string `yaml:"driver"` // mysql, postgres, mongodb
	Host     string `yaml:"host"`
	Port     int    `yaml:"port,omitempty"`
	Database string `yaml:"database"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	SSLMode  string `yaml:"ssl_mode,omitempty"`
	Table    string `yaml:"table,omitempty"` // default published_pages
}

// Config is the full configuration.
type Config struct {
	// DataDir holds the SQLite database. Default ~/.local/share/pagegrid.
	DataDir string `yaml:"data_dir"`
	// ExportDir is where pages are exported as JSON and watched for
	// external edits. Default <data_dir>/export.
	ExportDir string `yaml:"export_dir"`
	// AutosnapshotSpec is a cron expression for periodic undo
	// snapshots of changed pages. Empty disables the scheduler.
	AutosnapshotSpec string `yaml:"autosnapshot_spec,omitempty"`
	// Publish is the deploy destination; optional.
	Publish *PublishTarget `yaml:"publish,omitempty"`
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "pagegrid", "config.yaml")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".local", "share", "pagegrid")
	return &Config{
		DataDir:   dataDir,
		ExportDir: filepath.Join(dataDir, "export"),
	}
}

// Load reads the config file at path, filling unset fields with
// defaults. A missing file yields the defaults without error.
// ExportDir is derived from the effective DataDir when the file does
// not set it, so a custom data_dir carries its export dir along.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = Default().DataDir
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = filepath.Join(cfg.DataDir, "export")
	}
	return cfg, nil
}

// DBPath returns the SQLite file location under the data dir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "pagegrid.db")
}
