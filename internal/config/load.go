package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file looked up when none is given.
const DefaultConfigFile = "provflow.yaml"

// FindConfigFile locates the default config file in the current directory.
func FindConfigFile() (string, error) {
	if _, err := os.Stat(DefaultConfigFile); err != nil {
		return "", fmt.Errorf("config file %s not found", DefaultConfigFile)
	}
	return DefaultConfigFile, nil
}

// LoadFile reads and parses the deployment configuration from a YAML file.
// Defaults are applied before validation, so a minimal config only needs a
// name and the application repository.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	if err := mapstructure.Decode(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Runner == "" {
		cfg.Runner = "local"
	}
	if cfg.SSH.Port == 0 {
		cfg.SSH.Port = 22
	}
	if len(cfg.Packages) == 0 {
		cfg.Packages = []string{"mysql-server", "openjdk-17-jdk-headless", "git", "maven"}
	}

	db := &cfg.Database
	if db.Host == "" {
		db.Host = "127.0.0.1"
	}
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.Name == "" {
		db.Name = DefaultDBName
	}
	if db.User == "" {
		db.User = DefaultDBUser
	}
	if db.Password == "" {
		db.Password = DefaultDBPassword
	}
	if db.AdminUser == "" {
		db.AdminUser = "root"
	}
	if db.BindAddress == "" {
		db.BindAddress = DefaultBindAddress
	}
	if db.ConfigFile == "" {
		db.ConfigFile = "/etc/mysql/mysql.conf.d/mysqld.cnf"
	}
	if db.Service == "" {
		db.Service = "mysql"
	}

	app := &cfg.App
	if app.Port == 0 {
		app.Port = DefaultAppPort
	}
	if app.SourceDir == "" && app.RepoURL != "" {
		app.SourceDir = "/opt/" + cfg.Name
	}
}
