package config

import (
	"fmt"
	"strings"
)

// Default values preserved from the deployment these scripts originate from.
const (
	DefaultDBPort      = 3306
	DefaultDBName      = "library"
	DefaultDBUser      = "library_user"
	DefaultDBPassword  = "library_pass"
	DefaultBindAddress = "0.0.0.0"
	DefaultAppPort     = 5000
)

// Config is the target descriptor for one deployment run. It is built once
// from the config file plus flag overrides and never mutated afterwards.
type Config struct {
	// Name identifies the deployment.
	Name string `mapstructure:"name" yaml:"name"`

	// Runner selects where steps execute: "local" or "ssh".
	Runner string `mapstructure:"runner" yaml:"runner"`

	// SSH configures the remote target when Runner is "ssh".
	SSH SSHConfig `mapstructure:"ssh" yaml:"ssh"`

	// Packages lists OS packages installed by the install-packages step.
	Packages []string `mapstructure:"packages" yaml:"packages"`

	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	App      AppConfig      `mapstructure:"app" yaml:"app"`

	// Guard enables existence guards on non-idempotent steps.
	// Defaults to true when unset.
	Guard *bool `mapstructure:"guard" yaml:"guard"`

	// PrerequisitesCheckEnabled controls the client tool check before a run.
	// Defaults to true when unset.
	PrerequisitesCheckEnabled *bool `mapstructure:"prerequisites_check_enabled" yaml:"prerequisites_check_enabled"`
}

// SSHConfig holds remote target connection parameters.
type SSHConfig struct {
	Host    string `mapstructure:"host" yaml:"host"`
	Port    int    `mapstructure:"port" yaml:"port"`
	User    string `mapstructure:"user" yaml:"user"`
	KeyFile string `mapstructure:"key_file" yaml:"key_file"`
}

// DatabaseConfig holds the database tier parameters.
type DatabaseConfig struct {
	Host          string `mapstructure:"host" yaml:"host"`
	Port          int    `mapstructure:"port" yaml:"port"`
	Name          string `mapstructure:"name" yaml:"name"`
	User          string `mapstructure:"user" yaml:"user"`
	Password      string `mapstructure:"password" yaml:"password"`
	AdminUser     string `mapstructure:"admin_user" yaml:"admin_user"`
	AdminPassword string `mapstructure:"admin_password" yaml:"admin_password"`
	BindAddress   string `mapstructure:"bind_address" yaml:"bind_address"`
	ConfigFile    string `mapstructure:"config_file" yaml:"config_file"`
	Service       string `mapstructure:"service" yaml:"service"`
	SeedFile      string `mapstructure:"seed_file" yaml:"seed_file"`
}

// AppConfig holds the application tier parameters.
type AppConfig struct {
	Port      int    `mapstructure:"port" yaml:"port"`
	RepoURL   string `mapstructure:"repo_url" yaml:"repo_url"`
	SourceDir string `mapstructure:"source_dir" yaml:"source_dir"`
	Artifact  string `mapstructure:"artifact" yaml:"artifact"`
	JavaOpts  string `mapstructure:"java_opts" yaml:"java_opts"`
}

// Guarded reports whether non-idempotent steps run with existence guards.
func (c *Config) Guarded() bool {
	return c.Guard == nil || *c.Guard
}

// CheckPrerequisites reports whether client tools are verified before a run.
func (c *Config) CheckPrerequisites() bool {
	return c.PrerequisitesCheckEnabled == nil || *c.PrerequisitesCheckEnabled
}

// ArtifactPath returns the absolute path of the built application jar.
func (c *Config) ArtifactPath() string {
	if strings.HasPrefix(c.App.Artifact, "/") {
		return c.App.Artifact
	}
	return strings.TrimSuffix(c.App.SourceDir, "/") + "/" + c.App.Artifact
}

// DatasourceURL returns the JDBC URL handed to the application.
// Schema handling stays in validation mode; the application never migrates.
func (c *Config) DatasourceURL() string {
	return fmt.Sprintf("jdbc:mysql://%s:%d/%s", c.Database.Host, c.Database.Port, c.Database.Name)
}

// Validate checks the configuration for fatal problems.
func (c *Config) Validate() error {
	var problems []string

	if c.Name == "" {
		problems = append(problems, "name is required")
	}

	switch c.Runner {
	case "local":
	case "ssh":
		if c.SSH.Host == "" {
			problems = append(problems, "ssh.host is required when runner is ssh")
		}
		if c.SSH.User == "" {
			problems = append(problems, "ssh.user is required when runner is ssh")
		}
		if c.SSH.KeyFile == "" {
			problems = append(problems, "ssh.key_file is required when runner is ssh")
		}
	default:
		problems = append(problems, fmt.Sprintf("runner must be local or ssh, got %q", c.Runner))
	}

	if c.Database.Host == "" {
		problems = append(problems, "database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		problems = append(problems, fmt.Sprintf("database.port %d out of range", c.Database.Port))
	}
	if c.App.Port < 1 || c.App.Port > 65535 {
		problems = append(problems, fmt.Sprintf("app.port %d out of range", c.App.Port))
	}
	if c.App.Port == c.Database.Port && c.App.Port != 0 {
		problems = append(problems, "app.port must differ from database.port")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
