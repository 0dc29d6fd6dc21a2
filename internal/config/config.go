package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "expensebot/core/config"
	coredatabase "expensebot/core/database"
)

// AdminConfig carries the credential pair that elevates a sign-in to the
// admin identity. Leaving the email empty disables the admin entirely.
type AdminConfig struct {
	Email    string `yaml:"email" envconfig:"ADMIN_EMAIL"`
	Password string `yaml:"password" envconfig:"ADMIN_PASSWORD"`
}

// Config is the full application configuration: the shared core settings
// plus the database and admin sections specific to this bot.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Admin    AdminConfig         `yaml:"admin"`
}

// CoreConfig exposes the embedded core configuration for the runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Load reads the YAML file, overlays environment variables and validates
// the result.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Admin.Email != "" && cfg.Admin.Password == "" {
		return nil, fmt.Errorf("config: admin.password is required when admin.email is set")
	}
	return &cfg, nil
}
