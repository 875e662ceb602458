package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Vault     VaultConfig       `yaml:"vault"`
	Catalog   CatalogConfig     `yaml:"catalog"`
	Tracker   TrackerConfig     `yaml:"tracker"`
	Settings  SettingsConfig    `yaml:"settings"`
	Templates TemplatesConfig   `yaml:"templates"`
	Commands  CommandsConfig    `yaml:"commands"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	return c.Tracker.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	Watch    bool       `yaml:"watch"`
}

// VaultConfig holds the path to the knowledge vault directory.
type VaultConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// CatalogConfig holds the path of the persisted catalog snapshot.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// TrackerConfig holds the directory of the durable session log.
type TrackerConfig struct {
	Dir string `yaml:"dir"`
}

// Validate validates the tracker configuration.
func (c *TrackerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// SettingsConfig holds the path of the optional external settings file.
type SettingsConfig struct {
	Path string `yaml:"path"`
}

// TemplatesConfig holds the directory of orientation templates.
type TemplatesConfig struct {
	Dir string `yaml:"dir"`
}

// CommandsConfig holds the directory of host command templates.
type CommandsConfig struct {
	Dir string `yaml:"dir"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			Watch:    true,
		},
		Vault:     VaultConfig{Path: "./vault"},
		Catalog:   CatalogConfig{Path: "./knowledge.json"},
		Tracker:   TrackerConfig{Dir: "./tracker"},
		Settings:  SettingsConfig{Path: "./settings.json"},
		Templates: TemplatesConfig{Dir: "./templates"},
		Commands:  CommandsConfig{Dir: "./commands"},
	}
}
