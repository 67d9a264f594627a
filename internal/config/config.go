package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/stockledger/stockledger/internal/model"
)

// FileName is the config file created by `stockledger init`.
const FileName = "stockledger.yaml"

// Config represents the top-level stockledger.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	DataDir  string         `yaml:"data_dir"` // relative to the config file
	Log      LogConfig      `yaml:"log"`
	Users    []model.User   `yaml:"users" validate:"dive"`
	Git      GitConfig      `yaml:"git"`
}

// BusinessConfig identifies the business and its display currency.
type BusinessConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"` // ISO 4217 code
}

// LogConfig controls the logrus logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // logrus level name
	Format string `yaml:"format"` // "text" or "json"
}

// GitConfig controls git snapshots of the data directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a stockledger.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks the user list: every user needs an id, a username and a
// known role, location users need a valid location, and usernames are unique.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	seen := make(map[string]bool, len(c.Users))
	for _, u := range c.Users {
		if seen[u.Username] {
			return fmt.Errorf("invalid config: duplicate username %q", u.Username)
		}
		seen[u.Username] = true
		if u.Role == model.RoleLocation && !u.Location.Valid() {
			return fmt.Errorf("invalid config: user %s has unknown location %q", u.Username, u.Location)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Business.Currency == "" {
		c.Business.Currency = "PKR"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Default returns a Config with sensible defaults for a new project,
// including the built-in admin and one user per location.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:     businessName,
			Currency: "PKR",
		},
		DataDir: "data",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Users: DefaultUsers(),
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "stockledger",
			AuthorEmail: "stockledger@localhost",
		},
	}
}

// DefaultUsers returns the admin account and one user pinned to each location.
func DefaultUsers() []model.User {
	return []model.User{
		{ID: "user-admin", Username: "admin", Password: "password", Role: model.RoleAdmin},
		{ID: "user-cap", Username: "capital", Password: "password", Role: model.RoleLocation, Location: model.LocationCapital},
		{ID: "user-wt", Username: "worldtyre", Password: "password", Role: model.RoleLocation, Location: model.LocationWorldTyre},
		{ID: "user-uni", Username: "universal", Password: "password", Role: model.RoleLocation, Location: model.LocationUniversal},
		{ID: "user-s1", Username: "store1", Password: "password", Role: model.RoleLocation, Location: model.LocationStore1},
		{ID: "user-s2", Username: "store2", Password: "password", Role: model.RoleLocation, Location: model.LocationStore2},
	}
}
