package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPluginName               = "delete-project"
	DefaultArchiveFolderName        = "archived-repos"
	DefaultDeleteArchivedReposAfter = 180 * 24 * time.Hour
)

// DefaultProtectedProjects can never be deleted
var DefaultProtectedProjects = []string{"All-Projects", "All-Users"}

// Duration is a time.Duration read from strings like "72h" or "30m"
type Duration time.Duration

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// New returns a config with defaults for a base path
func New(basePath string) *Config {
	return &Config{
		PluginName:                   DefaultPluginName,
		BasePath:                     basePath,
		AllowDeletionOfReposWithTags: true,
		DeleteArchivedReposAfter:     Duration(DefaultDeleteArchivedReposAfter),
		ProtectedProjects:            slices.Clone(DefaultProtectedProjects),
	}
}

// Load reads and validates a config file
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads a config file on top of the defaults without validating it,
// so callers can still override settings
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := New("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes a config to a YAML file
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Validate fills derived defaults and rejects unusable settings
func (c *Config) Validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("basePath is required")
	}
	if c.PluginName == "" {
		c.PluginName = DefaultPluginName
	}
	if c.ArchiveDeletedRepos && c.ArchiveFolder == "" {
		c.ArchiveFolder = filepath.Join(filepath.Dir(filepath.Clean(c.BasePath)), DefaultArchiveFolderName)
	}
	if c.DeleteArchivedReposAfter < 0 {
		return fmt.Errorf("deleteArchivedReposAfter must not be negative")
	}
	return nil
}

// IsProtected reports whether a project may never be deleted
func (c *Config) IsProtected(name string) bool {
	return slices.Contains(c.ProtectedProjects, name)
}

// IsAdmin reports whether user may delete projects
func (c *Config) IsAdmin(user string) bool {
	if len(c.Admins) == 0 {
		return true
	}
	return slices.Contains(c.Admins, user)
}
