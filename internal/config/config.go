// Package config handles workspace and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator"
)

// Config represents workspace configuration stored in .fg/config.json.
type Config struct {
	DefaultAssembly string `json:"default_assembly,omitempty"`
	Browser         string `json:"browser,omitempty"`
	Colorize        bool   `json:"colorize,omitempty"`
	Inclusion       bool   `json:"inclusion,omitempty"` // Show archived, revoked, deleted and replaced files
	MaxFiles        int    `json:"max_files,omitempty" validate:"gte=0"`
}

const (
	WorkspaceDir = ".fg"
	ConfigFile   = "config.json"
	DatasetsDir  = "datasets"
	CacheDir     = "cache"
	DBFile       = "fg.db"
	EnvFile      = ".env"
)

// WorkspacePath returns the path to the .fg directory from a root path.
func WorkspacePath(root string) string {
	return filepath.Join(root, WorkspaceDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, WorkspaceDir, ConfigFile)
}

// DatasetsPath returns the directory holding dataset snapshots.
func DatasetsPath(root string) string {
	return filepath.Join(root, WorkspaceDir, DatasetsDir)
}

// SnapshotPath returns the snapshot file of one dataset accession.
func SnapshotPath(root, accession string) string {
	return filepath.Join(DatasetsPath(root), accession+".jsonl")
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, WorkspaceDir, CacheDir)
}

// DBPath returns the path to fg.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, WorkspaceDir, CacheDir, DBFile)
}

// IsWorkspace checks if the given path contains a file gallery workspace.
func IsWorkspace(root string) bool {
	info, err := os.Stat(WorkspacePath(root))
	return err == nil && info.IsDir()
}

// FindWorkspace walks up from the given path to find a workspace.
// Returns the workspace root path or an error if not found.
func FindWorkspace(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsWorkspace(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a file gallery workspace (no %s directory found)", WorkspaceDir)
		}
		abs = parent
	}
}

// Init creates the workspace layout under root with a default config.
// An existing workspace is an error.
func Init(root string) error {
	if IsWorkspace(root) {
		return fmt.Errorf("workspace already exists at %s", WorkspacePath(root))
	}
	for _, dir := range []string{DatasetsPath(root), CachePath(root)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return (&Config{}).Save(root)
}

// Load reads configuration from the workspace at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes configuration to the workspace at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks the struct constraints of the workspace config.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Set assigns a workspace config value by its JSON key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "default_assembly":
		c.DefaultAssembly = value
	case "browser":
		c.Browser = value
	case "colorize", "inclusion":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "colorize" {
			c.Colorize = b
		} else {
			c.Inclusion = b
		}
	case "max_files":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
			return fmt.Errorf("max_files: not a number: %s", value)
		}
		c.MaxFiles = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return c.Validate()
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %s", s)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
