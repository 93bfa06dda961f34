package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/fg/config.yml.
type GlobalConfig struct {
	PortalURL string  `yaml:"portal_url,omitempty" validate:"omitempty,url"`
	APIKey    string  `yaml:"api_key,omitempty" validate:"required_with=APISecret"`
	APISecret string  `yaml:"api_secret,omitempty" validate:"required_with=APIKey"`
	RateLimit float64 `yaml:"rate_limit,omitempty" validate:"gte=0,lte=100"`
	LoggedIn  bool    `yaml:"logged_in,omitempty"`
	Admin     bool    `yaml:"admin,omitempty"`
	Workspace string  `yaml:"workspace,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "fg"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	EnvAPIKey    = "FG_API_KEY"
	EnvAPISecret = "FG_API_SECRET"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/fg/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid global config %s: %w", path, err)
	}

	if cfg.Workspace != "" {
		cfg.Workspace = ExpandPath(cfg.Workspace)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// LoadEnv reads FG_* variables from .env files in the given directories.
// Variables already set in the environment win; missing files are skipped.
func LoadEnv(dirs ...string) {
	for _, dir := range dirs {
		path := filepath.Join(dir, EnvFile)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

// Credentials returns the portal key and secret. Environment variables
// take precedence over the global config.
func Credentials() (key, secret string) {
	key, secret = os.Getenv(EnvAPIKey), os.Getenv(EnvAPISecret)
	if key != "" {
		return key, secret
	}
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return "", ""
	}
	return cfg.APIKey, cfg.APISecret
}

// GetValue returns a global config value by its YAML key.
func (c *GlobalConfig) GetValue(key string) (string, bool) {
	switch key {
	case "portal_url":
		return c.PortalURL, true
	case "api_key":
		return c.APIKey, true
	case "api_secret":
		return c.APISecret, true
	case "rate_limit":
		return strconv.FormatFloat(c.RateLimit, 'f', -1, 64), true
	case "logged_in":
		return strconv.FormatBool(c.LoggedIn), true
	case "admin":
		return strconv.FormatBool(c.Admin), true
	case "workspace":
		return c.Workspace, true
	}
	return "", false
}

// HelpfulConfigMessage returns a helpful message when no workspace is found.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No file gallery workspace found.

Run 'fg init' in a directory to create one, or set a default in %s:
  mkdir -p %s
  echo 'workspace: /path/to/your/workspace' > %s`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
