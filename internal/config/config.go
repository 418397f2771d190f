package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Classifier ClassifierConfig `yaml:"classifier"`
	History    HistoryConfig    `yaml:"history"`
	Server     ServerConfig     `yaml:"server"`
}

type ClassifierConfig struct {
	// CatalogFile replaces the built-in categories and greetings when set.
	CatalogFile   string `yaml:"catalog_file,omitempty"`
	GreetingScope string `yaml:"greeting_scope"`
	CacheSize     int    `yaml:"cache_size"`
}

type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "warn",
		Classifier: ClassifierConfig{
			GreetingScope: "all",
			CacheSize:     128,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Server: ServerConfig{
			Addr: "localhost:8080",
		},
	}
}

// ConfigDirFunc overrides the default config directory resolution.
// When nil, the default (~/.config/intent) is used.
// Tests set this to redirect config I/O to a temp directory.
var ConfigDirFunc func() (string, error)

func ConfigDir() (string, error) {
	if ConfigDirFunc != nil {
		return ConfigDirFunc()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "intent"), nil
}

func configPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := configPath()
	if err != nil {
		applyEnv(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// Env vars take precedence over the config file.
func applyEnv(cfg *Config) {
	if path := os.Getenv("INTENT_CATALOG"); path != "" {
		cfg.Classifier.CatalogFile = path
	}
	if level := os.Getenv("INTENT_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
}

func Save(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func Show() (string, error) {
	path, err := configPath()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("No config file found. Create one at: %s", path), nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}

	return fmt.Sprintf("Config file: %s\n\n%s", path, string(data)), nil
}
