package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CrawlConfig represents the crawl section of the config file.
type CrawlConfig struct {
	StartID       *int  `yaml:"start_id"`
	EndID         *int  `yaml:"end_id"`
	RespectRobots *bool `yaml:"respect_robots"`
}

// OutputConfig represents the output section of the config file.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// StoreConfig represents the optional SQLite mirror.
type StoreConfig struct {
	Type string `yaml:"type"`
	DSN  string `yaml:"dsn"`
}

// LogConfig represents logging options.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// FileConfig represents the structure of ~/.prosefed/config.yaml.
type FileConfig struct {
	Crawl  CrawlConfig  `yaml:"crawl"`
	Output OutputConfig `yaml:"output"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
}

// DefaultConfigPath returns ~/.prosefed/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".prosefed", "config.yaml"), nil
}

// LoadConfigFile loads configuration from configPath, or from the default
// path when configPath is empty. Returns nil if the file doesn't exist (not
// an error). Returns error if the file exists but cannot be parsed.
func LoadConfigFile(configPath string) (*FileConfig, error) {
	if configPath == "" {
		var err error
		configPath, err = DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
