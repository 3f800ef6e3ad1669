package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from a YAML file or returns the default
// config. TOML via .clonesieve.toml is the primary mechanism; the YAML
// path exists for callers that keep a shared clonesieve.yaml.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	// If no config path specified, try to find default config files
	if configPath == "" {
		configPath = findDefaultConfig()
	}

	// If still no config found, return default
	if configPath == "" {
		return config, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// findDefaultConfig looks for default configuration files in common locations
func findDefaultConfig() string {
	candidates := []string{
		"clonesieve.yaml",
		"clonesieve.yml",
		".clonesieve.yaml",
		".clonesieve.yml",
	}

	// Check current directory first
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	// Check home directory
	if home, err := os.UserHomeDir(); err == nil {
		for _, candidate := range candidates {
			path := filepath.Join(home, candidate)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return ""
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("input", config.Input)
	v.Set("detection", config.Detection)
	v.Set("t3", config.T3)
	v.Set("performance", config.Performance)
	v.Set("pipeline", config.Pipeline)
	v.Set("output", config.Output)

	return v.WriteConfig()
}
