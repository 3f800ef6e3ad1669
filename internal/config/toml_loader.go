package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the dedicated TOML configuration file name.
const ConfigFileName = ".clonesieve.toml"

// TomlConfig represents the structure of .clonesieve.toml. Every leaf is a
// pointer (or slice) so an absent key is distinguishable from a zero value
// and never clobbers a default.
type TomlConfig struct {
	Input       TomlInputConfig       `toml:"input"`
	Detection   TomlDetectionConfig   `toml:"detection"`
	T3          TomlT3Config          `toml:"t3"`
	Performance TomlPerformanceConfig `toml:"performance"`
	Pipeline    TomlPipelineConfig    `toml:"pipeline"`
	Output      TomlOutputConfig      `toml:"output"`
}

type TomlInputConfig struct {
	BaseDir         *string  `toml:"base_dir"`
	Languages       []string `toml:"languages"`
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
}

type TomlDetectionConfig struct {
	SimilarityThreshold *float64 `toml:"similarity_threshold"`
	MaxSizeRatio        *float64 `toml:"max_size_ratio"`
	GroupByProblem      *bool    `toml:"group_by_problem"`
}

type TomlT3Config struct {
	InsertCost *float64 `toml:"insert_cost"`
	DeleteCost *float64 `toml:"delete_cost"`
	RenameCost *float64 `toml:"rename_cost"`
}

type TomlPerformanceConfig struct {
	Workers      *int `toml:"workers"`
	BatchSize    *int `toml:"batch_size"`
	ASTCacheSize *int `toml:"ast_cache_size"`
}

type TomlPipelineConfig struct {
	Stages      []string `toml:"stages"`
	StopOnError *bool    `toml:"stop_on_error"`
	ForceRerun  *bool    `toml:"force_rerun"`
}

type TomlOutputConfig struct {
	Format       *string `toml:"format"`
	ShowProgress *bool   `toml:"show_progress"`
	Verbose      *bool   `toml:"verbose"`
}

// TomlConfigLoader handles TOML-only configuration loading
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads configuration starting from startDir:
// 1. .clonesieve.toml in startDir or any parent directory
// 2. defaults
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	configPath, err := l.findConfigFile(startDir)
	if err != nil {
		// No config file found anywhere, defaults apply
		return DefaultConfig(), nil
	}
	return l.LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from an explicit TOML file path.
func (l *TomlConfigLoader) LoadConfigFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var tomlCfg TomlConfig
	if err := toml.Unmarshal(data, &tomlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	cfg := DefaultConfig()
	l.mergeTomlConfig(cfg, &tomlCfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}
	return cfg, nil
}

// findConfigFile walks up the directory tree to find .clonesieve.toml
func (l *TomlConfigLoader) findConfigFile(startDir string) (string, error) {
	dir := startDir
	if dir == "" {
		dir = "."
	}
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}

// mergeTomlConfig merges file values into defaults. Nil pointers mean the
// key was absent and the default survives.
func (l *TomlConfigLoader) mergeTomlConfig(defaults *Config, tomlCfg *TomlConfig) {
	// Input
	if tomlCfg.Input.BaseDir != nil {
		defaults.Input.BaseDir = *tomlCfg.Input.BaseDir
	}
	if len(tomlCfg.Input.Languages) > 0 {
		defaults.Input.Languages = tomlCfg.Input.Languages
	}
	if len(tomlCfg.Input.IncludePatterns) > 0 {
		defaults.Input.IncludePatterns = tomlCfg.Input.IncludePatterns
	}
	if len(tomlCfg.Input.ExcludePatterns) > 0 {
		defaults.Input.ExcludePatterns = tomlCfg.Input.ExcludePatterns
	}

	// Detection
	if tomlCfg.Detection.SimilarityThreshold != nil {
		defaults.Detection.SimilarityThreshold = *tomlCfg.Detection.SimilarityThreshold
	}
	if tomlCfg.Detection.MaxSizeRatio != nil {
		defaults.Detection.MaxSizeRatio = *tomlCfg.Detection.MaxSizeRatio
	}
	if tomlCfg.Detection.GroupByProblem != nil {
		defaults.Detection.GroupByProblem = tomlCfg.Detection.GroupByProblem
	}

	// T3 costs
	if tomlCfg.T3.InsertCost != nil {
		defaults.T3.InsertCost = *tomlCfg.T3.InsertCost
	}
	if tomlCfg.T3.DeleteCost != nil {
		defaults.T3.DeleteCost = *tomlCfg.T3.DeleteCost
	}
	if tomlCfg.T3.RenameCost != nil {
		defaults.T3.RenameCost = *tomlCfg.T3.RenameCost
	}

	// Performance
	if tomlCfg.Performance.Workers != nil {
		defaults.Performance.Workers = *tomlCfg.Performance.Workers
	}
	if tomlCfg.Performance.BatchSize != nil {
		defaults.Performance.BatchSize = *tomlCfg.Performance.BatchSize
	}
	if tomlCfg.Performance.ASTCacheSize != nil {
		defaults.Performance.ASTCacheSize = *tomlCfg.Performance.ASTCacheSize
	}

	// Pipeline
	if len(tomlCfg.Pipeline.Stages) > 0 {
		defaults.Pipeline.Stages = tomlCfg.Pipeline.Stages
	}
	if tomlCfg.Pipeline.StopOnError != nil {
		defaults.Pipeline.StopOnError = tomlCfg.Pipeline.StopOnError
	}
	if tomlCfg.Pipeline.ForceRerun != nil {
		defaults.Pipeline.ForceRerun = tomlCfg.Pipeline.ForceRerun
	}

	// Output
	if tomlCfg.Output.Format != nil {
		defaults.Output.Format = *tomlCfg.Output.Format
	}
	if tomlCfg.Output.ShowProgress != nil {
		defaults.Output.ShowProgress = tomlCfg.Output.ShowProgress
	}
	if tomlCfg.Output.Verbose != nil {
		defaults.Output.Verbose = tomlCfg.Output.Verbose
	}
}

// GetSupportedConfigFiles returns the list of supported TOML config files
// in order of precedence
func (l *TomlConfigLoader) GetSupportedConfigFiles() []string {
	return []string{
		ConfigFileName,
	}
}
