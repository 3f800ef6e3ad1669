package service

import (
	"fmt"
	"os"

	"github.com/clonesieve/clonesieve/domain"
	"github.com/clonesieve/clonesieve/internal/config"
)

// DetectConfigLoader implements the domain.DetectConfigurationLoader interface
type DetectConfigLoader struct{}

// NewDetectConfigLoader creates a new detection configuration loader
func NewDetectConfigLoader() *DetectConfigLoader {
	return &DetectConfigLoader{}
}

// LoadT1T2Config loads hash detection configuration using the TOML-only
// strategy. An empty configPath searches upward from the current directory.
func (c *DetectConfigLoader) LoadT1T2Config(configPath string) (*domain.T1T2Request, error) {
	cfg, err := c.loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return c.configToT1T2Request(cfg), nil
}

// LoadT3Config loads structural detection configuration from file
func (c *DetectConfigLoader) LoadT3Config(configPath string) (*domain.T3Request, error) {
	cfg, err := c.loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return c.configToT3Request(cfg), nil
}

// LoadPipelineConfig loads orchestrator configuration from file
func (c *DetectConfigLoader) LoadPipelineConfig(configPath string) (*domain.PipelineRequest, error) {
	cfg, err := c.loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return c.configToPipelineRequest(cfg), nil
}

func (c *DetectConfigLoader) loadConfig(configPath string) (*config.Config, error) {
	tomlLoader := config.NewTomlConfigLoader()
	if configPath == "" {
		cfg, err := tomlLoader.LoadConfig(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		return cfg, nil
	}
	cfg, err := tomlLoader.LoadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// configToT1T2Request converts a TOML-based config to a hash detection request
func (c *DetectConfigLoader) configToT1T2Request(cfg *config.Config) *domain.T1T2Request {
	req := domain.DefaultT1T2Request()
	req.BaseDir = cfg.Input.BaseDir
	req.Languages = cfg.Input.Languages
	req.IncludePatterns = cfg.Input.IncludePatterns
	req.ExcludePatterns = cfg.Input.ExcludePatterns
	req.OutputFormat = domain.OutputFormat(cfg.Output.Format)
	req.ShowProgress = config.BoolValue(cfg.Output.ShowProgress, true)
	req.Verbose = config.BoolValue(cfg.Output.Verbose, false)
	return req
}

// configToT3Request converts a TOML-based config to a structural detection request
func (c *DetectConfigLoader) configToT3Request(cfg *config.Config) *domain.T3Request {
	req := domain.DefaultT3Request()
	req.BaseDir = cfg.Input.BaseDir
	req.SimilarityThreshold = cfg.Detection.SimilarityThreshold
	req.MaxSizeRatio = cfg.Detection.MaxSizeRatio
	req.GroupByProblem = config.BoolValue(cfg.Detection.GroupByProblem, true)
	req.InsertCost = cfg.T3.InsertCost
	req.DeleteCost = cfg.T3.DeleteCost
	req.RenameCost = cfg.T3.RenameCost
	req.Workers = cfg.Performance.Workers
	req.BatchSize = cfg.Performance.BatchSize
	req.ASTCacheSize = cfg.Performance.ASTCacheSize
	req.OutputFormat = domain.OutputFormat(cfg.Output.Format)
	req.ShowProgress = config.BoolValue(cfg.Output.ShowProgress, true)
	req.Verbose = config.BoolValue(cfg.Output.Verbose, false)
	return req
}

// configToPipelineRequest converts a TOML-based config to a pipeline request
func (c *DetectConfigLoader) configToPipelineRequest(cfg *config.Config) *domain.PipelineRequest {
	req := domain.DefaultPipelineRequest()
	req.BaseDir = cfg.Input.BaseDir
	req.Stages = cfg.Pipeline.Stages
	req.StopOnError = config.BoolValue(cfg.Pipeline.StopOnError, true)
	req.ForceRerun = config.BoolValue(cfg.Pipeline.ForceRerun, false)
	req.OutputFormat = domain.OutputFormat(cfg.Output.Format)
	req.ShowProgress = config.BoolValue(cfg.Output.ShowProgress, true)
	req.Verbose = config.BoolValue(cfg.Output.Verbose, false)
	return req
}

// FindDefaultConfigFile looks for a TOML config file in the current directory
func (c *DetectConfigLoader) FindDefaultConfigFile() string {
	tomlLoader := config.NewTomlConfigLoader()
	for _, filename := range tomlLoader.GetSupportedConfigFiles() {
		if _, err := os.Stat(filename); err == nil {
			return filename
		}
	}
	return ""
}
