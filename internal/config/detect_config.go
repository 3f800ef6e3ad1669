package config

import (
	"fmt"

	"github.com/clonesieve/clonesieve/domain"
	"github.com/clonesieve/clonesieve/internal/constants"
	"github.com/clonesieve/clonesieve/internal/lang"
)

// Config represents the universal clonesieve configuration from TOML files.
// This holds all configuration sections that can be loaded from .clonesieve.toml
// or clonesieve.yaml.
type Config struct {
	// Input Configuration
	Input InputConfig `mapstructure:"input" yaml:"input" json:"input"`

	// Detection Configuration (candidate filtering and thresholds)
	Detection DetectionConfig `mapstructure:"detection" yaml:"detection" json:"detection"`

	// T3 Configuration (tree edit distance costs)
	T3 T3Config `mapstructure:"t3" yaml:"t3" json:"t3"`

	// Performance Configuration
	Performance PerformanceConfig `mapstructure:"performance" yaml:"performance" json:"performance"`

	// Pipeline Configuration
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`

	// Output Configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
}

// InputConfig holds corpus location and file selection
type InputConfig struct {
	// Artifact base directory holding normalized/, tokens/, ast/
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir" json:"base_dir"`

	// Languages restricts discovery to the named languages; empty = all supported
	Languages []string `mapstructure:"languages" yaml:"languages" json:"languages"`

	// File selection relative to the normalized tree
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns" json:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" json:"exclude_patterns"`
}

// DetectionConfig holds candidate filtering and classification thresholds
type DetectionConfig struct {
	// Minimum similarity for a pair to be labeled Type-3
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" yaml:"similarity_threshold" json:"similarity_threshold"`

	// Skip pairs whose AST node counts differ by more than this factor; 0 disables
	MaxSizeRatio float64 `mapstructure:"max_size_ratio" yaml:"max_size_ratio" json:"max_size_ratio"`

	// Compare only submissions of the same problem
	GroupByProblem *bool `mapstructure:"group_by_problem" yaml:"group_by_problem" json:"group_by_problem"`
}

// T3Config holds tree edit distance cost configuration
type T3Config struct {
	InsertCost float64 `mapstructure:"insert_cost" yaml:"insert_cost" json:"insert_cost"`
	DeleteCost float64 `mapstructure:"delete_cost" yaml:"delete_cost" json:"delete_cost"`
	RenameCost float64 `mapstructure:"rename_cost" yaml:"rename_cost" json:"rename_cost"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	// Parallelization; 0 workers selects the CPU count
	Workers   int `mapstructure:"workers" yaml:"workers" json:"workers"`
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size" json:"batch_size"`

	// Per-worker AST cache capacity in entries
	ASTCacheSize int `mapstructure:"ast_cache_size" yaml:"ast_cache_size" json:"ast_cache_size"`
}

// PipelineConfig holds orchestrator settings
type PipelineConfig struct {
	// Stage subset to run; empty = all stages
	Stages []string `mapstructure:"stages" yaml:"stages" json:"stages"`

	StopOnError *bool `mapstructure:"stop_on_error" yaml:"stop_on_error" json:"stop_on_error"`
	ForceRerun  *bool `mapstructure:"force_rerun" yaml:"force_rerun" json:"force_rerun"`
}

// OutputConfig holds output formatting configuration
type OutputConfig struct {
	// Format and display
	Format       string `mapstructure:"format" yaml:"format" json:"format"`
	ShowProgress *bool  `mapstructure:"show_progress" yaml:"show_progress" json:"show_progress"`
	Verbose      *bool  `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
}

// BoolPtr returns a pointer to the given bool value
// This helper function is used to create *bool values in struct literals
func BoolPtr(b bool) *bool {
	return &b
}

// BoolValue safely dereferences a boolean pointer, returning defaultVal if nil
// This allows safe access to pointer booleans with explicit defaults
func BoolValue(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// DefaultConfig returns a configuration with sensible defaults.
// All numeric defaults are sourced from internal/constants.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			BaseDir:         ".",
			Languages:       []string{},
			IncludePatterns: []string{},
			ExcludePatterns: []string{},
		},
		Detection: DetectionConfig{
			SimilarityThreshold: constants.DefaultT3SimilarityThreshold,
			MaxSizeRatio:        constants.DefaultMaxSizeRatio,
			GroupByProblem:      BoolPtr(true),
		},
		T3: T3Config{
			InsertCost: constants.DefaultInsertCost,
			DeleteCost: constants.DefaultDeleteCost,
			RenameCost: constants.DefaultRenameCost,
		},
		Performance: PerformanceConfig{
			Workers:      0,
			BatchSize:    constants.DefaultBatchSize,
			ASTCacheSize: constants.DefaultASTCacheSize,
		},
		Pipeline: PipelineConfig{
			Stages:      []string{},
			StopOnError: BoolPtr(true),
			ForceRerun:  BoolPtr(false),
		},
		Output: OutputConfig{
			Format:       "text",
			ShowProgress: BoolPtr(true),
			Verbose:      BoolPtr(false),
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Input.Validate(); err != nil {
		return fmt.Errorf("input config invalid: %w", err)
	}
	if err := c.Detection.Validate(); err != nil {
		return fmt.Errorf("detection config invalid: %w", err)
	}
	if err := c.T3.Validate(); err != nil {
		return fmt.Errorf("t3 config invalid: %w", err)
	}
	if err := c.Performance.Validate(); err != nil {
		return fmt.Errorf("performance config invalid: %w", err)
	}
	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline config invalid: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output config invalid: %w", err)
	}
	return nil
}

// Validate validates the input configuration
func (i *InputConfig) Validate() error {
	if i.BaseDir == "" {
		return fmt.Errorf("base_dir cannot be empty")
	}
	for _, name := range i.Languages {
		if _, err := lang.FromName(name); err != nil {
			return fmt.Errorf("languages contains %q, must be one of %v", name, lang.Names())
		}
	}
	return nil
}

// Validate validates the detection configuration
func (d *DetectionConfig) Validate() error {
	if d.SimilarityThreshold < 0.0 || d.SimilarityThreshold > 1.0 {
		return fmt.Errorf("similarity_threshold must be between 0.0 and 1.0, got %f", d.SimilarityThreshold)
	}
	if d.MaxSizeRatio < 0.0 {
		return fmt.Errorf("max_size_ratio must be >= 0.0, got %f", d.MaxSizeRatio)
	}
	return nil
}

// Validate validates the cost configuration
func (t *T3Config) Validate() error {
	if t.InsertCost < 0.0 {
		return fmt.Errorf("insert_cost must be >= 0.0, got %f", t.InsertCost)
	}
	if t.DeleteCost < 0.0 {
		return fmt.Errorf("delete_cost must be >= 0.0, got %f", t.DeleteCost)
	}
	if t.RenameCost < 0.0 {
		return fmt.Errorf("rename_cost must be >= 0.0, got %f", t.RenameCost)
	}
	return nil
}

// Validate validates the performance configuration
func (p *PerformanceConfig) Validate() error {
	if p.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", p.Workers)
	}
	if p.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0, got %d", p.BatchSize)
	}
	if p.ASTCacheSize <= 0 {
		return fmt.Errorf("ast_cache_size must be > 0, got %d", p.ASTCacheSize)
	}
	return nil
}

// Validate validates the pipeline configuration
func (p *PipelineConfig) Validate() error {
	for _, stage := range p.Stages {
		if !domain.IsPipelineStageName(stage) {
			return fmt.Errorf("invalid stage %q, must be one of %v", stage, domain.PipelineStageNames())
		}
	}
	return nil
}

// Validate validates the output configuration
func (o *OutputConfig) Validate() error {
	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"csv":  true,
	}
	if !validFormats[o.Format] {
		return fmt.Errorf("invalid format %q, must be one of: text, json, yaml, csv", o.Format)
	}
	return nil
}
