package service

import (
	"github.com/clonesieve/clonesieve/domain"
	"github.com/clonesieve/clonesieve/internal/config"
)

// DetectConfigLoaderWithFlags wraps configuration loading with explicit
// flag tracking so CLI defaults never clobber config-file values.
type DetectConfigLoaderWithFlags struct {
	loader      *DetectConfigLoader
	flagTracker *config.FlagTracker
}

// NewDetectConfigLoaderWithFlags creates a loader that tracks explicit flags
func NewDetectConfigLoaderWithFlags(explicitFlags map[string]bool) *DetectConfigLoaderWithFlags {
	return &DetectConfigLoaderWithFlags{
		loader:      NewDetectConfigLoader(),
		flagTracker: config.NewFlagTrackerWithFlags(explicitFlags),
	}
}

// LoadT1T2Config loads hash detection configuration from the specified path
func (cl *DetectConfigLoaderWithFlags) LoadT1T2Config(path string) (*domain.T1T2Request, error) {
	return cl.loader.LoadT1T2Config(path)
}

// LoadT3Config loads structural detection configuration from the specified path
func (cl *DetectConfigLoaderWithFlags) LoadT3Config(path string) (*domain.T3Request, error) {
	return cl.loader.LoadT3Config(path)
}

// LoadPipelineConfig loads orchestrator configuration from the specified path
func (cl *DetectConfigLoaderWithFlags) LoadPipelineConfig(path string) (*domain.PipelineRequest, error) {
	return cl.loader.LoadPipelineConfig(path)
}

// MergeT1T2Config merges CLI flags into the file-based request, keeping a
// flag's value only when the user actually set it.
func (cl *DetectConfigLoaderWithFlags) MergeT1T2Config(base *domain.T1T2Request, override *domain.T1T2Request) *domain.T1T2Request {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base

	merged.BaseDir = cl.flagTracker.MergeString(merged.BaseDir, override.BaseDir, "base-dir")
	merged.Languages = cl.flagTracker.MergeStringSlice(merged.Languages, override.Languages, "languages")
	merged.IncludePatterns = cl.flagTracker.MergeStringSlice(merged.IncludePatterns, override.IncludePatterns, "include")
	merged.ExcludePatterns = cl.flagTracker.MergeStringSlice(merged.ExcludePatterns, override.ExcludePatterns, "exclude")

	merged.OutputFormat = domain.OutputFormat(cl.flagTracker.MergeString(
		string(merged.OutputFormat), string(override.OutputFormat), "format"))
	merged.ShowProgress = cl.flagTracker.MergeBool(merged.ShowProgress, override.ShowProgress, "progress")
	merged.Verbose = cl.flagTracker.MergeBool(merged.Verbose, override.Verbose, "verbose")

	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}

// MergeT3Config merges CLI flags into the file-based request
func (cl *DetectConfigLoaderWithFlags) MergeT3Config(base *domain.T3Request, override *domain.T3Request) *domain.T3Request {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base

	merged.BaseDir = cl.flagTracker.MergeString(merged.BaseDir, override.BaseDir, "base-dir")

	merged.SimilarityThreshold = cl.flagTracker.MergeFloat64(merged.SimilarityThreshold, override.SimilarityThreshold, "threshold")
	merged.MaxSizeRatio = cl.flagTracker.MergeFloat64(merged.MaxSizeRatio, override.MaxSizeRatio, "max-size-ratio")
	merged.GroupByProblem = cl.flagTracker.MergeBool(merged.GroupByProblem, override.GroupByProblem, "group-by-problem")

	merged.InsertCost = cl.flagTracker.MergeFloat64(merged.InsertCost, override.InsertCost, "insert-cost")
	merged.DeleteCost = cl.flagTracker.MergeFloat64(merged.DeleteCost, override.DeleteCost, "delete-cost")
	merged.RenameCost = cl.flagTracker.MergeFloat64(merged.RenameCost, override.RenameCost, "rename-cost")

	merged.Workers = cl.flagTracker.MergeInt(merged.Workers, override.Workers, "workers")
	merged.BatchSize = cl.flagTracker.MergeInt(merged.BatchSize, override.BatchSize, "batch-size")
	merged.ASTCacheSize = cl.flagTracker.MergeInt(merged.ASTCacheSize, override.ASTCacheSize, "ast-cache-size")

	merged.OutputFormat = domain.OutputFormat(cl.flagTracker.MergeString(
		string(merged.OutputFormat), string(override.OutputFormat), "format"))
	merged.ShowProgress = cl.flagTracker.MergeBool(merged.ShowProgress, override.ShowProgress, "progress")
	merged.Verbose = cl.flagTracker.MergeBool(merged.Verbose, override.Verbose, "verbose")

	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}

// MergePipelineConfig merges CLI flags into the file-based request
func (cl *DetectConfigLoaderWithFlags) MergePipelineConfig(base *domain.PipelineRequest, override *domain.PipelineRequest) *domain.PipelineRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base

	merged.BaseDir = cl.flagTracker.MergeString(merged.BaseDir, override.BaseDir, "base-dir")
	merged.Stages = cl.flagTracker.MergeStringSlice(merged.Stages, override.Stages, "stages")
	merged.ForceRerun = cl.flagTracker.MergeBool(merged.ForceRerun, override.ForceRerun, "force-rerun")
	merged.StopOnError = cl.flagTracker.MergeBool(merged.StopOnError, override.StopOnError, "stop-on-error")

	// Status queries only ever come from the command line
	merged.StatusOnly = override.StatusOnly

	merged.OutputFormat = domain.OutputFormat(cl.flagTracker.MergeString(
		string(merged.OutputFormat), string(override.OutputFormat), "format"))
	merged.ShowProgress = cl.flagTracker.MergeBool(merged.ShowProgress, override.ShowProgress, "progress")
	merged.Verbose = cl.flagTracker.MergeBool(merged.Verbose, override.Verbose, "verbose")

	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}

// FindDefaultConfigFile looks for a TOML config file in the current directory
func (cl *DetectConfigLoaderWithFlags) FindDefaultConfigFile() string {
	return cl.loader.FindDefaultConfigFile()
}
