package app

import (
	"context"
	"fmt"
	"io"

	"github.com/clonesieve/clonesieve/domain"
	svc "github.com/clonesieve/clonesieve/service"
)

// T3UseCase orchestrates the structural detection workflow
type T3UseCase struct {
	service      domain.T3Service
	formatter    domain.DetectOutputFormatter
	configLoader domain.DetectConfigurationLoader
	output       domain.ReportWriter
}

// NewT3UseCase creates a new structural detection use case
func NewT3UseCase(
	service domain.T3Service,
	formatter domain.DetectOutputFormatter,
	configLoader domain.DetectConfigurationLoader,
) *T3UseCase {
	return &T3UseCase{
		service:      service,
		formatter:    formatter,
		configLoader: configLoader,
		output:       svc.NewFileOutputWriter(nil),
	}
}

// Execute performs the complete structural detection workflow
func (uc *T3UseCase) Execute(ctx context.Context, req domain.T3Request) error {
	finalReq, err := uc.prepareRequest(req)
	if err != nil {
		return err
	}

	response, err := uc.service.Detect(ctx, &finalReq)
	if err != nil {
		return fmt.Errorf("structural detection failed: %w", err)
	}

	return uc.writeResponse(&finalReq, response)
}

// ExecuteAndReturn performs structural detection and returns the response without formatting
func (uc *T3UseCase) ExecuteAndReturn(ctx context.Context, req domain.T3Request) (*domain.T3Response, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}

	response, err := uc.service.Detect(ctx, &finalReq)
	if err != nil {
		return nil, fmt.Errorf("structural detection failed: %w", err)
	}
	return response, nil
}

// ComputePairSimilarity scores a single pair of AST artifacts without
// running the full detection workflow.
func (uc *T3UseCase) ComputePairSimilarity(ctx context.Context, astPath1, astPath2 string, req domain.T3Request) (float64, error) {
	if err := req.Validate(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}

	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return 0, domain.NewConfigError("failed to load configuration", err)
	}

	similarity, err := uc.service.ComputeSimilarity(ctx, astPath1, astPath2, &finalReq)
	if err != nil {
		return 0, fmt.Errorf("failed to compute similarity: %w", err)
	}
	return similarity, nil
}

// prepareRequest handles validation and configuration merging
func (uc *T3UseCase) prepareRequest(req domain.T3Request) (domain.T3Request, error) {
	if err := req.Validate(); err != nil {
		return req, fmt.Errorf("validation failed: %w", err)
	}

	if req.OutputWriter == nil && req.OutputPath == "" {
		return req, fmt.Errorf("no valid output writer specified")
	}

	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return req, domain.NewConfigError("failed to load configuration", err)
	}
	return finalReq, nil
}

// loadAndMergeConfig loads configuration from file and merges with request
func (uc *T3UseCase) loadAndMergeConfig(req domain.T3Request) (domain.T3Request, error) {
	if uc.configLoader == nil || req.ConfigPath == "" {
		return req, nil
	}

	configReq, err := uc.configLoader.LoadT3Config(req.ConfigPath)
	if err != nil {
		return req, fmt.Errorf("failed to load config from %s: %w", req.ConfigPath, err)
	}

	return uc.mergeConfiguration(*configReq, req), nil
}

// mergeConfiguration merges configuration from file with request parameters.
// Request parameters take precedence when they differ from the defaults.
func (uc *T3UseCase) mergeConfiguration(configReq, requestReq domain.T3Request) domain.T3Request {
	merged := configReq
	defaultReq := domain.DefaultT3Request()

	if requestReq.BaseDir != defaultReq.BaseDir {
		merged.BaseDir = requestReq.BaseDir
	}
	if requestReq.SimilarityThreshold != defaultReq.SimilarityThreshold {
		merged.SimilarityThreshold = requestReq.SimilarityThreshold
	}
	if requestReq.MaxSizeRatio != defaultReq.MaxSizeRatio {
		merged.MaxSizeRatio = requestReq.MaxSizeRatio
	}
	if requestReq.GroupByProblem != defaultReq.GroupByProblem {
		merged.GroupByProblem = requestReq.GroupByProblem
	}
	if requestReq.InsertCost != defaultReq.InsertCost {
		merged.InsertCost = requestReq.InsertCost
	}
	if requestReq.DeleteCost != defaultReq.DeleteCost {
		merged.DeleteCost = requestReq.DeleteCost
	}
	if requestReq.RenameCost != defaultReq.RenameCost {
		merged.RenameCost = requestReq.RenameCost
	}
	if requestReq.Workers != defaultReq.Workers {
		merged.Workers = requestReq.Workers
	}
	if requestReq.BatchSize != defaultReq.BatchSize {
		merged.BatchSize = requestReq.BatchSize
	}
	if requestReq.ASTCacheSize != defaultReq.ASTCacheSize {
		merged.ASTCacheSize = requestReq.ASTCacheSize
	}

	// Output settings always come from the request
	merged.OutputFormat = requestReq.OutputFormat
	merged.OutputWriter = requestReq.OutputWriter
	merged.OutputPath = requestReq.OutputPath
	merged.ShowProgress = requestReq.ShowProgress
	merged.Verbose = requestReq.Verbose
	merged.ConfigPath = requestReq.ConfigPath

	return merged
}

// writeResponse delegates output handling to the report writer
func (uc *T3UseCase) writeResponse(req *domain.T3Request, response *domain.T3Response) error {
	var out io.Writer
	if req.OutputPath == "" {
		out = req.OutputWriter
	}
	if err := uc.output.Write(out, req.OutputPath, func(w io.Writer) error {
		return uc.formatter.FormatT3Response(response, req.OutputFormat, w)
	}); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// T3UseCaseBuilder provides a builder pattern for creating T3UseCase
type T3UseCaseBuilder struct {
	service      domain.T3Service
	formatter    domain.DetectOutputFormatter
	configLoader domain.DetectConfigurationLoader
	output       domain.ReportWriter
}

// NewT3UseCaseBuilder creates a new builder
func NewT3UseCaseBuilder() *T3UseCaseBuilder {
	return &T3UseCaseBuilder{}
}

// WithService sets the structural detection service
func (b *T3UseCaseBuilder) WithService(service domain.T3Service) *T3UseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *T3UseCaseBuilder) WithFormatter(formatter domain.DetectOutputFormatter) *T3UseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *T3UseCaseBuilder) WithConfigLoader(configLoader domain.DetectConfigurationLoader) *T3UseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer
func (b *T3UseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *T3UseCaseBuilder {
	b.output = output
	return b
}

// Build creates the T3UseCase with the configured dependencies
func (b *T3UseCaseBuilder) Build() (*T3UseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("structural detection service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := NewT3UseCase(b.service, b.formatter, b.configLoader)
	if b.output != nil {
		uc.output = b.output
	}
	return uc, nil
}
