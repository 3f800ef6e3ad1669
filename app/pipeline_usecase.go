package app

import (
	"context"
	"fmt"
	"io"

	"github.com/clonesieve/clonesieve/domain"
	svc "github.com/clonesieve/clonesieve/service"
)

// PipelineUseCase orchestrates pipeline runs and status queries
type PipelineUseCase struct {
	service      domain.PipelineService
	formatter    domain.PipelineOutputFormatter
	configLoader domain.DetectConfigurationLoader
	output       domain.ReportWriter
}

// NewPipelineUseCase creates a new pipeline use case
func NewPipelineUseCase(
	service domain.PipelineService,
	formatter domain.PipelineOutputFormatter,
	configLoader domain.DetectConfigurationLoader,
) *PipelineUseCase {
	return &PipelineUseCase{
		service:      service,
		formatter:    formatter,
		configLoader: configLoader,
		output:       svc.NewFileOutputWriter(nil),
	}
}

// Execute runs the pipeline, or reports stage status when StatusOnly is set.
// A run that finished with failed stages returns an error so callers can
// exit non-zero.
func (uc *PipelineUseCase) Execute(ctx context.Context, req domain.PipelineRequest) error {
	finalReq, err := uc.prepareRequest(req)
	if err != nil {
		return err
	}

	if finalReq.StatusOnly {
		return uc.executeStatus(ctx, &finalReq)
	}

	response, err := uc.service.Run(ctx, &finalReq)
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	if err := uc.writeRunResponse(&finalReq, response); err != nil {
		return err
	}

	if response.Failed() {
		return fmt.Errorf("pipeline finished with %d failed stage(s)", response.Summary.Failed)
	}
	return nil
}

// ExecuteAndReturn runs the pipeline and returns the response without formatting
func (uc *PipelineUseCase) ExecuteAndReturn(ctx context.Context, req domain.PipelineRequest) (*domain.PipelineResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}

	response, err := uc.service.Run(ctx, &finalReq)
	if err != nil {
		return nil, fmt.Errorf("pipeline run failed: %w", err)
	}
	return response, nil
}

// executeStatus queries and formats stage eligibility
func (uc *PipelineUseCase) executeStatus(ctx context.Context, req *domain.PipelineRequest) error {
	response, err := uc.service.Status(ctx, req)
	if err != nil {
		return fmt.Errorf("pipeline status failed: %w", err)
	}

	var out io.Writer
	if req.OutputPath == "" {
		out = req.OutputWriter
	}
	if err := uc.output.Write(out, req.OutputPath, func(w io.Writer) error {
		return uc.formatter.FormatStatusResponse(response, req.OutputFormat, w)
	}); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// prepareRequest handles validation and configuration merging
func (uc *PipelineUseCase) prepareRequest(req domain.PipelineRequest) (domain.PipelineRequest, error) {
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
func (uc *PipelineUseCase) loadAndMergeConfig(req domain.PipelineRequest) (domain.PipelineRequest, error) {
	if uc.configLoader == nil || req.ConfigPath == "" {
		return req, nil
	}

	configReq, err := uc.configLoader.LoadPipelineConfig(req.ConfigPath)
	if err != nil {
		return req, fmt.Errorf("failed to load config from %s: %w", req.ConfigPath, err)
	}

	return uc.mergeConfiguration(*configReq, req), nil
}

// mergeConfiguration merges configuration from file with request parameters.
// Request parameters take precedence when they differ from the defaults.
func (uc *PipelineUseCase) mergeConfiguration(configReq, requestReq domain.PipelineRequest) domain.PipelineRequest {
	merged := configReq
	defaultReq := domain.DefaultPipelineRequest()

	if requestReq.BaseDir != defaultReq.BaseDir {
		merged.BaseDir = requestReq.BaseDir
	}
	if len(requestReq.Stages) > 0 {
		merged.Stages = requestReq.Stages
	}
	if requestReq.ForceRerun != defaultReq.ForceRerun {
		merged.ForceRerun = requestReq.ForceRerun
	}
	if requestReq.StopOnError != defaultReq.StopOnError {
		merged.StopOnError = requestReq.StopOnError
	}

	// StatusOnly and output settings always come from the request
	merged.StatusOnly = requestReq.StatusOnly
	merged.OutputFormat = requestReq.OutputFormat
	merged.OutputWriter = requestReq.OutputWriter
	merged.OutputPath = requestReq.OutputPath
	merged.ShowProgress = requestReq.ShowProgress
	merged.Verbose = requestReq.Verbose
	merged.ConfigPath = requestReq.ConfigPath

	return merged
}

// writeRunResponse delegates output handling to the report writer
func (uc *PipelineUseCase) writeRunResponse(req *domain.PipelineRequest, response *domain.PipelineResponse) error {
	var out io.Writer
	if req.OutputPath == "" {
		out = req.OutputWriter
	}
	if err := uc.output.Write(out, req.OutputPath, func(w io.Writer) error {
		return uc.formatter.FormatRunResponse(response, req.OutputFormat, w)
	}); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// PipelineUseCaseBuilder provides a builder pattern for creating PipelineUseCase
type PipelineUseCaseBuilder struct {
	service      domain.PipelineService
	formatter    domain.PipelineOutputFormatter
	configLoader domain.DetectConfigurationLoader
	output       domain.ReportWriter
}

// NewPipelineUseCaseBuilder creates a new builder
func NewPipelineUseCaseBuilder() *PipelineUseCaseBuilder {
	return &PipelineUseCaseBuilder{}
}

// WithService sets the pipeline service
func (b *PipelineUseCaseBuilder) WithService(service domain.PipelineService) *PipelineUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *PipelineUseCaseBuilder) WithFormatter(formatter domain.PipelineOutputFormatter) *PipelineUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *PipelineUseCaseBuilder) WithConfigLoader(configLoader domain.DetectConfigurationLoader) *PipelineUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer
func (b *PipelineUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *PipelineUseCaseBuilder {
	b.output = output
	return b
}

// Build creates the PipelineUseCase with the configured dependencies
func (b *PipelineUseCaseBuilder) Build() (*PipelineUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("pipeline service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := NewPipelineUseCase(b.service, b.formatter, b.configLoader)
	if b.output != nil {
		uc.output = b.output
	}
	return uc, nil
}
