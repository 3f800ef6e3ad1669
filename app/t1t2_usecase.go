package app

import (
	"context"
	"fmt"
	"io"

	"github.com/clonesieve/clonesieve/domain"
	svc "github.com/clonesieve/clonesieve/service"
)

// T1T2UseCase orchestrates the hash-based detection workflow
type T1T2UseCase struct {
	service      domain.T1T2Service
	formatter    domain.DetectOutputFormatter
	configLoader domain.DetectConfigurationLoader
	output       domain.ReportWriter
}

// NewT1T2UseCase creates a new hash detection use case
func NewT1T2UseCase(
	service domain.T1T2Service,
	formatter domain.DetectOutputFormatter,
	configLoader domain.DetectConfigurationLoader,
) *T1T2UseCase {
	return &T1T2UseCase{
		service:      service,
		formatter:    formatter,
		configLoader: configLoader,
		output:       svc.NewFileOutputWriter(nil),
	}
}

// Execute performs the complete hash detection workflow
func (uc *T1T2UseCase) Execute(ctx context.Context, req domain.T1T2Request) error {
	finalReq, err := uc.prepareRequest(req)
	if err != nil {
		return err
	}

	response, err := uc.service.Detect(ctx, &finalReq)
	if err != nil {
		return fmt.Errorf("hash detection failed: %w", err)
	}

	return uc.writeResponse(&finalReq, response)
}

// ExecuteAndReturn performs hash detection and returns the response without formatting
func (uc *T1T2UseCase) ExecuteAndReturn(ctx context.Context, req domain.T1T2Request) (*domain.T1T2Response, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}

	response, err := uc.service.Detect(ctx, &finalReq)
	if err != nil {
		return nil, fmt.Errorf("hash detection failed: %w", err)
	}
	return response, nil
}

// prepareRequest handles validation and configuration merging
func (uc *T1T2UseCase) prepareRequest(req domain.T1T2Request) (domain.T1T2Request, error) {
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
func (uc *T1T2UseCase) loadAndMergeConfig(req domain.T1T2Request) (domain.T1T2Request, error) {
	if uc.configLoader == nil || req.ConfigPath == "" {
		return req, nil
	}

	configReq, err := uc.configLoader.LoadT1T2Config(req.ConfigPath)
	if err != nil {
		return req, fmt.Errorf("failed to load config from %s: %w", req.ConfigPath, err)
	}

	return uc.mergeConfiguration(*configReq, req), nil
}

// mergeConfiguration merges configuration from file with request parameters.
// Request parameters take precedence over configuration file values.
func (uc *T1T2UseCase) mergeConfiguration(configReq, requestReq domain.T1T2Request) domain.T1T2Request {
	merged := configReq
	defaultReq := domain.DefaultT1T2Request()

	if requestReq.BaseDir != defaultReq.BaseDir {
		merged.BaseDir = requestReq.BaseDir
	}
	if len(requestReq.Languages) > 0 {
		merged.Languages = requestReq.Languages
	}
	if len(requestReq.IncludePatterns) > 0 {
		merged.IncludePatterns = requestReq.IncludePatterns
	}
	if len(requestReq.ExcludePatterns) > 0 {
		merged.ExcludePatterns = requestReq.ExcludePatterns
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
func (uc *T1T2UseCase) writeResponse(req *domain.T1T2Request, response *domain.T1T2Response) error {
	var out io.Writer
	if req.OutputPath == "" {
		out = req.OutputWriter
	}
	if err := uc.output.Write(out, req.OutputPath, func(w io.Writer) error {
		return uc.formatter.FormatT1T2Response(response, req.OutputFormat, w)
	}); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// T1T2UseCaseBuilder provides a builder pattern for creating T1T2UseCase
type T1T2UseCaseBuilder struct {
	service      domain.T1T2Service
	formatter    domain.DetectOutputFormatter
	configLoader domain.DetectConfigurationLoader
	output       domain.ReportWriter
}

// NewT1T2UseCaseBuilder creates a new builder
func NewT1T2UseCaseBuilder() *T1T2UseCaseBuilder {
	return &T1T2UseCaseBuilder{}
}

// WithService sets the hash detection service
func (b *T1T2UseCaseBuilder) WithService(service domain.T1T2Service) *T1T2UseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *T1T2UseCaseBuilder) WithFormatter(formatter domain.DetectOutputFormatter) *T1T2UseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *T1T2UseCaseBuilder) WithConfigLoader(configLoader domain.DetectConfigurationLoader) *T1T2UseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer
func (b *T1T2UseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *T1T2UseCaseBuilder {
	b.output = output
	return b
}

// Build creates the T1T2UseCase with the configured dependencies
func (b *T1T2UseCaseBuilder) Build() (*T1T2UseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("hash detection service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := NewT1T2UseCase(b.service, b.formatter, b.configLoader)
	if b.output != nil {
		uc.output = b.output
	}
	return uc, nil
}
