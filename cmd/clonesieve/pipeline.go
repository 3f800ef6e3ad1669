package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clonesieve/clonesieve/app"
	"github.com/clonesieve/clonesieve/domain"
	"github.com/clonesieve/clonesieve/service"
)

// PipelineCommand handles the pipeline orchestration CLI command
type PipelineCommand struct {
	// Input parameters
	baseDir    string
	configFile string

	// Run options
	stages      []string
	forceRerun  bool
	stopOnError bool
	status      bool

	// Output options
	format     string
	outputPath string
	progress   bool
	verbose    bool
}

// NewPipelineCommand creates a new pipeline command
func NewPipelineCommand() *PipelineCommand {
	return &PipelineCommand{
		baseDir:     ".",
		stopOnError: true,
		format:      "text",
		progress:    true,
	}
}

// CreateCobraCommand creates the Cobra command for pipeline orchestration
func (c *PipelineCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run the detection pipeline end to end",
		Long: `Run the clone detection pipeline over the submission corpus.

The pipeline walks the stage sequence (normalize, tokenize, ast, t1t2, t3)
and runs every stage whose outputs are missing. Stage completion is judged
purely by filesystem presence, so an interrupted run resumes from where it
stopped. The preprocessing stages (normalize, tokenize, ast) are produced by
external tooling; when their outputs are missing they are reported as
pending rather than executed.

Use --status to print which stages would run without executing anything,
and --force-rerun to execute stages even when their outputs already exist.

Examples:
  # Run everything that is missing
  clonesieve pipeline --base-dir ./corpus

  # Show stage status without running
  clonesieve pipeline --base-dir ./corpus --status

  # Re-run detection stages only
  clonesieve pipeline --base-dir ./corpus --stages t1t2,t3 --force-rerun`,
		RunE: c.runPipeline,
	}

	// Input flags
	cmd.Flags().StringVarP(&c.baseDir, "base-dir", "b", c.baseDir,
		"Base directory holding the artifact layout")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", c.configFile,
		"Path to configuration file")

	// Run flags
	cmd.Flags().StringSliceVar(&c.stages, "stages", nil,
		"Stages to consider (default: all, in canonical order)")
	cmd.Flags().BoolVar(&c.forceRerun, "force-rerun", c.forceRerun,
		"Run selected stages even when their outputs exist")
	cmd.Flags().BoolVar(&c.stopOnError, "stop-on-error", c.stopOnError,
		"Stop at the first failed stage")
	cmd.Flags().BoolVar(&c.status, "status", c.status,
		"Report stage status without running anything")

	// Output flags
	cmd.Flags().StringVarP(&c.format, "format", "f", c.format,
		"Output format: text, json, yaml, csv")
	cmd.Flags().StringVarP(&c.outputPath, "output", "o", c.outputPath,
		"Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&c.progress, "progress", c.progress,
		"Show a progress bar on stderr")
	cmd.Flags().BoolVarP(&c.verbose, "verbose", "v", c.verbose,
		"Enable verbose output")

	return cmd
}

// runPipeline executes the pipeline command
func (c *PipelineCommand) runPipeline(cmd *cobra.Command, args []string) error {
	request, err := c.createRequest(cmd)
	if err != nil {
		return fmt.Errorf("failed to create pipeline request: %w", err)
	}

	if err := request.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	useCase, err := c.createUseCase(cmd)
	if err != nil {
		return fmt.Errorf("failed to create pipeline use case: %w", err)
	}

	if err := useCase.Execute(cmd.Context(), *request); err != nil {
		printRecoverySuggestions(cmd, err)
		return err
	}
	return nil
}

// createRequest builds the final request from config file and CLI flags
func (c *PipelineCommand) createRequest(cmd *cobra.Command) (*domain.PipelineRequest, error) {
	loader := service.NewDetectConfigLoaderWithFlags(GetExplicitFlags(cmd))

	base, err := loader.LoadPipelineConfig(c.configFile)
	if err != nil {
		return nil, err
	}

	override := domain.DefaultPipelineRequest()
	override.BaseDir = c.baseDir
	override.Stages = c.stages
	override.ForceRerun = c.forceRerun
	override.StopOnError = c.stopOnError
	override.StatusOnly = c.status
	override.OutputFormat = domain.OutputFormat(c.format)
	override.OutputPath = c.outputPath
	override.ShowProgress = c.progress
	override.Verbose = c.verbose
	if c.outputPath == "" {
		override.OutputWriter = os.Stdout
	}

	return loader.MergePipelineConfig(base, override), nil
}

// createUseCase wires the pipeline use case with its dependencies
func (c *PipelineCommand) createUseCase(cmd *cobra.Command) (*app.PipelineUseCase, error) {
	corpus := service.NewCorpusReader()
	progress := service.NewProgressManager()

	t1t2 := service.NewHashService(corpus, progress)
	t3 := service.NewT3Service(corpus, progress)

	return app.NewPipelineUseCaseBuilder().
		WithService(service.NewPipelineRunner(t1t2, t3)).
		WithFormatter(service.NewPipelineFormatter()).
		WithConfigLoader(service.NewDetectConfigLoaderWithFlags(GetExplicitFlags(cmd))).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
}

// NewPipelineCmd creates and returns the pipeline cobra command
func NewPipelineCmd() *cobra.Command {
	return NewPipelineCommand().CreateCobraCommand()
}
