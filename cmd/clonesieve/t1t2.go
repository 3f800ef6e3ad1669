package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clonesieve/clonesieve/app"
	"github.com/clonesieve/clonesieve/domain"
	"github.com/clonesieve/clonesieve/service"
)

// T1T2Command handles the hash detection CLI command
type T1T2Command struct {
	// Input parameters
	baseDir         string
	configFile      string
	languages       []string
	includePatterns []string
	excludePatterns []string

	// Output options
	format     string
	outputPath string
	progress   bool
	verbose    bool
}

// NewT1T2Command creates a new hash detection command
func NewT1T2Command() *T1T2Command {
	return &T1T2Command{
		baseDir:  ".",
		format:   "text",
		progress: true,
	}
}

// CreateCobraCommand creates the Cobra command for hash detection
func (c *T1T2Command) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "t1t2",
		Short: "Detect Type-1 and Type-2 clones by content hashing",
		Long: `Detect Type-1 and Type-2 clone pairs across the submission corpus.

Type-1 clones share an identical normalized source file; Type-2 clones share
an identical canonical token stream, so renamed identifiers and changed
literals still match. Both tiers are found by grouping SHA256 digests, which
makes the result exact and reproducible.

The command reads the normalized/ and tokens/ trees under the base directory
and writes t1_t2_hashes.json, t1_groups.json, t2_groups.json, t1_pairs.csv
and t2_pairs.csv into the clones/ subdirectory.

Examples:
  # Detect hash clones under the default layout
  clonesieve t1t2 --base-dir ./corpus

  # Restrict detection to Python submissions
  clonesieve t1t2 --base-dir ./corpus --languages py

  # Print the summary as JSON
  clonesieve t1t2 --base-dir ./corpus --format json`,
		RunE: c.runT1T2,
	}

	// Input flags
	cmd.Flags().StringVarP(&c.baseDir, "base-dir", "b", c.baseDir,
		"Base directory holding the artifact layout")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", c.configFile,
		"Path to configuration file")
	cmd.Flags().StringSliceVar(&c.languages, "languages", nil,
		"Languages to include (e.g. py,java); empty means all")
	cmd.Flags().StringSliceVar(&c.includePatterns, "include", nil,
		"File patterns to include")
	cmd.Flags().StringSliceVar(&c.excludePatterns, "exclude", nil,
		"File patterns to exclude")

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

// runT1T2 executes the hash detection command
func (c *T1T2Command) runT1T2(cmd *cobra.Command, args []string) error {
	request, err := c.createRequest(cmd)
	if err != nil {
		return fmt.Errorf("failed to create detection request: %w", err)
	}

	if err := request.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	useCase, err := c.createUseCase(cmd)
	if err != nil {
		return fmt.Errorf("failed to create detection use case: %w", err)
	}

	if err := useCase.Execute(cmd.Context(), *request); err != nil {
		printRecoverySuggestions(cmd, err)
		return err
	}
	return nil
}

// createRequest builds the final request from config file and CLI flags.
// Explicit flags win over the config file, which wins over defaults.
func (c *T1T2Command) createRequest(cmd *cobra.Command) (*domain.T1T2Request, error) {
	loader := service.NewDetectConfigLoaderWithFlags(GetExplicitFlags(cmd))

	base, err := loader.LoadT1T2Config(c.configFile)
	if err != nil {
		return nil, err
	}

	override := domain.DefaultT1T2Request()
	override.BaseDir = c.baseDir
	override.Languages = c.languages
	override.IncludePatterns = c.includePatterns
	override.ExcludePatterns = c.excludePatterns
	override.OutputFormat = domain.OutputFormat(c.format)
	override.OutputPath = c.outputPath
	override.ShowProgress = c.progress
	override.Verbose = c.verbose
	if c.outputPath == "" {
		override.OutputWriter = os.Stdout
	}

	return loader.MergeT1T2Config(base, override), nil
}

// createUseCase wires the hash detection use case with its dependencies
func (c *T1T2Command) createUseCase(cmd *cobra.Command) (*app.T1T2UseCase, error) {
	corpus := service.NewCorpusReader()
	progress := service.NewProgressManager()

	return app.NewT1T2UseCaseBuilder().
		WithService(service.NewHashService(corpus, progress)).
		WithFormatter(service.NewDetectFormatter()).
		WithConfigLoader(service.NewDetectConfigLoaderWithFlags(GetExplicitFlags(cmd))).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
}

// NewT1T2Cmd creates and returns the t1t2 cobra command
func NewT1T2Cmd() *cobra.Command {
	return NewT1T2Command().CreateCobraCommand()
}
