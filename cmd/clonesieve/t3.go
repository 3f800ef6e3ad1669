package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clonesieve/clonesieve/app"
	"github.com/clonesieve/clonesieve/domain"
	"github.com/clonesieve/clonesieve/internal/constants"
	"github.com/clonesieve/clonesieve/service"
)

// T3Command handles the structural detection CLI command
type T3Command struct {
	// Input parameters
	baseDir    string
	configFile string

	// Detection tuning
	threshold      float64
	maxSizeRatio   float64
	groupByProblem bool

	// Edit costs
	insertCost float64
	deleteCost float64
	renameCost float64

	// Execution tuning
	workers      int
	batchSize    int
	astCacheSize int

	// Output options
	format     string
	outputPath string
	progress   bool
	verbose    bool
}

// NewT3Command creates a new structural detection command
func NewT3Command() *T3Command {
	return &T3Command{
		baseDir:        ".",
		threshold:      constants.DefaultT3SimilarityThreshold,
		maxSizeRatio:   constants.DefaultMaxSizeRatio,
		groupByProblem: true,
		insertCost:     constants.DefaultInsertCost,
		deleteCost:     constants.DefaultDeleteCost,
		renameCost:     constants.DefaultRenameCost,
		batchSize:      constants.DefaultBatchSize,
		astCacheSize:   constants.DefaultASTCacheSize,
		format:         "text",
		progress:       true,
	}
}

// CreateCobraCommand creates the Cobra command for structural detection
func (c *T3Command) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "t3",
		Short: "Detect Type-3 clones by AST tree edit distance",
		Long: `Detect Type-3 clone pairs across the submission corpus.

Type-3 clones are structurally similar submissions that differ by added,
removed or modified statements. Candidate pairs are compared by tree edit
distance over their serialized ASTs, and a pair is reported when its
similarity reaches the threshold.

Pairs already identified as Type-1 or Type-2 clones are skipped, so the hash
stage should run first. Comparison order is deterministic and independent of
the worker count.

Examples:
  # Detect structural clones with the default threshold
  clonesieve t3 --base-dir ./corpus

  # Lower the threshold and compare across problems
  clonesieve t3 --base-dir ./corpus --threshold 0.6 --group-by-problem=false

  # Use eight workers and a larger AST cache
  clonesieve t3 --base-dir ./corpus --workers 8 --ast-cache-size 5000`,
		RunE: c.runT3,
	}

	// Input flags
	cmd.Flags().StringVarP(&c.baseDir, "base-dir", "b", c.baseDir,
		"Base directory holding the artifact layout")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", c.configFile,
		"Path to configuration file")

	// Detection flags
	cmd.Flags().Float64Var(&c.threshold, "threshold", c.threshold,
		"Minimum similarity for a Type-3 clone pair (0.0-1.0)")
	cmd.Flags().Float64Var(&c.maxSizeRatio, "max-size-ratio", c.maxSizeRatio,
		"Skip pairs whose AST node counts differ by more than this ratio (0 disables)")
	cmd.Flags().BoolVar(&c.groupByProblem, "group-by-problem", c.groupByProblem,
		"Compare only submissions to the same problem")

	// Edit cost flags
	cmd.Flags().Float64Var(&c.insertCost, "insert-cost", c.insertCost,
		"Cost of inserting a node in the edit distance")
	cmd.Flags().Float64Var(&c.deleteCost, "delete-cost", c.deleteCost,
		"Cost of deleting a node in the edit distance")
	cmd.Flags().Float64Var(&c.renameCost, "rename-cost", c.renameCost,
		"Cost of relabeling a node in the edit distance")

	// Execution flags
	cmd.Flags().IntVar(&c.workers, "workers", c.workers,
		"Number of comparison workers (0 uses the CPU count)")
	cmd.Flags().IntVar(&c.batchSize, "batch-size", c.batchSize,
		"Number of pairs per worker batch")
	cmd.Flags().IntVar(&c.astCacheSize, "ast-cache-size", c.astCacheSize,
		"Number of parsed ASTs kept in the LRU cache")

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

// runT3 executes the structural detection command
func (c *T3Command) runT3(cmd *cobra.Command, args []string) error {
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

// createRequest builds the final request from config file and CLI flags
func (c *T3Command) createRequest(cmd *cobra.Command) (*domain.T3Request, error) {
	loader := service.NewDetectConfigLoaderWithFlags(GetExplicitFlags(cmd))

	base, err := loader.LoadT3Config(c.configFile)
	if err != nil {
		return nil, err
	}

	override := domain.DefaultT3Request()
	override.BaseDir = c.baseDir
	override.SimilarityThreshold = c.threshold
	override.MaxSizeRatio = c.maxSizeRatio
	override.GroupByProblem = c.groupByProblem
	override.InsertCost = c.insertCost
	override.DeleteCost = c.deleteCost
	override.RenameCost = c.renameCost
	override.Workers = c.workers
	override.BatchSize = c.batchSize
	override.ASTCacheSize = c.astCacheSize
	override.OutputFormat = domain.OutputFormat(c.format)
	override.OutputPath = c.outputPath
	override.ShowProgress = c.progress
	override.Verbose = c.verbose
	if c.outputPath == "" {
		override.OutputWriter = os.Stdout
	}

	return loader.MergeT3Config(base, override), nil
}

// createUseCase wires the structural detection use case with its dependencies
func (c *T3Command) createUseCase(cmd *cobra.Command) (*app.T3UseCase, error) {
	corpus := service.NewCorpusReader()
	progress := service.NewProgressManager()

	return app.NewT3UseCaseBuilder().
		WithService(service.NewT3Service(corpus, progress)).
		WithFormatter(service.NewDetectFormatter()).
		WithConfigLoader(service.NewDetectConfigLoaderWithFlags(GetExplicitFlags(cmd))).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
}

// NewT3Cmd creates and returns the t3 cobra command
func NewT3Cmd() *cobra.Command {
	return NewT3Command().CreateCobraCommand()
}
