package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/clonesieve/clonesieve/domain"
	"github.com/clonesieve/clonesieve/internal/version"
)

// PipelineRunner implements the domain.PipelineService interface.
//
// The runner is single-process and strictly sequential: stages never
// overlap, and resumability rests purely on filesystem presence checks of
// each stage's declared outputs. No state file, no database.
type PipelineRunner struct {
	t1t2   domain.T1T2Service
	t3     domain.T3Service
	loader *DetectConfigLoader
}

// NewPipelineRunner creates a pipeline runner. Nil services fall back to
// the default implementations.
func NewPipelineRunner(t1t2 domain.T1T2Service, t3 domain.T3Service) *PipelineRunner {
	if t1t2 == nil {
		t1t2 = NewHashService(nil, nil)
	}
	if t3 == nil {
		t3 = NewT3Service(nil, nil)
	}
	return &PipelineRunner{
		t1t2:   t1t2,
		t3:     t3,
		loader: NewDetectConfigLoader(),
	}
}

// Run executes the selected stages in canonical order.
func (p *PipelineRunner) Run(ctx context.Context, req *domain.PipelineRequest) (*domain.PipelineResponse, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("pipeline request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline request: %w", err)
	}

	startTime := time.Now()

	stages, err := p.buildStages(req)
	if err != nil {
		return nil, err
	}

	results := make([]domain.StageResult, 0, len(stages))
	halted := false
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline cancelled: %w", err)
		}
		if halted {
			// stop_on_error tripped upstream; record the stage untouched.
			results = append(results, domain.StageResult{Name: stage.Name(), State: domain.StagePending})
			continue
		}

		result := p.runStage(ctx, stage, req.ForceRerun)
		results = append(results, result)
		if result.State == domain.StageFailed && req.StopOnError {
			halted = true
		}
	}

	resp := &domain.PipelineResponse{
		RunID:       uuid.NewString(),
		Results:     results,
		Summary:     summarizeResults(results),
		GeneratedAt: time.Now().UTC(),
		Duration:    time.Since(startTime).Milliseconds(),
		Version:     version.Version,
	}

	store := NewArtifactStore(req.BaseDir)
	if _, err := store.WritePipelineReport(resp); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to write pipeline report: %v\n", err)
	}

	return resp, nil
}

// Status reports per-stage eligibility without invoking any unit.
func (p *PipelineRunner) Status(ctx context.Context, req *domain.PipelineRequest) (*domain.PipelineStatusResponse, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("pipeline request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline request: %w", err)
	}

	stages, err := p.buildStages(req)
	if err != nil {
		return nil, err
	}

	statuses := make([]domain.StageStatus, 0, len(stages))
	for _, stage := range stages {
		outputsPresent := outputsSatisfied(stage.Outputs())
		missing := missingPaths(stage.Inputs())
		statuses = append(statuses, domain.StageStatus{
			Name:           stage.Name(),
			OutputsPresent: outputsPresent,
			MissingInputs:  missing,
			WouldRun:       (req.ForceRerun || !outputsPresent) && len(missing) == 0,
		})
	}
	return &domain.PipelineStatusResponse{BaseDir: req.BaseDir, Stages: statuses}, nil
}

// runStage applies the stage state machine: skip when outputs are already
// satisfied, fail before execution when an input is missing, otherwise run
// and capture the outcome.
func (p *PipelineRunner) runStage(ctx context.Context, stage domain.PipelineStage, forceRerun bool) domain.StageResult {
	result := domain.StageResult{Name: stage.Name()}

	if !forceRerun && outputsSatisfied(stage.Outputs()) {
		result.State = domain.StageSkipped
		return result
	}

	if missing := missingPaths(stage.Inputs()); len(missing) > 0 {
		result.State = domain.StageFailed
		result.Error = domain.NewDependencyMissingError(stage.Name(), missing[0]).Error()
		return result
	}

	start := time.Now()
	result.State = domain.StageRunning
	if err := stage.Run(ctx); err != nil {
		result.State = domain.StageFailed
		result.Error = domain.NewStageExecutionError(stage.Name(), err).Error()
		result.Duration = time.Since(start).Milliseconds()
		return result
	}

	result.State = domain.StageSucceeded
	result.Duration = time.Since(start).Milliseconds()
	return result
}

// buildStages assembles the selected stages against the artifact layout.
// The three upstream stages are external guards; the two detection stages
// run in process with requests derived from configuration.
func (p *PipelineRunner) buildStages(req *domain.PipelineRequest) ([]domain.PipelineStage, error) {
	layout := domain.NewArtifactLayout(req.BaseDir)

	t1t2Req, t3Req, err := p.detectRequests(req)
	if err != nil {
		return nil, err
	}

	byName := map[string]domain.PipelineStage{
		domain.StageNormalize: &externalStage{
			name:     domain.StageNormalize,
			producer: "source normalizer",
			outputs:  []string{layout.NormalizedDir()},
		},
		domain.StageTokenize: &externalStage{
			name:     domain.StageTokenize,
			producer: "tokenizer",
			inputs:   []string{layout.NormalizedDir()},
			outputs:  []string{layout.TokensDir()},
		},
		domain.StageAST: &externalStage{
			name:     domain.StageAST,
			producer: "AST extractor",
			inputs:   []string{layout.NormalizedDir()},
			outputs:  []string{layout.ASTDir()},
		},
		domain.StageT1T2: &funcStage{
			name:   domain.StageT1T2,
			inputs: []string{layout.NormalizedDir(), layout.TokensDir()},
			outputs: []string{
				layout.HashesFile(),
				layout.T1GroupsFile(),
				layout.T2GroupsFile(),
				layout.T1PairsFile(),
				layout.T2PairsFile(),
			},
			run: func(ctx context.Context) error {
				_, err := p.t1t2.Detect(ctx, t1t2Req)
				return err
			},
		},
		domain.StageT3: &funcStage{
			name:   domain.StageT3,
			inputs: []string{layout.ASTDir(), layout.T1GroupsFile(), layout.T2GroupsFile()},
			outputs: []string{
				layout.T3SimilarityFile(),
				layout.T3PairsFile(),
				layout.T3StatisticsFile(),
			},
			run: func(ctx context.Context) error {
				_, err := p.t3.Detect(ctx, t3Req)
				return err
			},
		},
	}

	selected := req.SelectedStages()
	stages := make([]domain.PipelineStage, 0, len(selected))
	for _, name := range selected {
		stages = append(stages, byName[name])
	}
	return stages, nil
}

// detectRequests derives the in-process stage requests from configuration.
// The pipeline's base directory always wins over the config file's, and
// per-file progress bars are disabled in favor of per-stage reporting.
func (p *PipelineRunner) detectRequests(req *domain.PipelineRequest) (*domain.T1T2Request, *domain.T3Request, error) {
	t1t2Req, err := p.loader.LoadT1T2Config(req.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	t3Req, err := p.loader.LoadT3Config(req.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	t1t2Req.BaseDir = req.BaseDir
	t1t2Req.ShowProgress = false
	t3Req.BaseDir = req.BaseDir
	t3Req.ShowProgress = false
	return t1t2Req, t3Req, nil
}

// externalStage guards artifacts produced outside this process. Its unit
// never does any work: reaching Run means the outputs were absent, which
// is an error directing the operator to the upstream producer.
type externalStage struct {
	name     string
	producer string
	inputs   []string
	outputs  []string
}

func (s *externalStage) Name() string      { return s.name }
func (s *externalStage) Inputs() []string  { return s.inputs }
func (s *externalStage) Outputs() []string { return s.outputs }

func (s *externalStage) Run(ctx context.Context) error {
	return fmt.Errorf("outputs missing under %v; run the external %s before this pipeline", s.outputs, s.producer)
}

// funcStage adapts a closure into a pipeline stage.
type funcStage struct {
	name    string
	inputs  []string
	outputs []string
	run     func(ctx context.Context) error
}

func (s *funcStage) Name() string      { return s.name }
func (s *funcStage) Inputs() []string  { return s.inputs }
func (s *funcStage) Outputs() []string { return s.outputs }

func (s *funcStage) Run(ctx context.Context) error {
	return s.run(ctx)
}

// outputsSatisfied reports whether every output path exists and is
// non-empty. An empty file or directory does not count as done: an
// interrupted stage must rerun, not be skipped on a half-written artifact.
func outputsSatisfied(outputs []string) bool {
	if len(outputs) == 0 {
		return false
	}
	for _, path := range outputs {
		if !pathNonEmpty(path) {
			return false
		}
	}
	return true
}

// missingPaths returns the subset of paths that do not exist.
func missingPaths(paths []string) []string {
	var missing []string
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}
	return missing
}

// pathNonEmpty reports whether path exists and holds content: a file with
// at least one byte, or a directory with at least one entry.
func pathNonEmpty(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		return err == nil && len(entries) > 0
	}
	return info.Size() > 0
}

// summarizeResults aggregates stage outcomes.
func summarizeResults(results []domain.StageResult) domain.PipelineSummary {
	summary := domain.PipelineSummary{TotalStages: len(results)}
	for _, result := range results {
		switch result.State {
		case domain.StageSucceeded:
			summary.Succeeded++
		case domain.StageSkipped:
			summary.Skipped++
		case domain.StageFailed:
			summary.Failed++
		default:
			summary.NotRun++
		}
	}
	return summary
}
