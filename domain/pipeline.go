package domain

import (
	"context"
	"io"
	"time"
)

// Canonical stage names in execution order. The upstream stages shell out
// to external preprocessing tools; the detection stages run in process.
const (
	StageNormalize = "normalize"
	StageTokenize  = "tokenize"
	StageAST       = "ast"
	StageT1T2      = "t1t2"
	StageT3        = "t3"
)

// PipelineStageNames returns the canonical stage order.
func PipelineStageNames() []string {
	return []string{StageNormalize, StageTokenize, StageAST, StageT1T2, StageT3}
}

// IsPipelineStageName reports whether name denotes a known stage.
func IsPipelineStageName(name string) bool {
	for _, s := range PipelineStageNames() {
		if s == name {
			return true
		}
	}
	return false
}

// StageState represents the lifecycle of one stage within a run
type StageState int

const (
	StagePending StageState = iota
	StageSkipped
	StageRunning
	StageSucceeded
	StageFailed
)

// String returns string representation of StageState
func (s StageState) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageSkipped:
		return "skipped"
	case StageRunning:
		return "running"
	case StageSucceeded:
		return "succeeded"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the state as its lower-case name.
func (s StageState) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// PipelineStage is the in-process contract every stage satisfies. Inputs
// and Outputs return artifact paths; completion is judged purely from the
// filesystem so an interrupted run resumes without any state file.
type PipelineStage interface {
	// Name returns the canonical stage name
	Name() string

	// Inputs returns the artifact paths that must exist before the stage runs
	Inputs() []string

	// Outputs returns the artifact paths whose presence marks the stage complete
	Outputs() []string

	// Run executes the stage
	Run(ctx context.Context) error
}

// StageResult records what happened to one stage during a run.
type StageResult struct {
	Name     string     `json:"name" yaml:"name"`
	State    StageState `json:"state" yaml:"state"`
	Error    string     `json:"error,omitempty" yaml:"error,omitempty"`
	Duration int64      `json:"duration_ms" yaml:"duration_ms"`
}

// StageStatus describes a stage's eligibility without running it.
type StageStatus struct {
	Name           string   `json:"name" yaml:"name"`
	OutputsPresent bool     `json:"outputs_present" yaml:"outputs_present"`
	MissingInputs  []string `json:"missing_inputs,omitempty" yaml:"missing_inputs,omitempty"`
	WouldRun       bool     `json:"would_run" yaml:"would_run"`
}

// PipelineRequest configures a pipeline run.
type PipelineRequest struct {
	// Input parameters
	BaseDir string   `json:"base_dir"`
	Stages  []string `json:"stages,omitempty"`

	// Execution control
	ForceRerun  bool `json:"force_rerun"`
	StopOnError bool `json:"stop_on_error"`
	StatusOnly  bool `json:"status_only"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	OutputPath   string       `json:"output_path,omitempty"`
	ShowProgress bool         `json:"show_progress"`
	Verbose      bool         `json:"verbose"`

	// Configuration file
	ConfigPath string `json:"config_path,omitempty"`
}

// Validate validates a pipeline request
func (req *PipelineRequest) Validate() error {
	if req.BaseDir == "" {
		return NewValidationError("base_dir cannot be empty")
	}
	for _, name := range req.Stages {
		if !IsPipelineStageName(name) {
			return NewValidationError("unknown stage: " + name)
		}
	}
	return nil
}

// SelectedStages returns the requested stage subset in canonical order,
// or every stage when none were named.
func (req *PipelineRequest) SelectedStages() []string {
	if len(req.Stages) == 0 {
		return PipelineStageNames()
	}
	requested := make(map[string]bool, len(req.Stages))
	for _, name := range req.Stages {
		requested[name] = true
	}
	selected := make([]string, 0, len(req.Stages))
	for _, name := range PipelineStageNames() {
		if requested[name] {
			selected = append(selected, name)
		}
	}
	return selected
}

// PipelineSummary aggregates stage outcomes for one run.
type PipelineSummary struct {
	TotalStages int `json:"total_stages" yaml:"total_stages"`
	Succeeded   int `json:"succeeded" yaml:"succeeded"`
	Skipped     int `json:"skipped" yaml:"skipped"`
	Failed      int `json:"failed" yaml:"failed"`
	NotRun      int `json:"not_run" yaml:"not_run"`
}

// PipelineResponse carries the outcome of a pipeline run.
type PipelineResponse struct {
	RunID   string          `json:"run_id" yaml:"run_id"`
	Results []StageResult   `json:"results" yaml:"results"`
	Summary PipelineSummary `json:"summary" yaml:"summary"`

	// Metadata
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Duration    int64     `json:"duration_ms" yaml:"duration_ms"`
	Version     string    `json:"version" yaml:"version"`
}

// Failed reports whether any stage failed.
func (resp *PipelineResponse) Failed() bool {
	return resp.Summary.Failed > 0
}

// PipelineStatusResponse carries per-stage eligibility for status queries.
type PipelineStatusResponse struct {
	BaseDir string        `json:"base_dir" yaml:"base_dir"`
	Stages  []StageStatus `json:"stages" yaml:"stages"`
}

// PipelineService defines the interface for pipeline orchestration
type PipelineService interface {
	// Run executes the selected stages against the artifact layout
	Run(ctx context.Context, req *PipelineRequest) (*PipelineResponse, error)

	// Status reports stage eligibility without executing anything
	Status(ctx context.Context, req *PipelineRequest) (*PipelineStatusResponse, error)
}

// PipelineOutputFormatter defines the interface for formatting pipeline results
type PipelineOutputFormatter interface {
	// FormatRunResponse formats a pipeline run response
	FormatRunResponse(response *PipelineResponse, format OutputFormat, writer io.Writer) error

	// FormatStatusResponse formats a pipeline status response
	FormatStatusResponse(response *PipelineStatusResponse, format OutputFormat, writer io.Writer) error
}

// DefaultPipelineRequest returns a default pipeline request
func DefaultPipelineRequest() *PipelineRequest {
	return &PipelineRequest{
		BaseDir:      ".",
		StopOnError:  true,
		OutputFormat: OutputFormatText,
		ShowProgress: true,
	}
}
