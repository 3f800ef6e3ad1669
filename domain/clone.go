package domain

import (
	"context"
	"fmt"
	"io"

	"github.com/clonesieve/clonesieve/internal/constants"
)

// CloneType represents different types of code clones
type CloneType int

const (
	// Type1Clone - Identical normalized source (whitespace, layout and comments erased upstream)
	Type1Clone CloneType = iota + 1
	// Type2Clone - Identical canonical structure with renamed identifiers/literals
	Type2Clone
	// Type3Clone - Structurally similar with statement-level modifications
	Type3Clone
	// Type4Clone - Functionally similar but syntactically different (external detector)
	Type4Clone
)

// String returns string representation of CloneType
func (ct CloneType) String() string {
	switch ct {
	case Type1Clone:
		return "Type-1"
	case Type2Clone:
		return "Type-2"
	case Type3Clone:
		return "Type-3"
	case Type4Clone:
		return "Type-4"
	default:
		return "Unknown"
	}
}

// SubmissionFile identifies one submission and the artifact paths derived
// from it by the upstream stages.
type SubmissionFile struct {
	FileID       string `json:"file_id" yaml:"file_id"`
	ProblemID    string `json:"problem_id" yaml:"problem_id"`
	SubmissionID string `json:"submission_id" yaml:"submission_id"`
	Language     string `json:"language" yaml:"language"`
	SourcePath   string `json:"source_path" yaml:"source_path"`
	TokenPath    string `json:"token_path" yaml:"token_path"`
	ASTPath      string `json:"ast_path" yaml:"ast_path"`
}

// String returns string representation of SubmissionFile
func (sf *SubmissionFile) String() string {
	return fmt.Sprintf("Submission{%s, lang: %s}", sf.FileID, sf.Language)
}

// HashRecord carries the two content digests of one submission.
type HashRecord struct {
	T1Hash string `json:"t1_hash" yaml:"t1_hash"`
	T2Hash string `json:"t2_hash" yaml:"t2_hash"`
}

// CloneGroups maps a content hash to the file IDs sharing it. Only groups
// with at least two members are ever stored; a lone file has no clone.
type CloneGroups map[string][]string

// PairCount returns the total number of pairs the groups expand to.
func (cg CloneGroups) PairCount() int {
	total := 0
	for _, members := range cg {
		n := len(members)
		total += n * (n - 1) / 2
	}
	return total
}

// Members returns the set of file IDs appearing in any group.
func (cg CloneGroups) Members() map[string]bool {
	set := make(map[string]bool)
	for _, members := range cg {
		for _, id := range members {
			set[id] = true
		}
	}
	return set
}

// ClonePair represents a pair of clone files in canonical order,
// FileID1 < FileID2 lexicographically, never reversed or duplicated.
type ClonePair struct {
	FileID1    string    `json:"file_id1" yaml:"file_id1" csv:"file_id1"`
	FileID2    string    `json:"file_id2" yaml:"file_id2" csv:"file_id2"`
	Similarity float64   `json:"similarity,omitempty" yaml:"similarity,omitempty" csv:"similarity"`
	Type       CloneType `json:"type,omitempty" yaml:"type,omitempty" csv:"type"`
}

// NewClonePair builds a canonically ordered pair.
func NewClonePair(a, b string) *ClonePair {
	if b < a {
		a, b = b, a
	}
	return &ClonePair{FileID1: a, FileID2: b}
}

// Key returns the "fileA|fileB" key used in the similarity artifact.
func (cp *ClonePair) Key() string {
	return cp.FileID1 + "|" + cp.FileID2
}

// String returns string representation of ClonePair
func (cp *ClonePair) String() string {
	return fmt.Sprintf("%s clone: %s <-> %s (similarity: %.4f)",
		cp.Type.String(), cp.FileID1, cp.FileID2, cp.Similarity)
}

// T1T2Request configures hash-based Type-1/Type-2 detection.
type T1T2Request struct {
	// Input parameters
	BaseDir         string   `json:"base_dir"`
	Languages       []string `json:"languages"`
	IncludePatterns []string `json:"include_patterns"`
	ExcludePatterns []string `json:"exclude_patterns"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	OutputPath   string       `json:"output_path,omitempty"`
	ShowProgress bool         `json:"show_progress"`
	Verbose      bool         `json:"verbose"`

	// Configuration file
	ConfigPath string `json:"config_path,omitempty"`
}

// Validate validates a T1/T2 detection request
func (req *T1T2Request) Validate() error {
	if req.BaseDir == "" {
		return NewValidationError("base_dir cannot be empty")
	}
	return nil
}

// T1T2Response carries hash detection results and their audit counts.
type T1T2Response struct {
	Hashes   map[string]HashRecord `json:"hashes" yaml:"hashes"`
	T1Groups CloneGroups           `json:"t1_groups" yaml:"t1_groups"`
	T2Groups CloneGroups           `json:"t2_groups" yaml:"t2_groups"`
	T1Pairs  []*ClonePair          `json:"t1_pairs" yaml:"t1_pairs"`
	T2Pairs  []*ClonePair          `json:"t2_pairs" yaml:"t2_pairs"`

	FilesProcessed int            `json:"files_processed" yaml:"files_processed"`
	FilesSkipped   int            `json:"files_skipped" yaml:"files_skipped"`
	SkipReasons    map[string]int `json:"skip_reasons,omitempty" yaml:"skip_reasons,omitempty"`
	GeneratedFiles []string       `json:"generated_files,omitempty" yaml:"generated_files,omitempty"`
	Duration       int64          `json:"duration_ms" yaml:"duration_ms"`
}

// T3Request configures structural Type-3 detection.
type T3Request struct {
	// Input parameters
	BaseDir string `json:"base_dir"`

	// Candidate filtering
	SimilarityThreshold float64 `json:"similarity_threshold"`
	MaxSizeRatio        float64 `json:"max_size_ratio"`
	GroupByProblem      bool    `json:"group_by_problem"`

	// Edit operation costs
	InsertCost float64 `json:"insert_cost"`
	DeleteCost float64 `json:"delete_cost"`
	RenameCost float64 `json:"rename_cost"`

	// Execution
	Workers      int `json:"workers"`
	BatchSize    int `json:"batch_size"`
	ASTCacheSize int `json:"ast_cache_size"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	OutputPath   string       `json:"output_path,omitempty"`
	ShowProgress bool         `json:"show_progress"`
	Verbose      bool         `json:"verbose"`

	// Configuration file
	ConfigPath string `json:"config_path,omitempty"`
}

// Validate validates a T3 detection request
func (req *T3Request) Validate() error {
	if req.BaseDir == "" {
		return NewValidationError("base_dir cannot be empty")
	}
	if req.SimilarityThreshold < 0.0 || req.SimilarityThreshold > 1.0 {
		return NewValidationError("similarity_threshold must be between 0.0 and 1.0")
	}
	if req.MaxSizeRatio < 0.0 {
		return NewValidationError("max_size_ratio must be >= 0.0 (0 disables the cutoff)")
	}
	if req.InsertCost < 0.0 || req.DeleteCost < 0.0 || req.RenameCost < 0.0 {
		return NewValidationError("edit costs must be >= 0.0")
	}
	if req.Workers < 0 {
		return NewValidationError("workers must be >= 0 (0 selects the CPU count)")
	}
	if req.BatchSize < 1 {
		return NewValidationError("batch_size must be >= 1")
	}
	if req.ASTCacheSize < 1 {
		return NewValidationError("ast_cache_size must be >= 1")
	}
	return nil
}

// T3Response carries structural detection results.
type T3Response struct {
	Pairs        []*ClonePair       `json:"pairs" yaml:"pairs"`
	Similarities map[string]float64 `json:"similarities" yaml:"similarities"`
	Statistics   *T3Statistics      `json:"statistics" yaml:"statistics"`

	GeneratedFiles []string `json:"generated_files,omitempty" yaml:"generated_files,omitempty"`
	Duration       int64    `json:"duration_ms" yaml:"duration_ms"`
}

// T3Statistics reports what the driver did, plus the configuration that
// produced it so a dataset consumer can audit every run.
type T3Statistics struct {
	RunID             string       `json:"run_id" yaml:"run_id"`
	TotalFiles        int          `json:"total_files" yaml:"total_files"`
	ExcludedFiles     int          `json:"excluded_files" yaml:"excluded_files"`
	ConsideredPairs   int          `json:"considered_pairs" yaml:"considered_pairs"`
	SkippedSizeRatio  int          `json:"skipped_size_ratio" yaml:"skipped_size_ratio"`
	CandidatePairs    int          `json:"candidate_pairs" yaml:"candidate_pairs"`
	ScoredPairs       int          `json:"scored_pairs" yaml:"scored_pairs"`
	FailedPairs       int          `json:"failed_pairs" yaml:"failed_pairs"`
	ClonePairs        int          `json:"clone_pairs" yaml:"clone_pairs"`
	AverageSimilarity float64      `json:"average_similarity" yaml:"average_similarity"`
	Config            T3ConfigEcho `json:"config" yaml:"config"`
}

// T3ConfigEcho is the configuration snapshot embedded in the statistics
// artifact.
type T3ConfigEcho struct {
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`
	MaxSizeRatio        float64 `json:"max_size_ratio" yaml:"max_size_ratio"`
	GroupByProblem      bool    `json:"group_by_problem" yaml:"group_by_problem"`
	InsertCost          float64 `json:"insert_cost" yaml:"insert_cost"`
	DeleteCost          float64 `json:"delete_cost" yaml:"delete_cost"`
	RenameCost          float64 `json:"rename_cost" yaml:"rename_cost"`
	Workers             int     `json:"workers" yaml:"workers"`
	BatchSize           int     `json:"batch_size" yaml:"batch_size"`
	ASTCacheSize        int     `json:"ast_cache_size" yaml:"ast_cache_size"`
}

// T1T2Service defines the interface for hash-based detection
type T1T2Service interface {
	// Detect computes hashes, groups and pairs for the whole corpus
	Detect(ctx context.Context, req *T1T2Request) (*T1T2Response, error)
}

// T3Service defines the interface for structural detection
type T3Service interface {
	// Detect filters candidates, scores them and labels Type-3 clones
	Detect(ctx context.Context, req *T3Request) (*T3Response, error)

	// ComputeSimilarity scores a single pair of AST artifacts by path
	ComputeSimilarity(ctx context.Context, astPath1, astPath2 string, req *T3Request) (float64, error)
}

// CorpusReader discovers submissions beneath the artifact layout
type CorpusReader interface {
	// DiscoverSubmissions walks the normalized tree and builds submission
	// records in deterministic order
	DiscoverSubmissions(baseDir string, languages []string, includePatterns, excludePatterns []string) ([]*SubmissionFile, error)
}

// DetectOutputFormatter defines the interface for formatting detection results
type DetectOutputFormatter interface {
	// FormatT1T2Response formats a hash detection response
	FormatT1T2Response(response *T1T2Response, format OutputFormat, writer io.Writer) error

	// FormatT3Response formats a structural detection response
	FormatT3Response(response *T3Response, format OutputFormat, writer io.Writer) error
}

// DetectConfigurationLoader defines the interface for loading detection configuration
type DetectConfigurationLoader interface {
	// LoadT1T2Config loads hash detection configuration from file
	LoadT1T2Config(configPath string) (*T1T2Request, error)

	// LoadT3Config loads structural detection configuration from file
	LoadT3Config(configPath string) (*T3Request, error)

	// LoadPipelineConfig loads orchestrator configuration from file
	LoadPipelineConfig(configPath string) (*PipelineRequest, error)
}

// DefaultT1T2Request returns a default hash detection request
func DefaultT1T2Request() *T1T2Request {
	return &T1T2Request{
		BaseDir:      ".",
		OutputFormat: OutputFormatText,
		ShowProgress: true,
	}
}

// DefaultT3Request returns a default structural detection request
func DefaultT3Request() *T3Request {
	return &T3Request{
		BaseDir:             ".",
		SimilarityThreshold: constants.DefaultT3SimilarityThreshold,
		MaxSizeRatio:        constants.DefaultMaxSizeRatio,
		GroupByProblem:      true,
		InsertCost:          constants.DefaultInsertCost,
		DeleteCost:          constants.DefaultDeleteCost,
		RenameCost:          constants.DefaultRenameCost,
		Workers:             0,
		BatchSize:           constants.DefaultBatchSize,
		ASTCacheSize:        constants.DefaultASTCacheSize,
		OutputFormat:        OutputFormatText,
		ShowProgress:        true,
	}
}
