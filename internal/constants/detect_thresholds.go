package constants

// Detection thresholds and limits for the tiered clone pipeline.
//
// References:
// - Roy, C. K., & Cordy, J. R. (2007). A survey on software clone detection research
// - Bellon, S., et al. (2007). Comparison and evaluation of clone detection tools
const (
	// DefaultT3SimilarityThreshold labels a candidate pair Type-3 when its
	// normalized tree-edit similarity reaches this value. Type-3 clones are
	// copied fragments with statement-level edits; 0.7 keeps recall high
	// while filtering unrelated solutions to the same problem.
	DefaultT3SimilarityThreshold = 0.7

	// DefaultMaxSizeRatio skips candidate pairs whose AST node counts
	// differ by more than this factor before any edit-distance work. A
	// purely performance cutoff: such pairs cannot reach the similarity
	// threshold anyway.
	DefaultMaxSizeRatio = 3.0

	// DefaultASTCacheSize bounds the per-worker parsed-AST cache. Eviction
	// order does not affect results, only re-parse frequency.
	DefaultASTCacheSize = 1000

	// DefaultBatchSize is the number of candidate pairs handed to a worker
	// at a time during Type-3 scoring.
	DefaultBatchSize = 100

	// DefaultInsertCost, DefaultDeleteCost and DefaultRenameCost are the
	// unit edit-operation costs. Equal insert and delete costs keep the
	// distance, and therefore similarity, symmetric.
	DefaultInsertCost = 1.0
	DefaultDeleteCost = 1.0
	DefaultRenameCost = 1.0
)

// CloneTypeNames provides human-readable names for clone types
var CloneTypeNames = map[int]string{
	1: "Type-1 (Identical)",
	2: "Type-2 (Renamed)",
	3: "Type-3 (Near-Miss)",
	4: "Type-4 (Semantic)",
}

// CloneTypeDescriptions provides detailed descriptions for each clone type
var CloneTypeDescriptions = map[int]string{
	1: "Identical normalized source except for whitespace, layout and comments",
	2: "Identical canonical token structure with renamed identifiers or literals",
	3: "Structurally similar trees with changed, added or removed statements",
	4: "Syntactically different but functionally equivalent code",
}
