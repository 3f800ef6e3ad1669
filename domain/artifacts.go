package domain

import (
	"path/filepath"
	"strings"
)

// Artifact directory names beneath the base directory.
const (
	NormalizedDirName = "normalized"
	TokensDirName     = "tokens"
	ASTDirName        = "ast"
	ClonesDirName     = "clones"
)

// Artifact file names beneath the clones directory.
const (
	HashesFileName       = "t1_t2_hashes.json"
	T1GroupsFileName     = "t1_groups.json"
	T2GroupsFileName     = "t2_groups.json"
	T1PairsFileName      = "t1_pairs.csv"
	T2PairsFileName      = "t2_pairs.csv"
	T3SimilarityFileName = "t3_similarity.json"
	T3PairsFileName      = "t3_pairs.csv"
	T3StatisticsFileName = "t3_statistics.json"
	PipelineReportName   = "pipeline_report.json"
)

// ArtifactLayout computes every artifact path beneath one base directory.
// It performs no I/O; presence checks belong to the callers.
type ArtifactLayout struct {
	BaseDir string
}

// NewArtifactLayout returns a layout rooted at baseDir.
func NewArtifactLayout(baseDir string) *ArtifactLayout {
	return &ArtifactLayout{BaseDir: baseDir}
}

// NormalizedDir returns the root of the normalized source tree.
func (l *ArtifactLayout) NormalizedDir() string {
	return filepath.Join(l.BaseDir, NormalizedDirName)
}

// TokensDir returns the root of the token stream tree.
func (l *ArtifactLayout) TokensDir() string {
	return filepath.Join(l.BaseDir, TokensDirName)
}

// ASTDir returns the root of the AST tree.
func (l *ArtifactLayout) ASTDir() string {
	return filepath.Join(l.BaseDir, ASTDirName)
}

// ClonesDir returns the detection output directory.
func (l *ArtifactLayout) ClonesDir() string {
	return filepath.Join(l.BaseDir, ClonesDirName)
}

// NormalizedFile returns the normalized source path for one submission.
// The extension is supplied without a leading dot by internal/lang.
func (l *ArtifactLayout) NormalizedFile(problemID, submissionID, ext string) string {
	name := submissionID
	if ext != "" {
		name += "." + strings.TrimPrefix(ext, ".")
	}
	return filepath.Join(l.NormalizedDir(), problemID, submissionID, name)
}

// TokenFile returns the token stream path for one submission.
func (l *ArtifactLayout) TokenFile(problemID, submissionID string) string {
	return filepath.Join(l.TokensDir(), problemID, submissionID+".json")
}

// ASTFile returns the AST path for one submission.
func (l *ArtifactLayout) ASTFile(problemID, submissionID string) string {
	return filepath.Join(l.ASTDir(), problemID, submissionID+".json")
}

// HashesFile returns the t1/t2 hash map artifact path.
func (l *ArtifactLayout) HashesFile() string {
	return filepath.Join(l.ClonesDir(), HashesFileName)
}

// T1GroupsFile returns the Type-1 group artifact path.
func (l *ArtifactLayout) T1GroupsFile() string {
	return filepath.Join(l.ClonesDir(), T1GroupsFileName)
}

// T2GroupsFile returns the Type-2 group artifact path.
func (l *ArtifactLayout) T2GroupsFile() string {
	return filepath.Join(l.ClonesDir(), T2GroupsFileName)
}

// T1PairsFile returns the Type-1 pair CSV path.
func (l *ArtifactLayout) T1PairsFile() string {
	return filepath.Join(l.ClonesDir(), T1PairsFileName)
}

// T2PairsFile returns the Type-2 pair CSV path.
func (l *ArtifactLayout) T2PairsFile() string {
	return filepath.Join(l.ClonesDir(), T2PairsFileName)
}

// T3SimilarityFile returns the pairwise similarity artifact path.
func (l *ArtifactLayout) T3SimilarityFile() string {
	return filepath.Join(l.ClonesDir(), T3SimilarityFileName)
}

// T3PairsFile returns the Type-3 pair CSV path.
func (l *ArtifactLayout) T3PairsFile() string {
	return filepath.Join(l.ClonesDir(), T3PairsFileName)
}

// T3StatisticsFile returns the Type-3 run statistics path.
func (l *ArtifactLayout) T3StatisticsFile() string {
	return filepath.Join(l.ClonesDir(), T3StatisticsFileName)
}

// PipelineReportFile returns the orchestrator run report path.
func (l *ArtifactLayout) PipelineReportFile() string {
	return filepath.Join(l.BaseDir, PipelineReportName)
}

// FileID joins problem and submission into the corpus-wide identifier.
// The forward slash is part of the identifier, not a filesystem path.
func FileID(problemID, submissionID string) string {
	return problemID + "/" + submissionID
}

// SplitFileID splits a file identifier back into its parts. The second
// return is false when the identifier has no separator.
func SplitFileID(fileID string) (problemID, submissionID string, ok bool) {
	i := strings.LastIndex(fileID, "/")
	if i < 0 {
		return "", fileID, false
	}
	return fileID[:i], fileID[i+1:], true
}
