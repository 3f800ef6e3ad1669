package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/clonesieve/clonesieve/domain"
)

// DetectFormatter implements the domain.DetectOutputFormatter interface
type DetectFormatter struct{}

// NewDetectFormatter creates a new detection output formatter
func NewDetectFormatter() *DetectFormatter {
	return &DetectFormatter{}
}

// FormatT1T2Response formats a hash detection response according to the specified format
func (f *DetectFormatter) FormatT1T2Response(response *domain.T1T2Response, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		return f.formatT1T2AsText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.formatT1T2AsCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// FormatT3Response formats a structural detection response according to the specified format
func (f *DetectFormatter) FormatT3Response(response *domain.T3Response, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		return f.formatT3AsText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.formatT3AsCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// formatT1T2AsText formats the hash detection response as human-readable text
func (f *DetectFormatter) formatT1T2AsText(response *domain.T1T2Response, writer io.Writer) error {
	fmt.Fprintf(writer, "Hash Clone Detection Results\n")
	fmt.Fprintf(writer, "============================\n\n")

	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Files processed: %d\n", response.FilesProcessed)
	fmt.Fprintf(writer, "  Files skipped: %d\n", response.FilesSkipped)
	for _, reason := range sortedKeys(response.SkipReasons) {
		fmt.Fprintf(writer, "    %s: %d\n", reason, response.SkipReasons[reason])
	}
	fmt.Fprintf(writer, "  Type-1 groups: %d (%d pairs)\n", len(response.T1Groups), len(response.T1Pairs))
	fmt.Fprintf(writer, "  Type-2 groups: %d (%d pairs)\n", len(response.T2Groups), len(response.T2Pairs))
	fmt.Fprintf(writer, "  Detection duration: %dms\n\n", response.Duration)

	if len(response.T1Groups) == 0 && len(response.T2Groups) == 0 {
		fmt.Fprintf(writer, "No hash clones detected.\n")
		return nil
	}

	f.writeGroupsAsText(writer, "Type-1 Groups", response.T1Groups)
	f.writeGroupsAsText(writer, "Type-2 Groups", response.T2Groups)

	if len(response.GeneratedFiles) > 0 {
		fmt.Fprintf(writer, "Generated files:\n")
		for _, path := range response.GeneratedFiles {
			fmt.Fprintf(writer, "  %s\n", path)
		}
	}

	return nil
}

// writeGroupsAsText prints one group section with hashes in sorted order
func (f *DetectFormatter) writeGroupsAsText(writer io.Writer, title string, groups domain.CloneGroups) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(writer, "%s:\n", title)
	for i, hash := range sortedKeys(groups) {
		members := groups[hash]
		fmt.Fprintf(writer, "  Group %d (%d files, hash %.12s):\n", i+1, len(members), hash)
		for _, member := range members {
			fmt.Fprintf(writer, "    %s\n", member)
		}
	}
	fmt.Fprintf(writer, "\n")
}

// formatT1T2AsCSV formats the hash detection pairs as CSV
func (f *DetectFormatter) formatT1T2AsCSV(response *domain.T1T2Response, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	defer csvWriter.Flush()

	header := []string{"file_id1", "file_id2", "type"}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, pairs := range [][]*domain.ClonePair{response.T1Pairs, response.T2Pairs} {
		for _, pair := range pairs {
			record := []string{pair.FileID1, pair.FileID2, pair.Type.String()}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	return nil
}

// formatT3AsText formats the structural detection response as human-readable text
func (f *DetectFormatter) formatT3AsText(response *domain.T3Response, writer io.Writer) error {
	fmt.Fprintf(writer, "Structural Clone Detection Results\n")
	fmt.Fprintf(writer, "==================================\n\n")

	if stats := response.Statistics; stats != nil {
		fmt.Fprintf(writer, "Summary:\n")
		fmt.Fprintf(writer, "  Files considered: %d\n", stats.TotalFiles)
		fmt.Fprintf(writer, "  Files excluded (T1/T2 members): %d\n", stats.ExcludedFiles)
		fmt.Fprintf(writer, "  Pairs considered: %d\n", stats.ConsideredPairs)
		fmt.Fprintf(writer, "  Pairs skipped by size ratio: %d\n", stats.SkippedSizeRatio)
		fmt.Fprintf(writer, "  Candidate pairs: %d\n", stats.CandidatePairs)
		fmt.Fprintf(writer, "  Pairs scored: %d\n", stats.ScoredPairs)
		if stats.FailedPairs > 0 {
			fmt.Fprintf(writer, "  Pairs failed: %d\n", stats.FailedPairs)
		}
		fmt.Fprintf(writer, "  Clone pairs found: %d\n", stats.ClonePairs)
		if stats.AverageSimilarity > 0 {
			fmt.Fprintf(writer, "  Average similarity: %.3f\n", stats.AverageSimilarity)
		}
		fmt.Fprintf(writer, "  Similarity threshold: %.2f\n", stats.Config.SimilarityThreshold)
		fmt.Fprintf(writer, "  Detection duration: %dms\n\n", response.Duration)
	}

	if len(response.Pairs) == 0 {
		fmt.Fprintf(writer, "No structural clones detected.\n")
		return nil
	}

	fmt.Fprintf(writer, "Clone Pairs:\n")
	for i, pair := range response.Pairs {
		fmt.Fprintf(writer, "  %d. %s | %s (similarity: %.4f)\n",
			i+1, pair.FileID1, pair.FileID2, pair.Similarity)
	}
	fmt.Fprintf(writer, "\n")

	if len(response.GeneratedFiles) > 0 {
		fmt.Fprintf(writer, "Generated files:\n")
		for _, path := range response.GeneratedFiles {
			fmt.Fprintf(writer, "  %s\n", path)
		}
	}

	return nil
}

// formatT3AsCSV formats the structural clone pairs as CSV. Columns match the
// t3_pairs.csv artifact so the two outputs stay interchangeable.
func (f *DetectFormatter) formatT3AsCSV(response *domain.T3Response, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	defer csvWriter.Flush()

	header := []string{"file_id1", "file_id2", "similarity", "problem_id1", "problem_id2"}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, pair := range response.Pairs {
		problem1, _, _ := domain.SplitFileID(pair.FileID1)
		problem2, _, _ := domain.SplitFileID(pair.FileID2)
		record := []string{
			pair.FileID1,
			pair.FileID2,
			strconv.FormatFloat(pair.Similarity, 'f', 4, 64),
			problem1,
			problem2,
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	return nil
}

// sortedKeys returns the map keys in ascending order for stable output
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
