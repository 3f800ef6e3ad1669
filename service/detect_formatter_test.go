package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/clonesieve/clonesieve/domain"
)

func createTestT1T2Response() *domain.T1T2Response {
	return &domain.T1T2Response{
		Hashes: map[string]domain.HashRecord{
			"p1/s1": {T1Hash: "aaaa1111", T2Hash: "bbbb2222"},
			"p1/s2": {T1Hash: "aaaa1111", T2Hash: "bbbb2222"},
			"p1/s3": {T1Hash: "cccc3333", T2Hash: "bbbb2222"},
		},
		T1Groups: domain.CloneGroups{
			"aaaa1111": {"p1/s1", "p1/s2"},
		},
		T2Groups: domain.CloneGroups{
			"bbbb2222": {"p1/s1", "p1/s2", "p1/s3"},
		},
		T1Pairs: []*domain.ClonePair{
			{FileID1: "p1/s1", FileID2: "p1/s2", Type: domain.Type1Clone},
		},
		T2Pairs: []*domain.ClonePair{
			{FileID1: "p1/s1", FileID2: "p1/s2", Type: domain.Type2Clone},
			{FileID1: "p1/s1", FileID2: "p1/s3", Type: domain.Type2Clone},
			{FileID1: "p1/s2", FileID2: "p1/s3", Type: domain.Type2Clone},
		},
		FilesProcessed: 3,
		FilesSkipped:   1,
		SkipReasons:    map[string]int{SkipReasonBadTokens: 1},
		GeneratedFiles: []string{"/tmp/out/clones/t1_t2_hashes.json"},
		Duration:       120,
	}
}

func createEmptyT1T2Response() *domain.T1T2Response {
	return &domain.T1T2Response{
		Hashes:   map[string]domain.HashRecord{},
		T1Groups: domain.CloneGroups{},
		T2Groups: domain.CloneGroups{},
	}
}

func createTestT3Response() *domain.T3Response {
	return &domain.T3Response{
		Pairs: []*domain.ClonePair{
			{FileID1: "p1/s4", FileID2: "p1/s5", Similarity: 0.9123, Type: domain.Type3Clone},
			{FileID1: "p2/s1", FileID2: "p2/s2", Similarity: 0.75, Type: domain.Type3Clone},
		},
		Similarities: map[string]float64{
			"p1/s4|p1/s5": 0.9123,
			"p2/s1|p2/s2": 0.75,
			"p2/s1|p2/s3": 0.31,
		},
		Statistics: &domain.T3Statistics{
			RunID:             "run-42",
			TotalFiles:        6,
			ExcludedFiles:     1,
			ConsideredPairs:   4,
			CandidatePairs:    3,
			ScoredPairs:       3,
			ClonePairs:        2,
			AverageSimilarity: 0.8312,
			Config: domain.T3ConfigEcho{
				SimilarityThreshold: 0.7,
				MaxSizeRatio:        3.0,
			},
		},
		GeneratedFiles: []string{"/tmp/out/clones/t3_pairs.csv"},
		Duration:       950,
	}
}

func createEmptyT3Response() *domain.T3Response {
	return &domain.T3Response{
		Similarities: map[string]float64{},
		Statistics: &domain.T3Statistics{
			Config: domain.T3ConfigEcho{SimilarityThreshold: 0.7},
		},
	}
}

func TestNewDetectFormatter(t *testing.T) {
	formatter := NewDetectFormatter()
	assert.NotNil(t, formatter)
}

func TestDetectFormatterFormatT1T2Response_Text(t *testing.T) {
	tests := []struct {
		name          string
		response      *domain.T1T2Response
		expectedParts []string
	}{
		{
			name:     "full response with groups",
			response: createTestT1T2Response(),
			expectedParts: []string{
				"Hash Clone Detection Results",
				"Files processed: 3",
				"Files skipped: 1",
				SkipReasonBadTokens + ": 1",
				"Type-1 groups: 1 (1 pairs)",
				"Type-2 groups: 1 (3 pairs)",
				"Type-1 Groups:",
				"Group 1 (2 files, hash aaaa1111)",
				"Group 1 (3 files, hash bbbb2222)",
				"p1/s3",
				"Generated files:",
				"t1_t2_hashes.json",
			},
		},
		{
			name:     "empty response",
			response: createEmptyT1T2Response(),
			expectedParts: []string{
				"Hash Clone Detection Results",
				"No hash clones detected.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewDetectFormatter()
			var buf bytes.Buffer

			err := formatter.FormatT1T2Response(tt.response, domain.OutputFormatText, &buf)
			require.NoError(t, err)

			output := buf.String()
			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part, "expected output to contain: %s", part)
			}
		})
	}
}

func TestDetectFormatterFormatT1T2Response_JSON(t *testing.T) {
	formatter := NewDetectFormatter()
	response := createTestT1T2Response()
	var buf bytes.Buffer

	err := formatter.FormatT1T2Response(response, domain.OutputFormatJSON, &buf)
	require.NoError(t, err)

	var decoded domain.T1T2Response
	err = json.Unmarshal(buf.Bytes(), &decoded)
	require.NoError(t, err)

	assert.Equal(t, response.FilesProcessed, decoded.FilesProcessed)
	assert.Equal(t, response.T2Groups, decoded.T2Groups)
	assert.Len(t, decoded.T2Pairs, 3)
}

func TestDetectFormatterFormatT1T2Response_YAML(t *testing.T) {
	formatter := NewDetectFormatter()
	response := createTestT1T2Response()
	var buf bytes.Buffer

	err := formatter.FormatT1T2Response(response, domain.OutputFormatYAML, &buf)
	require.NoError(t, err)

	var decoded map[string]interface{}
	err = yaml.Unmarshal(buf.Bytes(), &decoded)
	require.NoError(t, err)

	assert.Contains(t, decoded, "t1_groups")
	assert.Contains(t, decoded, "files_processed")
}

func TestDetectFormatterFormatT1T2Response_CSV(t *testing.T) {
	formatter := NewDetectFormatter()
	response := createTestT1T2Response()
	var buf bytes.Buffer

	err := formatter.FormatT1T2Response(response, domain.OutputFormatCSV, &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "file_id1,file_id2,type", lines[0])
	assert.Equal(t, "p1/s1,p1/s2,Type-1", lines[1])
	assert.Equal(t, "p1/s2,p1/s3,Type-2", lines[4])
}

func TestDetectFormatterFormatT1T2Response_UnsupportedFormat(t *testing.T) {
	formatter := NewDetectFormatter()
	var buf bytes.Buffer

	err := formatter.FormatT1T2Response(createTestT1T2Response(), domain.OutputFormat("invalid"), &buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestDetectFormatterFormatT3Response_Text(t *testing.T) {
	tests := []struct {
		name          string
		response      *domain.T3Response
		expectedParts []string
	}{
		{
			name:     "full response with pairs",
			response: createTestT3Response(),
			expectedParts: []string{
				"Structural Clone Detection Results",
				"Files considered: 6",
				"Files excluded (T1/T2 members): 1",
				"Pairs scored: 3",
				"Clone pairs found: 2",
				"Similarity threshold: 0.70",
				"1. p1/s4 | p1/s5 (similarity: 0.9123)",
				"2. p2/s1 | p2/s2 (similarity: 0.7500)",
				"Generated files:",
				"t3_pairs.csv",
			},
		},
		{
			name:     "empty response",
			response: createEmptyT3Response(),
			expectedParts: []string{
				"Structural Clone Detection Results",
				"No structural clones detected.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewDetectFormatter()
			var buf bytes.Buffer

			err := formatter.FormatT3Response(tt.response, domain.OutputFormatText, &buf)
			require.NoError(t, err)

			output := buf.String()
			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part, "expected output to contain: %s", part)
			}
		})
	}
}

func TestDetectFormatterFormatT3Response_JSON(t *testing.T) {
	formatter := NewDetectFormatter()
	response := createTestT3Response()
	var buf bytes.Buffer

	err := formatter.FormatT3Response(response, domain.OutputFormatJSON, &buf)
	require.NoError(t, err)

	var decoded domain.T3Response
	err = json.Unmarshal(buf.Bytes(), &decoded)
	require.NoError(t, err)

	require.NotNil(t, decoded.Statistics)
	assert.Equal(t, "run-42", decoded.Statistics.RunID)
	assert.InDelta(t, 0.31, decoded.Similarities["p2/s1|p2/s3"], 1e-9)
}

func TestDetectFormatterFormatT3Response_YAML(t *testing.T) {
	formatter := NewDetectFormatter()
	response := createTestT3Response()
	var buf bytes.Buffer

	err := formatter.FormatT3Response(response, domain.OutputFormatYAML, &buf)
	require.NoError(t, err)

	var decoded map[string]interface{}
	err = yaml.Unmarshal(buf.Bytes(), &decoded)
	require.NoError(t, err)

	assert.Contains(t, decoded, "pairs")
	assert.Contains(t, decoded, "statistics")
}

func TestDetectFormatterFormatT3Response_CSV(t *testing.T) {
	formatter := NewDetectFormatter()
	response := createTestT3Response()
	var buf bytes.Buffer

	err := formatter.FormatT3Response(response, domain.OutputFormatCSV, &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "file_id1,file_id2,similarity,problem_id1,problem_id2", lines[0])
	assert.Equal(t, "p1/s4,p1/s5,0.9123,p1,p1", lines[1])
	assert.Equal(t, "p2/s1,p2/s2,0.7500,p2,p2", lines[2])
}

func TestDetectFormatterFormatT3Response_UnsupportedFormat(t *testing.T) {
	formatter := NewDetectFormatter()
	var buf bytes.Buffer

	err := formatter.FormatT3Response(createTestT3Response(), domain.OutputFormat("html"), &buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}
