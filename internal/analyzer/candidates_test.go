package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func candidate(fileID, problemID string, nodes int) CandidateInput {
	return CandidateInput{FileID: fileID, ProblemID: problemID, NodeCount: nodes}
}

func TestCandidateFilterGroupsByProblem(t *testing.T) {
	files := []CandidateInput{
		candidate("p1/s1", "p1", 10),
		candidate("p1/s2", "p1", 12),
		candidate("p2/s1", "p2", 10),
		candidate("p2/s2", "p2", 11),
	}

	filter := NewCandidateFilter(true, 3.0, nil)
	pairs, stats := filter.Filter(files)

	assert.Equal(t, []FilePair{
		{"p1/s1", "p1/s2"},
		{"p2/s1", "p2/s2"},
	}, pairs)
	assert.Equal(t, 4, stats.TotalFiles)
	assert.Equal(t, 2, stats.ConsideredPairs, "cross-problem pairs are never enumerated")
	assert.Equal(t, 2, stats.CandidatePairs)
}

func TestCandidateFilterWithoutGrouping(t *testing.T) {
	files := []CandidateInput{
		candidate("p1/s1", "p1", 10),
		candidate("p2/s1", "p2", 10),
		candidate("p3/s1", "p3", 10),
	}

	filter := NewCandidateFilter(false, 3.0, nil)
	pairs, stats := filter.Filter(files)

	assert.Len(t, pairs, 3, "all cross-problem pairs considered when grouping is off")
	assert.Equal(t, 3, stats.ConsideredPairs)
}

func TestCandidateFilterExcludesStrongerTiers(t *testing.T) {
	files := []CandidateInput{
		candidate("p1/s1", "p1", 10),
		candidate("p1/s2", "p1", 10),
		candidate("p1/s3", "p1", 10),
	}
	excluded := map[string]bool{"p1/s2": true}

	filter := NewCandidateFilter(true, 3.0, excluded)
	pairs, stats := filter.Filter(files)

	assert.Equal(t, []FilePair{{"p1/s1", "p1/s3"}}, pairs)
	assert.Equal(t, 1, stats.ExcludedFiles)
	// An excluded file is dropped entirely: no pair with it is even
	// considered.
	assert.Equal(t, 1, stats.ConsideredPairs)
}

func TestCandidateFilterSizeRatio(t *testing.T) {
	tests := []struct {
		name       string
		ratio      float64
		nodes1     int
		nodes2     int
		expectKept bool
	}{
		{"equal sizes", 3.0, 10, 10, true},
		{"just inside cutoff", 3.0, 30, 10, true},
		{"just outside cutoff", 3.0, 31, 10, false},
		{"order independent", 3.0, 10, 31, false},
		{"disabled cutoff keeps everything", 0.0, 1000, 1, true},
		{"one empty tree is skipped", 3.0, 0, 5, false},
		{"both empty trees are kept", 3.0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := []CandidateInput{
				candidate("p1/a", "p1", tt.nodes1),
				candidate("p1/b", "p1", tt.nodes2),
			}
			filter := NewCandidateFilter(true, tt.ratio, nil)
			pairs, stats := filter.Filter(files)

			if tt.expectKept {
				assert.Len(t, pairs, 1)
				assert.Equal(t, 0, stats.SkippedSizeRatio)
			} else {
				assert.Empty(t, pairs)
				assert.Equal(t, 1, stats.SkippedSizeRatio)
			}
		})
	}
}

func TestCandidateFilterDeterministicOrder(t *testing.T) {
	files := []CandidateInput{
		candidate("p2/s2", "p2", 10),
		candidate("p1/s2", "p1", 10),
		candidate("p2/s1", "p2", 10),
		candidate("p1/s1", "p1", 10),
	}

	filter := NewCandidateFilter(true, 3.0, nil)
	first, _ := filter.Filter(files)
	for i := 0; i < 5; i++ {
		again, _ := filter.Filter(files)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, []FilePair{
		{"p1/s1", "p1/s2"},
		{"p2/s1", "p2/s2"},
	}, first)
}

func TestCandidateFilterEmptyInput(t *testing.T) {
	filter := NewCandidateFilter(true, 3.0, nil)
	pairs, stats := filter.Filter(nil)

	assert.Empty(t, pairs)
	assert.Equal(t, CandidateStats{}, stats)
}
