package analyzer

import (
	"sort"
)

// CandidateInput describes one file eligible for structural comparison.
type CandidateInput struct {
	FileID    string
	ProblemID string
	NodeCount int
}

// CandidateStats counts what the filters did, for dataset auditability.
type CandidateStats struct {
	TotalFiles       int `json:"total_files"`
	ExcludedFiles    int `json:"excluded_files"`
	ConsideredPairs  int `json:"considered_pairs"`
	SkippedSizeRatio int `json:"skipped_size_ratio"`
	CandidatePairs   int `json:"candidate_pairs"`
}

// CandidateFilter applies the hard sequential filters that gate the
// edit-distance engine: problem grouping, exclusion of files already
// classified at a stronger tier, and the size-ratio cutoff. Filters are
// all-or-nothing; a pair that fails any of them is never scored.
type CandidateFilter struct {
	// GroupByProblem restricts comparison to files sharing a problem ID.
	GroupByProblem bool

	// MaxSizeRatio skips pairs whose node counts differ by more than this
	// factor. Zero disables the cutoff. This is purely a performance
	// heuristic: grossly different sizes cannot score above threshold
	// anyway, and the alignment DP is expensive on large uneven pairs.
	MaxSizeRatio float64

	// Excluded holds file IDs already present in a T1 or T2 clone group.
	Excluded map[string]bool
}

// NewCandidateFilter builds a filter over the given exclusion set.
func NewCandidateFilter(groupByProblem bool, maxSizeRatio float64, excluded map[string]bool) *CandidateFilter {
	if excluded == nil {
		excluded = map[string]bool{}
	}
	return &CandidateFilter{
		GroupByProblem: groupByProblem,
		MaxSizeRatio:   maxSizeRatio,
		Excluded:       excluded,
	}
}

// Filter enumerates the surviving candidate pairs in lexicographic order
// and reports per-filter counts.
func (f *CandidateFilter) Filter(files []CandidateInput) ([]FilePair, CandidateStats) {
	stats := CandidateStats{TotalFiles: len(files)}

	kept := make([]CandidateInput, 0, len(files))
	for _, file := range files {
		if f.Excluded[file.FileID] {
			stats.ExcludedFiles++
			continue
		}
		kept = append(kept, file)
	}

	buckets := f.bucket(kept)

	var pairs []FilePair
	sizes := make(map[string]int, len(kept))
	for _, file := range kept {
		sizes[file.FileID] = file.NodeCount
	}
	for _, bucket := range buckets {
		sort.Strings(bucket)
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				stats.ConsideredPairs++
				if f.skipBySizeRatio(sizes[bucket[i]], sizes[bucket[j]]) {
					stats.SkippedSizeRatio++
					continue
				}
				pairs = append(pairs, FilePair{File1: bucket[i], File2: bucket[j]})
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].File1 != pairs[j].File1 {
			return pairs[i].File1 < pairs[j].File1
		}
		return pairs[i].File2 < pairs[j].File2
	})
	stats.CandidatePairs = len(pairs)
	return pairs, stats
}

// bucket splits files by grouping key, or returns one bucket covering
// everything when grouping is off.
func (f *CandidateFilter) bucket(files []CandidateInput) [][]string {
	if !f.GroupByProblem {
		all := make([]string, 0, len(files))
		for _, file := range files {
			all = append(all, file.FileID)
		}
		if len(all) == 0 {
			return nil
		}
		return [][]string{all}
	}

	byProblem := make(map[string][]string)
	for _, file := range files {
		byProblem[file.ProblemID] = append(byProblem[file.ProblemID], file.FileID)
	}
	keys := make([]string, 0, len(byProblem))
	for k := range byProblem {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	buckets := make([][]string, 0, len(keys))
	for _, k := range keys {
		buckets = append(buckets, byProblem[k])
	}
	return buckets
}

// skipBySizeRatio reports whether a pair's node counts are too uneven.
// Division keeps the edge semantics honest: two empty trees divide to NaN
// and stay in, one empty side divides to +Inf and is skipped.
func (f *CandidateFilter) skipBySizeRatio(nodes1, nodes2 int) bool {
	if f.MaxSizeRatio <= 0 {
		return false
	}
	larger, smaller := nodes1, nodes2
	if smaller > larger {
		larger, smaller = smaller, larger
	}
	return float64(larger)/float64(smaller) > f.MaxSizeRatio
}
