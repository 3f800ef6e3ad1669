package analyzer

import (
	"sort"
)

// FilePair is an unordered pair of file IDs stored in canonical order,
// File1 < File2 lexicographically.
type FilePair struct {
	File1 string
	File2 string
}

// NewFilePair builds the canonical pair for two distinct file IDs.
func NewFilePair(a, b string) FilePair {
	if b < a {
		a, b = b, a
	}
	return FilePair{File1: a, File2: b}
}

// GroupByHash inverts a fileID->hash map into hash->members, keeping only
// groups with at least two members. Singleton hashes identify nothing: a
// file alone in its group has no clone. Member lists are sorted so group
// contents are reproducible across runs.
func GroupByHash(hashByFile map[string]string) map[string][]string {
	groups := make(map[string][]string)
	for fileID, hash := range hashByFile {
		groups[hash] = append(groups[hash], fileID)
	}
	for hash, members := range groups {
		if len(members) < 2 {
			delete(groups, hash)
			continue
		}
		sort.Strings(members)
	}
	return groups
}

// PairsFromGroups expands every group into all C(n,2) member pairs with
// File1 < File2. Pair count is quadratic in group size; clone clusters are
// small in practice, so the expansion stays tractable. Output is globally
// sorted and free of self-pairs, duplicates, and reversed duplicates.
func PairsFromGroups(groups map[string][]string) []FilePair {
	var pairs []FilePair
	for _, members := range groups {
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				pairs = append(pairs, FilePair{File1: members[i], File2: members[j]})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].File1 != pairs[j].File1 {
			return pairs[i].File1 < pairs[j].File1
		}
		return pairs[i].File2 < pairs[j].File2
	})
	return pairs
}

// MemberSet flattens groups into the set of file IDs that appear in any
// group. The T3 driver uses it to exclude files already classified at a
// stronger tier.
func MemberSet(groups map[string][]string) map[string]bool {
	set := make(map[string]bool)
	for _, members := range groups {
		for _, fileID := range members {
			set[fileID] = true
		}
	}
	return set
}
