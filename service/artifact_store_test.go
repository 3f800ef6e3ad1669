package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clonesieve/clonesieve/domain"
)

func TestArtifactStoreHashesRoundTrip(t *testing.T) {
	store := NewArtifactStore(t.TempDir())
	require.NoError(t, store.EnsureClonesDir())

	hashes := map[string]domain.HashRecord{
		"p1/s1": {T1Hash: "aaa", T2Hash: "bbb"},
		"p1/s2": {T1Hash: "aaa", T2Hash: "bbb"},
		"p2/s3": {T1Hash: "ccc", T2Hash: "ddd"},
	}

	path, err := store.WriteHashes(hashes)
	require.NoError(t, err)
	assert.Equal(t, store.Layout().HashesFile(), path)

	got, err := store.ReadHashes()
	require.NoError(t, err)
	assert.Equal(t, hashes, got)
}

func TestArtifactStoreHashesDeterministicBytes(t *testing.T) {
	hashes := map[string]domain.HashRecord{
		"p1/s2": {T1Hash: "x", T2Hash: "y"},
		"p1/s1": {T1Hash: "x", T2Hash: "y"},
		"p1/s3": {T1Hash: "z", T2Hash: "w"},
	}

	write := func() []byte {
		store := NewArtifactStore(t.TempDir())
		require.NoError(t, store.EnsureClonesDir())
		path, err := store.WriteHashes(hashes)
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		return data
	}

	first := write()
	second := write()
	assert.Equal(t, first, second)

	// Keys appear in sorted order.
	s1 := strings.Index(string(first), "p1/s1")
	s3 := strings.Index(string(first), "p1/s3")
	assert.Less(t, s1, s3)
}

func TestArtifactStoreGroupsRoundTrip(t *testing.T) {
	store := NewArtifactStore(t.TempDir())
	require.NoError(t, store.EnsureClonesDir())

	groups := domain.CloneGroups{
		"hashA": {"p1/s1", "p1/s2"},
		"hashB": {"p2/s1", "p2/s2", "p2/s3"},
	}

	_, err := store.WriteT1Groups(groups)
	require.NoError(t, err)
	_, err = store.WriteT2Groups(groups)
	require.NoError(t, err)

	t1, err := store.ReadT1Groups()
	require.NoError(t, err)
	assert.Equal(t, groups, t1)

	t2, err := store.ReadT2Groups()
	require.NoError(t, err)
	assert.Equal(t, groups, t2)
}

func TestArtifactStoreReadGroupsMissing(t *testing.T) {
	store := NewArtifactStore(t.TempDir())

	_, err := store.ReadT1Groups()

	assert.Error(t, err)
	assert.True(t, domain.IsMissingInput(err))
}

func TestArtifactStoreReadGroupsMalformed(t *testing.T) {
	store := NewArtifactStore(t.TempDir())
	require.NoError(t, store.EnsureClonesDir())
	require.NoError(t, os.WriteFile(store.Layout().T1GroupsFile(), []byte("{not json"), 0o644))

	_, err := store.ReadT1Groups()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "malformed JSON")
}

func TestArtifactStorePairCSVSortedAndDeduped(t *testing.T) {
	store := NewArtifactStore(t.TempDir())
	require.NoError(t, store.EnsureClonesDir())

	pairs := []*domain.ClonePair{
		{FileID1: "p2/s1", FileID2: "p2/s2", Type: domain.Type1Clone},
		{FileID1: "p1/s1", FileID2: "p1/s2", Type: domain.Type1Clone},
		{FileID1: "p1/s1", FileID2: "p1/s2", Type: domain.Type1Clone},
		{FileID1: "p1/s1", FileID2: "p1/s3", Type: domain.Type1Clone},
	}

	path, err := store.WriteT1Pairs(pairs)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, []string{
		"file1,file2",
		"p1/s1,p1/s2",
		"p1/s1,p1/s3",
		"p2/s1,p2/s2",
	}, lines)
}

func TestArtifactStoreEmptyPairCSV(t *testing.T) {
	store := NewArtifactStore(t.TempDir())
	require.NoError(t, store.EnsureClonesDir())

	path, err := store.WriteT2Pairs(nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file1,file2\n", string(data))
}

func TestArtifactStoreT3PairsPreservesOrder(t *testing.T) {
	store := NewArtifactStore(t.TempDir())
	require.NoError(t, store.EnsureClonesDir())

	pairs := []*domain.ClonePair{
		{FileID1: "p1/s3", FileID2: "p1/s4", Similarity: 0.9513, Type: domain.Type3Clone},
		{FileID1: "p1/s1", FileID2: "p1/s9", Similarity: 0.8, Type: domain.Type3Clone},
		{FileID1: "p2/s1", FileID2: "p3/s1", Similarity: 0.75, Type: domain.Type3Clone},
	}

	path, err := store.WriteT3Pairs(pairs)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, []string{
		"file_id1,file_id2,similarity,problem_id1,problem_id2",
		"p1/s3,p1/s4,0.9513,p1,p1",
		"p1/s1,p1/s9,0.8000,p1,p1",
		"p2/s1,p3/s1,0.7500,p2,p3",
	}, lines)
}

func TestArtifactStoreSimilarities(t *testing.T) {
	store := NewArtifactStore(t.TempDir())
	require.NoError(t, store.EnsureClonesDir())

	similarities := map[string]float64{
		"p1/s1|p1/s2": 0.92,
		"p1/s1|p1/s3": 0.4,
	}

	path, err := store.WriteSimilarities(similarities)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]float64
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, similarities, got)
}

func TestArtifactStorePipelineReport(t *testing.T) {
	baseDir := t.TempDir()
	store := NewArtifactStore(baseDir)

	resp := &domain.PipelineResponse{
		RunID: "run-1",
		Results: []domain.StageResult{
			{Name: domain.StageT1T2, State: domain.StageSucceeded, Duration: 12},
		},
		Summary: domain.PipelineSummary{TotalStages: 1, Succeeded: 1},
	}

	path, err := store.WritePipelineReport(resp)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(baseDir, "pipeline_report.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id": "run-1"`)
	assert.Contains(t, string(data), `"state": "succeeded"`)
}
