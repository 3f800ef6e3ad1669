package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/clonesieve/clonesieve/domain"
)

// ArtifactStore reads and writes the detection artifacts beneath one base
// directory. Every writer produces deterministic bytes: JSON objects rely
// on Go's sorted-key map marshaling and pair CSVs are sorted and
// deduplicated before writing, so re-running a stage on unchanged inputs
// reproduces identical files.
type ArtifactStore struct {
	layout *domain.ArtifactLayout
}

// NewArtifactStore creates a store rooted at baseDir.
func NewArtifactStore(baseDir string) *ArtifactStore {
	return &ArtifactStore{layout: domain.NewArtifactLayout(baseDir)}
}

// Layout exposes the artifact path layout.
func (s *ArtifactStore) Layout() *domain.ArtifactLayout {
	return s.layout
}

// EnsureClonesDir creates the detection output directory.
func (s *ArtifactStore) EnsureClonesDir() error {
	if err := os.MkdirAll(s.layout.ClonesDir(), 0o755); err != nil {
		return domain.NewOutputError("failed to create clones directory", err)
	}
	return nil
}

// WriteHashes writes the file_id -> hash record artifact.
func (s *ArtifactStore) WriteHashes(hashes map[string]domain.HashRecord) (string, error) {
	path := s.layout.HashesFile()
	return path, s.writeJSONFile(path, hashes)
}

// WriteT1Groups writes the Type-1 group artifact.
func (s *ArtifactStore) WriteT1Groups(groups domain.CloneGroups) (string, error) {
	path := s.layout.T1GroupsFile()
	return path, s.writeJSONFile(path, groups)
}

// WriteT2Groups writes the Type-2 group artifact.
func (s *ArtifactStore) WriteT2Groups(groups domain.CloneGroups) (string, error) {
	path := s.layout.T2GroupsFile()
	return path, s.writeJSONFile(path, groups)
}

// WriteT1Pairs writes the Type-1 pair CSV.
func (s *ArtifactStore) WriteT1Pairs(pairs []*domain.ClonePair) (string, error) {
	path := s.layout.T1PairsFile()
	return path, s.writePairCSV(path, pairs)
}

// WriteT2Pairs writes the Type-2 pair CSV.
func (s *ArtifactStore) WriteT2Pairs(pairs []*domain.ClonePair) (string, error) {
	path := s.layout.T2PairsFile()
	return path, s.writePairCSV(path, pairs)
}

// WriteSimilarities writes the pairwise similarity artifact, a JSON object
// keyed "fileA|fileB".
func (s *ArtifactStore) WriteSimilarities(similarities map[string]float64) (string, error) {
	path := s.layout.T3SimilarityFile()
	return path, s.writeJSONFile(path, similarities)
}

// WriteT3Pairs writes the Type-3 pair CSV. Rows keep the caller's order,
// which the driver has already sorted by descending similarity; simply
// sorting here would destroy that ranking.
func (s *ArtifactStore) WriteT3Pairs(pairs []*domain.ClonePair) (string, error) {
	path := s.layout.T3PairsFile()

	f, err := os.Create(path)
	if err != nil {
		return path, domain.NewOutputError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"file_id1", "file_id2", "similarity", "problem_id1", "problem_id2"}); err != nil {
		return path, domain.NewOutputError("failed to write CSV header", err)
	}
	for _, pair := range pairs {
		problem1, _, _ := domain.SplitFileID(pair.FileID1)
		problem2, _, _ := domain.SplitFileID(pair.FileID2)
		row := []string{
			pair.FileID1,
			pair.FileID2,
			strconv.FormatFloat(pair.Similarity, 'f', 4, 64),
			problem1,
			problem2,
		}
		if err := w.Write(row); err != nil {
			return path, domain.NewOutputError("failed to write CSV row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return path, domain.NewOutputError("CSV writer error", err)
	}
	return path, nil
}

// WriteT3Statistics writes the Type-3 run statistics artifact.
func (s *ArtifactStore) WriteT3Statistics(stats *domain.T3Statistics) (string, error) {
	path := s.layout.T3StatisticsFile()
	return path, s.writeJSONFile(path, stats)
}

// WritePipelineReport writes the orchestrator run report.
func (s *ArtifactStore) WritePipelineReport(resp *domain.PipelineResponse) (string, error) {
	path := s.layout.PipelineReportFile()
	return path, s.writeJSONFile(path, resp)
}

// ReadHashes reads the file_id -> hash record artifact.
func (s *ArtifactStore) ReadHashes() (map[string]domain.HashRecord, error) {
	var hashes map[string]domain.HashRecord
	if err := s.readJSONFile(s.layout.HashesFile(), &hashes); err != nil {
		return nil, err
	}
	return hashes, nil
}

// ReadT1Groups reads the Type-1 group artifact.
func (s *ArtifactStore) ReadT1Groups() (domain.CloneGroups, error) {
	return s.readGroups(s.layout.T1GroupsFile())
}

// ReadT2Groups reads the Type-2 group artifact.
func (s *ArtifactStore) ReadT2Groups() (domain.CloneGroups, error) {
	return s.readGroups(s.layout.T2GroupsFile())
}

func (s *ArtifactStore) readGroups(path string) (domain.CloneGroups, error) {
	var groups domain.CloneGroups
	if err := s.readJSONFile(path, &groups); err != nil {
		return nil, err
	}
	if groups == nil {
		groups = domain.CloneGroups{}
	}
	return groups, nil
}

func (s *ArtifactStore) writeJSONFile(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()
	return WriteJSON(f, v)
}

func (s *ArtifactStore) readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewMissingInputError(path, err)
		}
		return domain.NewInvalidInputError(fmt.Sprintf("cannot read %s", path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return domain.NewInvalidInputError(fmt.Sprintf("malformed JSON in %s", path), err)
	}
	return nil
}

// writePairCSV writes a two-column pair CSV with header file1,file2.
// Rows are sorted and deduplicated regardless of input order.
func (s *ArtifactStore) writePairCSV(path string, pairs []*domain.ClonePair) error {
	rows := make([][2]string, 0, len(pairs))
	for _, pair := range pairs {
		rows = append(rows, [2]string{pair.FileID1, pair.FileID2})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i][0] != rows[j][0] {
			return rows[i][0] < rows[j][0]
		}
		return rows[i][1] < rows[j][1]
	})

	f, err := os.Create(path)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"file1", "file2"}); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}
	var prev [2]string
	for i, row := range rows {
		if i > 0 && row == prev {
			continue
		}
		prev = row
		if err := w.Write([]string{row[0], row[1]}); err != nil {
			return domain.NewOutputError("failed to write CSV row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return domain.NewOutputError("CSV writer error", err)
	}
	return nil
}
