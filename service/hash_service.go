package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/clonesieve/clonesieve/domain"
	"github.com/clonesieve/clonesieve/internal/analyzer"
	"github.com/clonesieve/clonesieve/internal/parser"
)

// Skip reason keys reported in the detection response. Every recovered
// per-file failure lands under exactly one of these so the dataset audit
// trail accounts for the whole corpus.
const (
	SkipReasonMissingSource = "missing_source"
	SkipReasonMissingTokens = "missing_tokens"
	SkipReasonBadTokens     = "bad_tokens"
)

// HashService implements the domain.T1T2Service interface.
type HashService struct {
	corpus   domain.CorpusReader
	progress domain.ProgressManager
}

// NewHashService creates a new hash detection service.
// Both collaborators can be nil: the corpus reader falls back to the
// default implementation and progress reporting is simply disabled.
func NewHashService(corpus domain.CorpusReader, progress domain.ProgressManager) *HashService {
	if corpus == nil {
		corpus = NewCorpusReader()
	}
	return &HashService{corpus: corpus, progress: progress}
}

// Detect computes T1/T2 hashes for every discovered submission, groups
// identical digests, expands groups into pairs and writes the artifacts.
func (s *HashService) Detect(ctx context.Context, req *domain.T1T2Request) (*domain.T1T2Response, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("detection request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detection request: %w", err)
	}

	startTime := time.Now()

	files, err := s.corpus.DiscoverSubmissions(req.BaseDir, req.Languages, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	showProgress := s.progress != nil && req.ShowProgress
	if showProgress {
		s.progress.Initialize(len(files))
		s.progress.Start()
		defer s.progress.Close()
	}

	hashes := make(map[string]domain.HashRecord, len(files))
	t1ByFile := make(map[string]string, len(files))
	t2ByFile := make(map[string]string, len(files))
	skipReasons := make(map[string]int)

	for i, file := range files {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("hash detection cancelled: %w", ctx.Err())
		default:
		}

		source, err := os.ReadFile(file.SourcePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", domain.NewHashComputeError(file.FileID, err))
			skipReasons[SkipReasonMissingSource]++
			continue
		}

		tokens, err := parser.LoadTokenFile(file.TokenPath)
		if err != nil {
			reason := SkipReasonBadTokens
			if errors.Is(err, os.ErrNotExist) {
				reason = SkipReasonMissingTokens
			}
			fmt.Fprintf(os.Stderr, "Warning: %v\n", domain.NewHashComputeError(file.FileID, err))
			skipReasons[reason]++
			continue
		}

		pair := analyzer.ComputeHashPair(source, tokens)
		hashes[file.FileID] = domain.HashRecord{T1Hash: pair.T1Hash, T2Hash: pair.T2Hash}
		t1ByFile[file.FileID] = pair.T1Hash
		t2ByFile[file.FileID] = pair.T2Hash

		if showProgress {
			s.progress.Update(i+1, len(files))
		}
	}

	t1Groups := domain.CloneGroups(analyzer.GroupByHash(t1ByFile))
	t2Groups := domain.CloneGroups(analyzer.GroupByHash(t2ByFile))

	skipped := 0
	for _, count := range skipReasons {
		skipped += count
	}

	resp := &domain.T1T2Response{
		Hashes:         hashes,
		T1Groups:       t1Groups,
		T2Groups:       t2Groups,
		T1Pairs:        clonePairsFromFilePairs(analyzer.PairsFromGroups(t1Groups), domain.Type1Clone),
		T2Pairs:        clonePairsFromFilePairs(analyzer.PairsFromGroups(t2Groups), domain.Type2Clone),
		FilesProcessed: len(hashes),
		FilesSkipped:   skipped,
		SkipReasons:    skipReasons,
	}

	generated, err := s.writeArtifacts(req.BaseDir, resp)
	if err != nil {
		return nil, err
	}
	resp.GeneratedFiles = generated
	resp.Duration = time.Since(startTime).Milliseconds()

	if showProgress {
		s.progress.Complete(true)
	}
	return resp, nil
}

// writeArtifacts persists the five hash detection artifacts and returns
// their paths in a stable order.
func (s *HashService) writeArtifacts(baseDir string, resp *domain.T1T2Response) ([]string, error) {
	store := NewArtifactStore(baseDir)
	if err := store.EnsureClonesDir(); err != nil {
		return nil, err
	}

	var generated []string

	path, err := store.WriteHashes(resp.Hashes)
	if err != nil {
		return nil, err
	}
	generated = append(generated, path)

	if path, err = store.WriteT1Groups(resp.T1Groups); err != nil {
		return nil, err
	}
	generated = append(generated, path)

	if path, err = store.WriteT2Groups(resp.T2Groups); err != nil {
		return nil, err
	}
	generated = append(generated, path)

	if path, err = store.WriteT1Pairs(resp.T1Pairs); err != nil {
		return nil, err
	}
	generated = append(generated, path)

	if path, err = store.WriteT2Pairs(resp.T2Pairs); err != nil {
		return nil, err
	}
	generated = append(generated, path)

	return generated, nil
}

// clonePairsFromFilePairs converts analyzer pairs into labeled domain pairs.
func clonePairsFromFilePairs(pairs []analyzer.FilePair, cloneType domain.CloneType) []*domain.ClonePair {
	out := make([]*domain.ClonePair, 0, len(pairs))
	for _, pair := range pairs {
		out = append(out, &domain.ClonePair{
			FileID1: pair.File1,
			FileID2: pair.File2,
			Type:    cloneType,
		})
	}
	return out
}
