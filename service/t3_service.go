package service

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clonesieve/clonesieve/domain"
	"github.com/clonesieve/clonesieve/internal/analyzer"
	"github.com/clonesieve/clonesieve/internal/parser"
)

// T3ServiceImpl implements the domain.T3Service interface.
type T3ServiceImpl struct {
	corpus   domain.CorpusReader
	progress domain.ProgressManager
}

// NewT3Service creates a new structural detection service.
// Both collaborators can be nil, mirroring NewHashService.
func NewT3Service(corpus domain.CorpusReader, progress domain.ProgressManager) *T3ServiceImpl {
	if corpus == nil {
		corpus = NewCorpusReader()
	}
	return &T3ServiceImpl{corpus: corpus, progress: progress}
}

// scoredPair is one worker result: either a similarity or the error that
// prevented scoring.
type scoredPair struct {
	pair       analyzer.FilePair
	similarity float64
	err        error
}

// Detect filters candidate pairs, scores the survivors with the
// edit-distance engine and writes the Type-3 artifacts.
//
// Scoring fans out to a fixed worker pool in batches. Each worker owns its
// AST cache, so there is no cross-worker locking; determinism comes from
// the post-hoc sort over the fully merged result set, not from scheduling.
func (s *T3ServiceImpl) Detect(ctx context.Context, req *domain.T3Request) (*domain.T3Response, error) {
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
	store := NewArtifactStore(req.BaseDir)

	files, err := s.corpus.DiscoverSubmissions(req.BaseDir, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	excluded, err := s.loadExclusions(store)
	if err != nil {
		return nil, err
	}

	inputs := s.collectCandidateInputs(files, excluded)

	filter := analyzer.NewCandidateFilter(req.GroupByProblem, req.MaxSizeRatio, excluded)
	pairs, filterStats := filter.Filter(inputs)

	astPaths := make(map[string]string, len(files))
	for _, file := range files {
		astPaths[file.FileID] = file.ASTPath
	}

	showProgress := s.progress != nil && req.ShowProgress
	if showProgress {
		s.progress.Initialize(len(pairs))
		s.progress.Start()
		defer s.progress.Close()
	}

	scores, failedPairs, err := s.scorePairs(ctx, req, pairs, astPaths, showProgress)
	if err != nil {
		return nil, err
	}

	similarities := make(map[string]float64, len(scores))
	var clonePairs []*domain.ClonePair
	for _, sc := range scores {
		similarities[sc.pair.File1+"|"+sc.pair.File2] = sc.similarity
		if sc.similarity >= req.SimilarityThreshold {
			clonePairs = append(clonePairs, &domain.ClonePair{
				FileID1:    sc.pair.File1,
				FileID2:    sc.pair.File2,
				Similarity: sc.similarity,
				Type:       domain.Type3Clone,
			})
		}
	}

	// Highest similarity first; the file-ID tiebreak keeps equal scores in
	// one reproducible order.
	sort.Slice(clonePairs, func(i, j int) bool {
		if clonePairs[i].Similarity != clonePairs[j].Similarity {
			return clonePairs[i].Similarity > clonePairs[j].Similarity
		}
		if clonePairs[i].FileID1 != clonePairs[j].FileID1 {
			return clonePairs[i].FileID1 < clonePairs[j].FileID1
		}
		return clonePairs[i].FileID2 < clonePairs[j].FileID2
	})

	stats := &domain.T3Statistics{
		RunID:            uuid.NewString(),
		TotalFiles:       len(files),
		ExcludedFiles:    filterStats.ExcludedFiles,
		ConsideredPairs:  filterStats.ConsideredPairs,
		SkippedSizeRatio: filterStats.SkippedSizeRatio,
		CandidatePairs:   filterStats.CandidatePairs,
		ScoredPairs:      len(scores),
		FailedPairs:      failedPairs,
		ClonePairs:       len(clonePairs),
		Config: domain.T3ConfigEcho{
			SimilarityThreshold: req.SimilarityThreshold,
			MaxSizeRatio:        req.MaxSizeRatio,
			GroupByProblem:      req.GroupByProblem,
			InsertCost:          req.InsertCost,
			DeleteCost:          req.DeleteCost,
			RenameCost:          req.RenameCost,
			Workers:             req.Workers,
			BatchSize:           req.BatchSize,
			ASTCacheSize:        req.ASTCacheSize,
		},
	}
	if len(clonePairs) > 0 {
		total := 0.0
		for _, pair := range clonePairs {
			total += pair.Similarity
		}
		stats.AverageSimilarity = total / float64(len(clonePairs))
	}

	resp := &domain.T3Response{
		Pairs:        clonePairs,
		Similarities: similarities,
		Statistics:   stats,
	}

	generated, err := s.writeArtifacts(store, resp)
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

// ComputeSimilarity scores a single pair of AST artifacts by path. Used for
// spot-checking a pair without driving the whole corpus.
func (s *T3ServiceImpl) ComputeSimilarity(ctx context.Context, astPath1, astPath2 string, req *domain.T3Request) (float64, error) {
	if ctx == nil {
		return 0, fmt.Errorf("context cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if req == nil {
		req = domain.DefaultT3Request()
	}

	cache, err := NewASTCache(2)
	if err != nil {
		return 0, err
	}
	root1, err := cache.Load(astPath1)
	if err != nil {
		return 0, err
	}
	root2, err := cache.Load(astPath2)
	if err != nil {
		return 0, err
	}

	converter := analyzer.NewTreeConverter()
	engine := analyzer.NewTreeEditDistance(analyzer.NewWeightedCostModel(req.InsertCost, req.DeleteCost, req.RenameCost))
	return engine.ComputeSimilarity(converter.ConvertAST(root1), converter.ConvertAST(root2)), nil
}

// loadExclusions reads the T1/T2 groups and flattens them into the set of
// files already classified at a stronger tier. Missing group artifacts mean
// hash detection has not run against this base directory yet.
func (s *T3ServiceImpl) loadExclusions(store *ArtifactStore) (map[string]bool, error) {
	t1Groups, err := store.ReadT1Groups()
	if err != nil {
		if domain.IsMissingInput(err) {
			return nil, domain.NewDependencyMissingError(domain.StageT3, store.Layout().T1GroupsFile())
		}
		return nil, err
	}
	t2Groups, err := store.ReadT2Groups()
	if err != nil {
		if domain.IsMissingInput(err) {
			return nil, domain.NewDependencyMissingError(domain.StageT3, store.Layout().T2GroupsFile())
		}
		return nil, err
	}

	excluded := analyzer.MemberSet(t1Groups)
	for fileID := range analyzer.MemberSet(t2Groups) {
		excluded[fileID] = true
	}
	return excluded, nil
}

// collectCandidateInputs builds the filter inputs, counting AST nodes for
// every file that could still be compared. Files whose AST cannot be loaded
// are dropped here with a warning, which skips every pair that would have
// needed them. Excluded files keep a zero count: the filter discards them
// before size is ever consulted, so decoding their trees would be wasted
// work.
func (s *T3ServiceImpl) collectCandidateInputs(files []*domain.SubmissionFile, excluded map[string]bool) []analyzer.CandidateInput {
	inputs := make([]analyzer.CandidateInput, 0, len(files))
	for _, file := range files {
		input := analyzer.CandidateInput{FileID: file.FileID, ProblemID: file.ProblemID}
		if !excluded[file.FileID] {
			root, err := parser.LoadASTFile(file.ASTPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: skipping %s for structural detection: %v\n", file.FileID, err)
				continue
			}
			input.NodeCount = root.CountNodes()
		}
		inputs = append(inputs, input)
	}
	return inputs
}

// scorePairs dispatches candidate pairs to the worker pool in batches and
// blocks until every batch has returned. A pair whose AST fails to load is
// reported and counted, never aborting its siblings.
func (s *T3ServiceImpl) scorePairs(ctx context.Context, req *domain.T3Request, pairs []analyzer.FilePair, astPaths map[string]string, showProgress bool) ([]scoredPair, int, error) {
	if len(pairs) == 0 {
		return nil, 0, nil
	}

	batches := make([][]analyzer.FilePair, 0, (len(pairs)+req.BatchSize-1)/req.BatchSize)
	for start := 0; start < len(pairs); start += req.BatchSize {
		end := start + req.BatchSize
		if end > len(pairs) {
			end = len(pairs)
		}
		batches = append(batches, pairs[start:end])
	}

	workerCount := req.Workers
	if workerCount <= 0 {
		workerCount = runtime.GOMAXPROCS(0)
	}
	if workerCount > len(batches) {
		workerCount = len(batches)
	}

	engine := analyzer.NewTreeEditDistance(analyzer.NewWeightedCostModel(req.InsertCost, req.DeleteCost, req.RenameCost))
	converter := analyzer.NewTreeConverter()

	jobs := make(chan []analyzer.FilePair)
	results := make(chan scoredPair, req.BatchSize)

	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each worker gets its own cache; trees it decodes stay local
			// to it and no lock is ever taken on the hot path.
			cache, err := NewASTCache(req.ASTCacheSize)
			if err != nil {
				for batch := range jobs {
					for _, pair := range batch {
						results <- scoredPair{pair: pair, err: err}
					}
				}
				return
			}
			for batch := range jobs {
				for _, pair := range batch {
					results <- scoreOnePair(engine, converter, cache, astPaths, pair)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, batch := range batches {
			select {
			case jobs <- batch:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var scores []scoredPair
	failed := 0
	done := 0
	for result := range results {
		done++
		if showProgress {
			s.progress.Update(done, len(pairs))
		}
		if result.err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to score %s | %s: %v\n", result.pair.File1, result.pair.File2, result.err)
			failed++
			continue
		}
		scores = append(scores, result)
	}

	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("structural detection cancelled: %w", err)
	}
	return scores, failed, nil
}

// scoreOnePair loads both trees through the worker-local cache and computes
// their similarity.
func scoreOnePair(engine *analyzer.TreeEditDistance, converter *analyzer.TreeConverter, cache *ASTCache, astPaths map[string]string, pair analyzer.FilePair) scoredPair {
	root1, err := cache.Load(astPaths[pair.File1])
	if err != nil {
		return scoredPair{pair: pair, err: err}
	}
	root2, err := cache.Load(astPaths[pair.File2])
	if err != nil {
		return scoredPair{pair: pair, err: err}
	}
	similarity := engine.ComputeSimilarity(converter.ConvertAST(root1), converter.ConvertAST(root2))
	return scoredPair{pair: pair, similarity: similarity}
}

// writeArtifacts persists the three structural detection artifacts and
// returns their paths in a stable order.
func (s *T3ServiceImpl) writeArtifacts(store *ArtifactStore, resp *domain.T3Response) ([]string, error) {
	if err := store.EnsureClonesDir(); err != nil {
		return nil, err
	}

	var generated []string

	path, err := store.WriteSimilarities(resp.Similarities)
	if err != nil {
		return nil, err
	}
	generated = append(generated, path)

	if path, err = store.WriteT3Pairs(resp.Pairs); err != nil {
		return nil, err
	}
	generated = append(generated, path)

	if path, err = store.WriteT3Statistics(resp.Statistics); err != nil {
		return nil, err
	}
	generated = append(generated, path)

	return generated, nil
}
