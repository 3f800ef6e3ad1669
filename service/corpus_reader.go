package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/clonesieve/clonesieve/domain"
	"github.com/clonesieve/clonesieve/internal/lang"
)

// CorpusReaderImpl implements the domain.CorpusReader interface.
//
// The normalized tree is laid out as
// normalized/<problem_id>/<submission_id>/<submission_id>.<ext>; discovery
// derives the file ID from the two directory levels and resolves the
// language from the file extension. Everything else in a submission
// directory is ignored.
type CorpusReaderImpl struct{}

// NewCorpusReader creates a new corpus reader service
func NewCorpusReader() *CorpusReaderImpl {
	return &CorpusReaderImpl{}
}

// DiscoverSubmissions walks the normalized tree and builds submission
// records in lexicographic file-ID order.
func (r *CorpusReaderImpl) DiscoverSubmissions(baseDir string, languages []string, includePatterns, excludePatterns []string) ([]*domain.SubmissionFile, error) {
	layout := domain.NewArtifactLayout(baseDir)
	root := layout.NormalizedDir()

	info, err := os.Stat(root)
	if err != nil {
		return nil, domain.NewMissingInputError(root, err)
	}
	if !info.IsDir() {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("not a directory: %s", root), nil)
	}

	wanted, err := languageFilter(languages)
	if err != nil {
		return nil, err
	}

	problems, err := os.ReadDir(root)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot read normalized tree: %s", root), err)
	}

	var files []*domain.SubmissionFile
	for _, problem := range problems {
		if !problem.IsDir() || strings.HasPrefix(problem.Name(), ".") {
			continue
		}
		problemID := problem.Name()

		submissions, err := os.ReadDir(filepath.Join(root, problemID))
		if err != nil {
			continue // unreadable problem directories are skipped, not fatal
		}
		for _, submission := range submissions {
			if !submission.IsDir() || strings.HasPrefix(submission.Name(), ".") {
				continue
			}
			submissionID := submission.Name()

			file := r.findSubmissionSource(layout, problemID, submissionID, wanted)
			if file == nil {
				continue
			}
			if !shouldIncludeFileID(file.FileID, includePatterns, excludePatterns) {
				continue
			}
			files = append(files, file)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].FileID < files[j].FileID
	})
	return files, nil
}

// findSubmissionSource locates the normalized source inside one submission
// directory: a file named after the submission with a recognized language
// extension. Returns nil when the directory holds no such file or the
// language is filtered out.
func (r *CorpusReaderImpl) findSubmissionSource(layout *domain.ArtifactLayout, problemID, submissionID string, wanted map[lang.Language]bool) *domain.SubmissionFile {
	dir := filepath.Join(layout.NormalizedDir(), problemID, submissionID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		ext := filepath.Ext(name)
		if strings.TrimSuffix(name, ext) != submissionID {
			continue
		}
		language, err := lang.FromExtension(ext)
		if err != nil {
			continue
		}
		if wanted != nil && !wanted[language] {
			continue
		}
		return &domain.SubmissionFile{
			FileID:       domain.FileID(problemID, submissionID),
			ProblemID:    problemID,
			SubmissionID: submissionID,
			Language:     language.String(),
			SourcePath:   filepath.Join(dir, name),
			TokenPath:    layout.TokenFile(problemID, submissionID),
			ASTPath:      layout.ASTFile(problemID, submissionID),
		}
	}
	return nil
}

// languageFilter resolves the configured language names into a set.
// A nil result means every supported language is accepted.
func languageFilter(languages []string) (map[lang.Language]bool, error) {
	if len(languages) == 0 {
		return nil, nil
	}
	wanted := make(map[lang.Language]bool, len(languages))
	for _, name := range languages {
		language, err := lang.FromName(name)
		if err != nil {
			return nil, domain.NewUnsupportedLanguageError(name)
		}
		wanted[language] = true
	}
	return wanted, nil
}

// shouldIncludeFileID checks a file ID against the include/exclude globs.
// Patterns match the problem_id/submission_id identifier, with a bare
// submission-ID match as a fallback for simple patterns.
func shouldIncludeFileID(fileID string, includePatterns, excludePatterns []string) bool {
	base := fileID
	if _, submissionID, ok := domain.SplitFileID(fileID); ok {
		base = submissionID
	}

	// Check exclude patterns first
	for _, pattern := range excludePatterns {
		if matched, _ := doublestar.Match(pattern, fileID); matched {
			return false
		}
		if matched, _ := doublestar.Match(pattern, base); matched {
			return false
		}
	}

	// If no include patterns specified, include by default
	if len(includePatterns) == 0 {
		return true
	}

	for _, pattern := range includePatterns {
		if matched, _ := doublestar.Match(pattern, fileID); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
