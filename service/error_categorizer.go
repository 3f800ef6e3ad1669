package service

import (
	"strings"

	"github.com/clonesieve/clonesieve/domain"
)

// ErrorCategorizerImpl implements the ErrorCategorizer interface
type ErrorCategorizerImpl struct {
	order    []domain.ErrorCategory
	patterns map[domain.ErrorCategory][]string
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() domain.ErrorCategorizer {
	return &ErrorCategorizerImpl{
		// Match order is fixed so messages hitting several categories
		// always land in the same one.
		order: []domain.ErrorCategory{
			domain.ErrorCategoryTimeout,
			domain.ErrorCategoryConfig,
			domain.ErrorCategoryInput,
			domain.ErrorCategoryOutput,
			domain.ErrorCategoryProcessing,
		},
		patterns: initializeErrorPatterns(),
	}
}

// initializeErrorPatterns initializes error pattern mappings
func initializeErrorPatterns() map[domain.ErrorCategory][]string {
	return map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"missing input",
			"no submissions found",
			"not found",
			"cannot access",
			"permission denied",
			"invalid",
			"base_dir",
			"unsupported language",
		},
		domain.ErrorCategoryConfig: {
			"config",
			"configuration",
			"toml",
			"invalid settings",
		},
		domain.ErrorCategoryTimeout: {
			"timeout",
			"deadline",
			"context canceled",
			"cancelled",
			"operation timed out",
		},
		domain.ErrorCategoryOutput: {
			"write",
			"output",
			"format",
			"cannot create",
			"failed to generate",
		},
		domain.ErrorCategoryProcessing: {
			"parse",
			"hash",
			"ast",
			"stage",
			"similarity",
			"tree",
			"tokens",
		},
	}
}

// Categorize determines the category of an error
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	errMsg := strings.ToLower(err.Error())

	for _, category := range ec.order {
		if containsAnyPattern(errMsg, ec.patterns[category]) {
			return &domain.CategorizedError{
				Category: category,
				Message:  ec.getCategoryMessage(category),
				Original: err,
			}
		}
	}

	return &domain.CategorizedError{
		Category: domain.ErrorCategoryUnknown,
		Message:  err.Error(),
		Original: err,
	}
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that the base directory holds normalized/, tokens/, and ast/ trees",
			"Try: clonesieve pipeline --status to see which artifacts are missing",
			"Run the upstream preprocessing tools before detection",
			"Ensure you have read permissions for the artifact trees",
		},
		domain.ErrorCategoryConfig: {
			"Verify configuration file format and values",
			"Try: clonesieve init to generate a valid config file",
			"Check for syntax errors in .clonesieve.toml",
		},
		domain.ErrorCategoryTimeout: {
			"Consider running detection on a smaller corpus",
			"Raise max_size_ratio filtering or lower the worker count",
			"Check if any submissions are unusually large",
		},
		domain.ErrorCategoryOutput: {
			"Check write permissions on the base directory",
			"Use --format text or check file system permissions",
			"Ensure the clones/ output directory is writable",
		},
		domain.ErrorCategoryProcessing: {
			"Some token or AST artifacts may be corrupted",
			"Re-run the external tokenizer or AST extractor on the affected files",
			"Run stages individually to isolate the problem",
		},
		domain.ErrorCategoryUnknown: {
			"Run with --verbose for detailed error information",
			"Check the documentation for known issues",
			"Report the issue if it persists",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

// getCategoryMessage returns a user-friendly message for an error category
func (ec *ErrorCategorizerImpl) getCategoryMessage(category domain.ErrorCategory) string {
	messages := map[domain.ErrorCategory]string{
		domain.ErrorCategoryInput:      "Failed to read input artifacts",
		domain.ErrorCategoryConfig:     "Configuration file or settings error",
		domain.ErrorCategoryTimeout:    "Detection timed out or was cancelled",
		domain.ErrorCategoryOutput:     "Failed to generate or write output",
		domain.ErrorCategoryProcessing: "Error during clone detection processing",
		domain.ErrorCategoryUnknown:    "An unexpected error occurred",
	}

	if msg, ok := messages[category]; ok {
		return msg
	}
	return "An error occurred"
}

// containsAnyPattern checks if a string contains any of the given patterns
func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
