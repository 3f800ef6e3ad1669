package domain

import (
	"errors"
	"fmt"
)

// DomainError represents errors in the domain layer
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error {
	return e.Cause
}

// Domain error codes
const (
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeMissingInput        = "MISSING_INPUT"
	ErrCodeHashCompute         = "HASH_COMPUTE"
	ErrCodeASTParse            = "AST_PARSE"
	ErrCodeDependencyMissing   = "DEPENDENCY_MISSING"
	ErrCodeStageExecution      = "STAGE_EXECUTION"
	ErrCodeConfigError         = "CONFIG_ERROR"
	ErrCodeOutputError         = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat   = "UNSUPPORTED_FORMAT"
	ErrCodeUnsupportedLanguage = "UNSUPPORTED_LANGUAGE"
)

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewMissingInputError reports an absent upstream artifact. Callers skip the
// affected file, log a warning, and continue the run.
func NewMissingInputError(path string, cause error) error {
	return NewDomainError(ErrCodeMissingInput, fmt.Sprintf("missing input artifact: %s", path), cause)
}

// NewHashComputeError reports an unreadable or undecodable hash input. The
// file is excluded from the hash maps, never aborting the stage.
func NewHashComputeError(fileID string, cause error) error {
	return NewDomainError(ErrCodeHashCompute, fmt.Sprintf("failed to compute hashes for %s", fileID), cause)
}

// NewASTParseError reports malformed AST JSON. Every pair needing the file is
// skipped for Type-3 scoring.
func NewASTParseError(path string, cause error) error {
	return NewDomainError(ErrCodeASTParse, fmt.Sprintf("failed to parse AST: %s", path), cause)
}

// NewDependencyMissingError reports a stage input path absent before the
// stage unit was invoked.
func NewDependencyMissingError(stage, path string) error {
	return NewDomainError(ErrCodeDependencyMissing, fmt.Sprintf("stage %s requires missing input: %s", stage, path), nil)
}

// NewStageExecutionError wraps a stage unit failure with its diagnostic.
func NewStageExecutionError(stage string, cause error) error {
	return NewDomainError(ErrCodeStageExecution, fmt.Sprintf("stage %s failed", stage), cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}

// NewUnsupportedLanguageError reports a language outside the registry.
// Unknown languages are an explicit error, never a silent default.
func NewUnsupportedLanguageError(name string) error {
	return NewDomainError(ErrCodeUnsupportedLanguage, fmt.Sprintf("unsupported language: %s", name), nil)
}

// NewValidationError creates a validation error
func NewValidationError(message string) error {
	return NewDomainError(ErrCodeInvalidInput, message, nil)
}

func hasCode(err error, code string) bool {
	var de DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// IsMissingInput reports whether err is a missing-input domain error.
func IsMissingInput(err error) bool { return hasCode(err, ErrCodeMissingInput) }

// IsASTParse reports whether err is an AST parse domain error.
func IsASTParse(err error) bool { return hasCode(err, ErrCodeASTParse) }

// IsDependencyMissing reports whether err is a dependency-missing domain error.
func IsDependencyMissing(err error) bool { return hasCode(err, ErrCodeDependencyMissing) }
