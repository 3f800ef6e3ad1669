package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/clonesieve/clonesieve/internal/constants"
)

// defaultConfigTmpl contains the embedded default configuration template
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds all values used to render the default config
// template. All values are sourced from internal/constants to keep a single
// source of truth.
type DefaultConfigValues struct {
	SimilarityThreshold float64
	MaxSizeRatio        float64
	InsertCost          float64
	DeleteCost          float64
	RenameCost          float64
	BatchSize           int
	ASTCacheSize        int
}

// newDefaultConfigValues creates a DefaultConfigValues populated from constants.
func newDefaultConfigValues() DefaultConfigValues {
	return DefaultConfigValues{
		SimilarityThreshold: constants.DefaultT3SimilarityThreshold,
		MaxSizeRatio:        constants.DefaultMaxSizeRatio,
		InsertCost:          constants.DefaultInsertCost,
		DeleteCost:          constants.DefaultDeleteCost,
		RenameCost:          constants.DefaultRenameCost,
		BatchSize:           constants.DefaultBatchSize,
		ASTCacheSize:        constants.DefaultASTCacheSize,
	}
}

// GenerateDefaultConfigTOML renders the default config template with the
// constant values and returns the resulting TOML string.
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	return buf.String(), nil
}
