package config

import (
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestGenerateDefaultConfigTOMLIsValidToml(t *testing.T) {
	rendered, err := GenerateDefaultConfigTOML()
	if err != nil {
		t.Fatalf("Failed to render default config: %v", err)
	}

	var tomlCfg TomlConfig
	if err := toml.Unmarshal([]byte(rendered), &tomlCfg); err != nil {
		t.Fatalf("Rendered default config is not valid TOML: %v", err)
	}
}

func TestGenerateDefaultConfigTOMLKeepsDefaults(t *testing.T) {
	rendered, err := GenerateDefaultConfigTOML()
	if err != nil {
		t.Fatalf("Failed to render default config: %v", err)
	}

	// Every setting ships commented out, so loading the rendered file must
	// reproduce the built-in defaults exactly.
	var tomlCfg TomlConfig
	if err := toml.Unmarshal([]byte(rendered), &tomlCfg); err != nil {
		t.Fatalf("Failed to parse rendered config: %v", err)
	}

	config := DefaultConfig()
	loader := NewTomlConfigLoader()
	loader.mergeTomlConfig(config, &tomlCfg)

	defaults := DefaultConfig()
	if config.Detection.SimilarityThreshold != defaults.Detection.SimilarityThreshold {
		t.Errorf("Rendered config changed similarity_threshold to %f", config.Detection.SimilarityThreshold)
	}
	if config.Performance.BatchSize != defaults.Performance.BatchSize {
		t.Errorf("Rendered config changed batch_size to %d", config.Performance.BatchSize)
	}
}

func TestGenerateDefaultConfigTOMLMentionsDefaults(t *testing.T) {
	rendered, err := GenerateDefaultConfigTOML()
	if err != nil {
		t.Fatalf("Failed to render default config: %v", err)
	}

	for _, want := range []string{
		"[input]",
		"[detection]",
		"[t3]",
		"[performance]",
		"[pipeline]",
		"[output]",
		"similarity_threshold = 0.7",
		"max_size_ratio = 3",
		"batch_size = 100",
		"ast_cache_size = 1000",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Rendered config missing %q", want)
		}
	}
}
