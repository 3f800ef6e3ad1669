package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDetectionFromCloneSieveToml(t *testing.T) {
	tempDir := t.TempDir()

	configContent := `[detection]
similarity_threshold = 0.85
max_size_ratio = 2.0
group_by_problem = false
`
	configPath := filepath.Join(tempDir, ".clonesieve.toml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewTomlConfigLoader()
	config, err := loader.LoadConfig(tempDir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Detection.SimilarityThreshold != 0.85 {
		t.Errorf("Expected similarity_threshold 0.85, got %f", config.Detection.SimilarityThreshold)
	}
	if config.Detection.MaxSizeRatio != 2.0 {
		t.Errorf("Expected max_size_ratio 2.0, got %f", config.Detection.MaxSizeRatio)
	}
	if BoolValue(config.Detection.GroupByProblem, true) {
		t.Errorf("Expected group_by_problem false, got %v", config.Detection.GroupByProblem)
	}
}

func TestLoadPartialTomlKeepsDefaults(t *testing.T) {
	tempDir := t.TempDir()

	configContent := `[performance]
workers = 4
`
	configPath := filepath.Join(tempDir, ".clonesieve.toml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewTomlConfigLoader()
	config, err := loader.LoadConfig(tempDir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Performance.Workers != 4 {
		t.Errorf("Expected workers 4, got %d", config.Performance.Workers)
	}

	defaults := DefaultConfig()
	if config.Performance.BatchSize != defaults.Performance.BatchSize {
		t.Errorf("Expected default batch_size %d, got %d", defaults.Performance.BatchSize, config.Performance.BatchSize)
	}
	if config.Performance.ASTCacheSize != defaults.Performance.ASTCacheSize {
		t.Errorf("Expected default ast_cache_size %d, got %d", defaults.Performance.ASTCacheSize, config.Performance.ASTCacheSize)
	}
	if config.Detection.SimilarityThreshold != defaults.Detection.SimilarityThreshold {
		t.Errorf("Expected default similarity_threshold %f, got %f", defaults.Detection.SimilarityThreshold, config.Detection.SimilarityThreshold)
	}
}

func TestLoadConfigWalksUpDirectoryTree(t *testing.T) {
	tempDir := t.TempDir()

	configContent := `[t3]
rename_cost = 0.5
`
	configPath := filepath.Join(tempDir, ".clonesieve.toml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	nested := filepath.Join(tempDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("Failed to create nested dirs: %v", err)
	}

	loader := NewTomlConfigLoader()
	config, err := loader.LoadConfig(nested)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.T3.RenameCost != 0.5 {
		t.Errorf("Expected rename_cost 0.5 from parent config, got %f", config.T3.RenameCost)
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	tempDir := t.TempDir()

	loader := NewTomlConfigLoader()
	config, err := loader.LoadConfig(tempDir)
	if err != nil {
		t.Fatalf("Expected defaults without error, got %v", err)
	}

	defaults := DefaultConfig()
	if config.Detection.SimilarityThreshold != defaults.Detection.SimilarityThreshold {
		t.Errorf("Expected default similarity_threshold, got %f", config.Detection.SimilarityThreshold)
	}
}

func TestLoadConfigFileRejectsInvalidValues(t *testing.T) {
	tempDir := t.TempDir()

	configContent := `[detection]
similarity_threshold = 1.5
`
	configPath := filepath.Join(tempDir, ".clonesieve.toml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewTomlConfigLoader()
	if _, err := loader.LoadConfigFile(configPath); err == nil {
		t.Error("Expected validation error for similarity_threshold 1.5")
	}
}

func TestLoadConfigFileRejectsMalformedToml(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, ".clonesieve.toml")
	if err := os.WriteFile(configPath, []byte("[detection\nbroken"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewTomlConfigLoader()
	if _, err := loader.LoadConfigFile(configPath); err == nil {
		t.Error("Expected parse error for malformed TOML")
	}
}

func TestMergeTomlConfigNilValues(t *testing.T) {
	config := DefaultConfig()
	originalThreshold := config.Detection.SimilarityThreshold
	originalStop := BoolValue(config.Pipeline.StopOnError, true)

	loader := NewTomlConfigLoader()
	loader.mergeTomlConfig(config, &TomlConfig{})

	if config.Detection.SimilarityThreshold != originalThreshold {
		t.Errorf("Expected defaults to remain, got %f", config.Detection.SimilarityThreshold)
	}
	if BoolValue(config.Pipeline.StopOnError, true) != originalStop {
		t.Errorf("Expected stop_on_error default to remain, got %v", config.Pipeline.StopOnError)
	}
}

func TestMergeTomlConfigPointerValues(t *testing.T) {
	config := DefaultConfig()

	threshold := 0.9
	workers := 8
	stop := false
	loader := NewTomlConfigLoader()
	loader.mergeTomlConfig(config, &TomlConfig{
		Detection:   TomlDetectionConfig{SimilarityThreshold: &threshold},
		Performance: TomlPerformanceConfig{Workers: &workers},
		Pipeline:    TomlPipelineConfig{StopOnError: &stop},
	})

	if config.Detection.SimilarityThreshold != 0.9 {
		t.Errorf("Expected similarity_threshold 0.9, got %f", config.Detection.SimilarityThreshold)
	}
	if config.Performance.Workers != 8 {
		t.Errorf("Expected workers 8, got %d", config.Performance.Workers)
	}
	if BoolValue(config.Pipeline.StopOnError, true) {
		t.Errorf("Expected stop_on_error false, got %v", config.Pipeline.StopOnError)
	}
}
