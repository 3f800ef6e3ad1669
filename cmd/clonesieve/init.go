package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/clonesieve/clonesieve/internal/config"
)

// InitCommand represents the init command
type InitCommand struct {
	force      bool
	configPath string
}

// NewInitCommand creates a new init command
func NewInitCommand() *InitCommand {
	return &InitCommand{
		force:      false,
		configPath: ".clonesieve.toml",
	}
}

// CreateCobraCommand creates the cobra command for configuration initialization
func (i *InitCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize clonesieve configuration file",
		Long: `Initialize a clonesieve configuration file in the current directory.

Creates a .clonesieve.toml file with all available settings and comments
explaining each one. The file lets you pin detection parameters for a corpus
so every run uses the same thresholds and costs.

The generated configuration includes settings for:
• The base directory and language filters
• The Type-3 similarity threshold and size-ratio cutoff
• Tree edit distance costs
• Worker, batch and cache sizes
• Pipeline stage selection and output preferences

Examples:
  # Create .clonesieve.toml in current directory (recommended)
  clonesieve init

  # Create config file with custom name
  clonesieve init --config myconfig.toml

  # Overwrite existing configuration file
  clonesieve init --force`,
		RunE: i.runInit,
	}

	// Add flags
	cmd.Flags().BoolVarP(&i.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVarP(&i.configPath, "config", "c", ".clonesieve.toml", "Configuration file path")

	return cmd
}

// runInit executes the init command
func (i *InitCommand) runInit(cmd *cobra.Command, args []string) error {
	// Resolve the absolute path
	configPath, err := filepath.Abs(i.configPath)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil && !i.force {
		return fmt.Errorf("configuration file already exists: %s\nUse --force to overwrite", configPath)
	}

	// Create directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", configDir, err)
	}

	configData, err := config.GenerateDefaultConfigTOML()
	if err != nil {
		return fmt.Errorf("failed to generate default configuration: %w", err)
	}

	// Write the configuration file
	if err := os.WriteFile(configPath, []byte(configData), 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	// Print success message
	relPath, err := filepath.Rel(".", configPath)
	if err != nil {
		relPath = configPath // Fall back to absolute path if relative fails
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Configuration file created: %s\n", relPath)
	fmt.Fprintf(cmd.OutOrStdout(), "\nTo customize clonesieve for your corpus:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  1. Edit %s\n", relPath)
	fmt.Fprintf(cmd.OutOrStdout(), "  2. Uncomment and modify settings as needed\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  3. Run 'clonesieve pipeline' to use your configuration\n")

	return nil
}

// NewInitCmd creates and returns the init cobra command
func NewInitCmd() *cobra.Command {
	initCommand := NewInitCommand()
	return initCommand.CreateCobraCommand()
}
