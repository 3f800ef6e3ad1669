package main

import (
	"os"

	"github.com/clonesieve/clonesieve/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "clonesieve",
	Short: "A deterministic clone detector for programming contest submissions",
	Long: `clonesieve classifies pairs of contest submissions into clone tiers
using the artifacts produced by the upstream preprocessing stages.

Detection tiers:
  • Type-1: identical normalized source (content hash)
  • Type-2: identical canonical token stream (structure hash)
  • Type-3: structurally similar ASTs (tree edit distance)

The pipeline command chains the detection stages behind the external
preprocessing steps and resumes from whatever artifacts already exist.`,
	Version: version.Short(),
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	// Add main subcommands
	rootCmd.AddCommand(NewT1T2Cmd())
	rootCmd.AddCommand(NewT3Cmd())
	rootCmd.AddCommand(NewPipelineCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
