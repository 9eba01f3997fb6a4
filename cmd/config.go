package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zorgspace/slashbot/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if config.Exists() {
		fmt.Fprintf(out, "config file: %s\n", path)
	} else {
		fmt.Fprintf(out, "config file: %s (not found, using defaults)\n", path)
	}
	fmt.Fprintf(out, "snapshot db: %s\n", cfg.SnapshotDB)
	fmt.Fprintf(out, "ripgrep: %s\n", cfg.Ripgrep)
	fmt.Fprintf(out, "color: %v\n", cfg.Color)
	fmt.Fprintf(out, "context similarity: %g\n", cfg.Matching.ContextSimilarity)
	if len(cfg.Workspace.WriteDirs) > 0 {
		fmt.Fprintf(out, "write dirs: %s\n", strings.Join(cfg.Workspace.WriteDirs, ", "))
	}
	if len(cfg.Workspace.ReadDirs) > 0 {
		fmt.Fprintf(out, "read dirs: %s\n", strings.Join(cfg.Workspace.ReadDirs, ", "))
	}
	if len(cfg.Workspace.DenyPatterns) > 0 {
		fmt.Fprintf(out, "deny patterns: %s\n", strings.Join(cfg.Workspace.DenyPatterns, ", "))
	}
	return nil
}
