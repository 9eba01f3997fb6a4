package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zorgspace/slashbot/internal/search"
	"github.com/zorgspace/slashbot/internal/ui"
)

var searchCmd = &cobra.Command{
	Use:   "search <pattern>",
	Short: "Search workspace content",
	Long: `Search file contents under the current directory. Uses ripgrep when
installed, otherwise a built-in regexp walk. With --glob, list matching
file paths instead of searching content.

Examples:
  slashbot search "func Apply"
  slashbot search -g "**/*_test.go"`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var searchGlob bool

func init() {
	searchCmd.Flags().BoolVarP(&searchGlob, "glob", "g", false, "Treat the pattern as a file glob")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return err
	}

	if searchGlob {
		paths, err := search.Glob(root, args[0])
		if err != nil {
			return err
		}
		for _, path := range paths {
			fmt.Println(path)
		}
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	matches, err := search.Grep(root, args[0], cfg.Ripgrep)
	if err != nil {
		return err
	}
	for _, m := range matches {
		fmt.Printf("%s:%d: %s\n", m.Path, m.Line, ui.Truncate(m.Text, 200))
	}
	return nil
}
