package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zorgspace/slashbot/internal/exitcode"
	"github.com/zorgspace/slashbot/internal/patch"
	"github.com/zorgspace/slashbot/internal/search"
)

var matchCmd = &cobra.Command{
	Use:   "match <file>",
	Short: "Report which strategy resolves a search block",
	Long: `Run the matching cascade against a file without modifying it and
report the strategy that resolves the search block. The search block is
read from --search-file, or from stdin when the flag is omitted.

Exit codes:
  0  a strategy matched
  3  no strategy matched`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

var matchSearchFile string

func init() {
	matchCmd.Flags().StringVarP(&matchSearchFile, "search-file", "s", "", "File holding the search block (default: stdin)")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	content := string(data)

	var searchBlock []byte
	if matchSearchFile != "" {
		searchBlock, err = os.ReadFile(matchSearchFile)
	} else {
		searchBlock, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read search block: %w", err)
	}

	resolver := patch.Resolver{ContextSimilarity: cfg.Matching.ContextSimilarity}
	res, err := resolver.Replace(content, string(searchBlock), string(searchBlock), false)
	if err != nil {
		var notFound *patch.NotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, err)
			for _, s := range search.Suggest(content, string(searchBlock), 3) {
				fmt.Fprintf(os.Stderr, "  %4d: %s\n", s.Line, s.Text)
			}
			return exitcode.Unmatched("no strategy matched")
		}
		return err
	}

	// Replace with the identical block, so res.Content is untouched and
	// only the strategy is interesting.
	fmt.Println(res.Strategy)
	return nil
}
