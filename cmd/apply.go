package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zorgspace/slashbot/internal/config"
	"github.com/zorgspace/slashbot/internal/edit"
	"github.com/zorgspace/slashbot/internal/event"
	"github.com/zorgspace/slashbot/internal/exitcode"
	"github.com/zorgspace/slashbot/internal/patch"
	"github.com/zorgspace/slashbot/internal/search"
	"github.com/zorgspace/slashbot/internal/snapshot"
	"github.com/zorgspace/slashbot/internal/ui"
	"github.com/zorgspace/slashbot/internal/workspace"
)

var applyCmd = &cobra.Command{
	Use:   "apply <edits.yaml>",
	Short: "Apply an edit document to the workspace",
	Long: `Apply a YAML edit document. Each edit names a file, a search block,
and a replacement; search blocks that do not appear verbatim are
resolved through fuzzy fallback strategies. A batch is atomic: if any
edit fails to resolve, no file is written.

Examples:
  slashbot apply edits.yaml
  slashbot apply edits.yaml --dry-run
  slashbot apply edits.yaml --yes --no-snapshot`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

var (
	applyDryRun     bool
	applyYes        bool
	applyNoSnapshot bool
	applyReplaceAll bool
)

func init() {
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Show diffs without writing files")
	applyCmd.Flags().BoolVarP(&applyYes, "yes", "y", false, "Apply without confirmation")
	applyCmd.Flags().BoolVar(&applyNoSnapshot, "no-snapshot", false, "Skip recording snapshots")
	applyCmd.Flags().BoolVar(&applyReplaceAll, "replace-all", false, "Replace every occurrence for all edits")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read edit document: %w", err)
	}
	doc, err := edit.ParseDocument(data)
	if err != nil {
		return err
	}
	if applyReplaceAll {
		for i := range doc.Edits {
			doc.Edits[i].ReplaceAll = true
		}
	}

	perms, err := buildPermissions(cfg)
	if err != nil {
		return err
	}

	contents := make(map[string]string)
	for _, path := range doc.Paths() {
		content, err := workspace.ReadFile(perms, path)
		if err != nil {
			return err
		}
		contents[path] = content
	}

	styles := ui.NewStyles(os.Stderr)
	executor := edit.NewExecutor(edit.ExecutorConfig{
		Resolver: patch.Resolver{ContextSimilarity: cfg.Matching.ContextSimilarity},
		OnMatch: func(path string, strategy patch.Strategy) {
			if strategy != patch.StrategyExact {
				fmt.Fprintln(os.Stderr, styles.Muted.Render(
					fmt.Sprintf("  %s: matched via %s", path, strategy)))
			}
		},
		Debug: debugMatch,
	})

	updated, applied, err := executor.Apply(contents, doc.Edits)
	if err != nil {
		printNearMisses(contents, doc.Edits, err)
		return exitcode.Unmatched(err.Error())
	}

	changed := changedPaths(contents, updated)
	if len(changed) == 0 {
		fmt.Println("No changes.")
		return nil
	}

	for _, path := range changed {
		fmt.Print(ui.RenderDiff(path, contents[path], updated[path], cfg.Color))
	}

	if applyDryRun {
		fmt.Printf("Dry run: %d file(s) would change.\n", len(changed))
		return nil
	}

	if !applyYes {
		interrupts := make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt)
		ok, err := confirm(fmt.Sprintf("Apply changes to %d file(s)?", len(changed)), os.Stdin, interrupts)
		signal.Stop(interrupts)
		if err != nil {
			return err
		}
		if !ok {
			return exitcode.Declined("declined")
		}
	}

	bus := event.NewBus()
	if debugMatch {
		ch, cancel := bus.Subscribe()
		defer cancel()
		go func() {
			for ev := range ch {
				fmt.Fprintf(os.Stderr, "[DEBUG] changed %s (%s, snapshot %s)\n", ev.Path, ev.Strategy, ev.SnapshotID)
			}
		}()
	}

	var store *snapshot.Store
	if !applyNoSnapshot {
		store, err = snapshot.Open(cfg.SnapshotDB)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	for _, path := range changed {
		if err := workspace.WriteFileAtomic(perms, path, updated[path]); err != nil {
			return err
		}
	}

	for _, a := range applied {
		var id string
		if store != nil {
			id, err = store.Record(context.Background(), snapshot.Snapshot{
				Path:     a.Path,
				Strategy: a.Strategy.String(),
				Before:   a.Before,
				After:    a.After,
			})
			if err != nil {
				return err
			}
		}
		bus.Publish(event.FileChanged{
			SnapshotID: id,
			Path:       a.Path,
			Strategy:   a.Strategy.String(),
			Before:     a.Before,
			After:      a.After,
		})
	}

	fmt.Println(styles.FormatResult(true, fmt.Sprintf("Applied %d edit(s) to %d file(s).", len(applied), len(changed))))
	return nil
}

func buildPermissions(cfg *config.Config) (*workspace.Permissions, error) {
	perms := workspace.NewPermissions()

	writeDirs := cfg.Workspace.WriteDirs
	if len(writeDirs) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		writeDirs = []string{cwd}
	}
	for _, dir := range writeDirs {
		if err := perms.AddWriteDir(dir); err != nil {
			return nil, err
		}
	}
	for _, dir := range cfg.Workspace.ReadDirs {
		if err := perms.AddReadDir(dir); err != nil {
			return nil, err
		}
	}
	for _, pattern := range cfg.Workspace.DenyPatterns {
		if err := perms.AddDenyPattern(pattern); err != nil {
			return nil, err
		}
	}
	return perms, nil
}

func changedPaths(before, after map[string]string) []string {
	var changed []string
	for path, content := range before {
		if after[path] != content {
			changed = append(changed, path)
		}
	}
	return changed
}

// printNearMisses shows fuzzy line suggestions for the edit that failed,
// so the caller can see what the search block almost matched.
func printNearMisses(contents map[string]string, edits []edit.FileEdit, applyErr error) {
	for _, ed := range edits {
		content, ok := contents[ed.Path]
		if !ok || !strings.HasPrefix(applyErr.Error(), ed.Path+":") {
			continue
		}
		suggestions := search.Suggest(content, ed.Search, 3)
		if len(suggestions) == 0 {
			continue
		}
		fmt.Fprintf(os.Stderr, "Closest lines in %s:\n", ed.Path)
		for _, s := range suggestions {
			fmt.Fprintf(os.Stderr, "  %4d: %s\n", s.Line, s.Text)
		}
		return
	}
}

// confirm prompts on stderr and reads an answer from in. An interrupt
// arriving while the prompt waits aborts with the Cancelled exit code.
func confirm(prompt string, in io.Reader, interrupts <-chan os.Signal) (bool, error) {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)

	answers := make(chan string, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil {
			answers <- ""
			return
		}
		answers <- strings.ToLower(strings.TrimSpace(line))
	}()

	select {
	case <-interrupts:
		fmt.Fprintln(os.Stderr)
		return false, exitcode.Cancel()
	case answer := <-answers:
		return answer == "y" || answer == "yes", nil
	}
}
