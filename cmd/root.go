package cmd

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"github.com/zorgspace/slashbot/internal/config"
	"github.com/zorgspace/slashbot/internal/exitcode"
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMatch, "debug", false, "Emit strategy resolution debug logs")
	rootCmd.PersistentFlags().StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	rootCmd.PersistentFlags().StringVar(&memProfile, "memprofile", "", "Write memory profile to file")
}

var rootCmd = &cobra.Command{
	Use:   "slashbot",
	Short: "Apply search/replace edits with fuzzy fallback matching",
	Long: `slashbot applies search/replace edit blocks to files, falling back
through progressively looser matching strategies when the search block
does not appear verbatim.

Examples:
  slashbot apply edits.yaml             # apply an edit document
  slashbot apply edits.yaml --dry-run   # show diffs without writing
  slashbot match main.go -s old.txt     # report which strategy matches
  slashbot search "func Apply" -g "**/*.go"

  slashbot snapshots                    # list recorded edits
  slashbot snapshots show <id>          # diff one recorded edit
  slashbot config                       # view configuration`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return startProfiling()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return stopProfiling()
	},
}

var debugMatch bool
var cpuProfile string
var memProfile string
var cpuProfileFile *os.File

func startProfiling() error {
	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return err
		}
		cpuProfileFile = f
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return err
		}
	}
	return nil
}

func stopProfiling() error {
	if cpuProfileFile != nil {
		pprof.StopCPUProfile()
		cpuProfileFile.Close()
	}
	if memProfile != "" {
		f, err := os.Create(memProfile)
		if err != nil {
			return err
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return err
		}
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(exitcode.ExitError); ok {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
