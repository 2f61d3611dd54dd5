package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var (
	// Global flags
	verbose bool
	jsonOut bool
	seed    int64
)

var rootCmd = &cobra.Command{
	Use:   "segsim",
	Short: "Simulate how segments are laid out in main memory",
	Long: `segsim places a set of memory segments at random addresses within main
memory, leaving randomly sized runs of free space between them, and draws the
resulting layout. It is meant for demonstrating segmentation and external
fragmentation.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every placement decision")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Seed the random source to reproduce a layout")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newLogger builds the logger handed to the placement engine. Placement decisions are
// logged at debug level, so they only appear with --verbose.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// seedFlag returns the --seed value if it was provided on the command line
func seedFlag(cmd *cobra.Command) *int64 {
	if !cmd.Flags().Changed("seed") {
		return nil
	}

	value := seed
	return &value
}
