package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the segsim release, overridden at build time with -ldflags
var Version = "0.1.0"

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the segsim version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "segsim %s\n", Version)
		},
	})
}
