package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for aopsharvest.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aopsharvest",
		Short: "Harvest competition problems from the AoPS wiki",
		Long: `aopsharvest downloads AMC problem pages from the Art of Problem Solving wiki,
separates each page into its problem statement and its solutions, and writes
two HTML documents: one with the problems and one with the solutions.

Every page of a year range is fetched concurrently. The harvest is
all-or-nothing: the first page that cannot be fetched or split aborts it.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json-log", false, "Write logs as JSON")

	cmd.AddCommand(NewHarvestCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
