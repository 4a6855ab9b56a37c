package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/aopsharvest/internal/config"
	"github.com/nao1215/aopsharvest/internal/database"
	"github.com/nao1215/aopsharvest/internal/model"
)

// defaultHistoryLimit is the number of runs listed when --limit is not given.
const defaultHistoryLimit = 20

// hashPrefixLength is how much of a content hash the listing shows.
const hashPrefixLength = 12

// errNoHistory is returned when the history database has not been created yet.
var errNoHistory = errors.New("no harvest history found")

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous harvest runs",
		Long: `History lists the runs recorded by 'aopsharvest harvest'.

With --run, it lists the problems of one run together with the hashes of
their problem and solution fragments, and whether each page is new, changed
or unchanged compared with the previous harvest of the same page.

With --run and --render, it writes the problem and solution documents of
that run again without contacting the wiki.

Examples:
  # List the 20 most recent runs
  aopsharvest history

  # Show the problems of run 3
  aopsharvest history --run 3

  # Re-create the documents of run 3 in ./out
  aopsharvest history --run 3 --render out`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", defaultHistoryLimit,
		"Maximum number of runs to list (0 = all)")
	cmd.Flags().Int64P("run", "r", 0,
		"Show the problems of this run")
	cmd.Flags().String("render", "",
		"Write the documents of --run into this directory")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default "+config.XDGDataDir()+")")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}
	renderDir, err := cmd.Flags().GetString("render")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	if renderDir != "" && runID == 0 {
		return errors.New("--render requires --run")
	}

	out := cmd.OutOrStdout()

	db, err := openHistory(dbDir)
	if errors.Is(err, errNoHistory) {
		fmt.Fprintln(out, "No harvest history found")
		return nil
	}
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	switch {
	case renderDir != "":
		return renderRun(ctx, out, db, runID, renderDir)
	case runID != 0:
		return showRun(ctx, out, db, runID)
	default:
		return listRuns(ctx, out, db, limit)
	}
}

// openHistory opens an existing history database.
func openHistory(dbDir string) (*database.HarvestDB, error) {
	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); os.IsNotExist(err) {
		return nil, errNoHistory
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	return database.Open(dbDir, opts)
}

// listRuns prints the most recent runs.
func listRuns(ctx context.Context, out io.Writer, db *database.HarvestDB, limit int) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No harvest history found")
		return nil
	}

	fmt.Fprintf(out, "Harvest history (%d runs):\n\n", len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-8s  %-20s  %-8s  %s\n",
		"ID", "Date", "Variant", "Years", "Problems", "Count")

	for _, run := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-8s  %-20s  %-8s  %d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Variant,
			formatYears(run.Years),
			run.Problems,
			run.ProblemCount,
		)
	}

	return nil
}

// showRun prints the problems of one run.
func showRun(ctx context.Context, out io.Writer, db *database.HarvestDB, runID int64) error {
	run, err := db.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %d not found", runID)
	}

	problems, err := db.GetRunProblems(ctx, runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run %d: %s %s, problems %s (%s)\n\n",
		run.ID, run.Variant.DisplayName(), formatYears(run.Years), run.Problems,
		run.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  %-6s  %-6s  %-12s  %-12s  %s\n",
		"Year", "Number", "Problem", "Solution", "Status")

	for _, p := range problems {
		fmt.Fprintf(out, "  %-6d  %-6d  %-12s  %-12s  %s\n",
			p.Year, p.Number,
			shortHash(p.ProblemHash), shortHash(p.SolutionHash),
			p.Status)
	}

	return nil
}

// renderRun writes the documents stored for a run.
func renderRun(ctx context.Context, out io.Writer, db *database.HarvestDB, runID int64, dir string) error {
	result, err := db.LoadResult(ctx, runID)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("run %d not found", runID)
	}

	cfg := config.NewConfig()
	cfg.OutputDir = dir

	paths, err := writeOutputs(cfg, result)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Rendered run %d (%d problems)\n", runID, result.ProblemCount())
	for _, p := range paths {
		fmt.Fprintf(out, "  wrote %s\n", p)
	}

	return nil
}

// formatYears joins years for display, collapsing consecutive runs into ranges.
func formatYears(years []int) string {
	if len(years) == 0 {
		return "-"
	}

	parts := make([]string, 0, len(years))
	start := years[0]
	prev := years[0]
	for _, y := range years[1:] {
		if y == prev+1 {
			prev = y
			continue
		}
		parts = append(parts, model.NewRange(start, prev).String())
		start, prev = y, y
	}
	parts = append(parts, model.NewRange(start, prev).String())

	return strings.Join(parts, ",")
}

// shortHash abbreviates a content hash for display.
func shortHash(hash string) string {
	if len(hash) > hashPrefixLength {
		return hash[:hashPrefixLength]
	}
	return hash
}
