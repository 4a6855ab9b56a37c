package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/aopsharvest/internal/config"
	"github.com/nao1215/aopsharvest/internal/database"
	"github.com/nao1215/aopsharvest/internal/extract"
	"github.com/nao1215/aopsharvest/internal/fetcher"
	"github.com/nao1215/aopsharvest/internal/harvest"
	applog "github.com/nao1215/aopsharvest/internal/log"
	"github.com/nao1215/aopsharvest/internal/model"
	"github.com/nao1215/aopsharvest/internal/render"
)

// Output file names written next to the HTML documents.
const (
	jsonFileName    = "result.json"
	summaryFileName = "summary.md"
)

// NewHarvestCmd creates the harvest command.
func NewHarvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Download problems and write the problem and solution documents",
		Long: `Harvest fetches one wiki page per (year, problem) pair, splits every page into
its problem statement and its solutions, and writes two HTML documents:

  <output>/<variant>_problems.html
  <output>/<variant>_solutions.html

Years appear in the order they were requested; problems within a year are
sorted by number. Successful runs are recorded in the history database.

Examples:
  # Harvest the defaults (AMC 8, 2023, problems 21-25)
  aopsharvest harvest

  # Harvest several years of AMC 10A
  aopsharvest harvest --variant AMC_10A --years 2003-2005 --years 2010 -p 1-25

  # Limit parallelism and give up on slow pages
  aopsharvest harvest -n 8 --timeout 30s

  # Also write result.json and summary.md
  aopsharvest harvest --json --summary -o out`,
		Args: cobra.NoArgs,
		RunE: runHarvestCmd,
	}

	defaults := config.NewConfig()

	// Request flags
	cmd.Flags().String("variant", defaults.Variant.String(),
		"Contest edition (AMC_8, AMC_10A, AMC_10B)")
	cmd.Flags().StringArrayP("years", "y", []string{defaults.Years[0].String()},
		"Year or inclusive year range (repeatable, e.g. 2003-2005)")
	cmd.Flags().StringP("problems", "p", defaults.Problems.String(),
		"Inclusive problem range harvested for every year")
	cmd.Flags().Bool("keep-duplicate-years", false,
		"Harvest a year again each time it is listed")

	// Execution flags
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Maximum number of pages fetched at once (0 = unlimited)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request timeout (0 = none)")
	cmd.Flags().Bool("cancel-on-error", false,
		"Cancel in-flight requests once a page fails")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (host:port)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"Custom User-Agent header (default: none, the Go HTTP client's own)")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Fail pages whose body exceeds this many bytes (0 = unlimited)")
	cmd.Flags().String("base-url", "",
		"Wiki index URL (default "+fetcher.DefaultBaseURL+")")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Directory receiving the HTML documents")
	cmd.Flags().BoolP("json", "j", false,
		"Also write "+jsonFileName)
	cmd.Flags().BoolP("summary", "m", false,
		"Also write a markdown summary ("+summaryFileName+")")
	cmd.Flags().Bool("no-history", false,
		"Do not record the run in the history database")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default "+config.XDGDataDir()+")")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file (default: .aopsharvest in current or home directory)")

	return cmd
}

// runHarvestCmd executes the harvest command.
func runHarvestCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runHarvest(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger writing to the command's error stream.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	verbose := getVerboseFlag(cmd)
	jsonLog, err := cmd.Flags().GetBool("json-log")
	if err != nil {
		jsonLog = false
	}
	if jsonLog {
		return applog.NewJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return applog.NewLogger(cmd.ErrOrStderr(), verbose)
}

// buildConfig creates a Config from defaults, the configuration file and
// the command flags, in increasing order of precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path that does not exist is an error; a missing default
	// file is not.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("failed to apply config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if flags.Changed("variant") {
		value, _ := flags.GetString("variant")
		if cfg.Variant, err = config.ParseVariant(value); err != nil {
			return nil, err
		}
	}
	if flags.Changed("years") {
		values, _ := flags.GetStringArray("years")
		if cfg.Years, err = config.ParseYears(values); err != nil {
			return nil, err
		}
	}
	if flags.Changed("problems") {
		value, _ := flags.GetString("problems")
		if cfg.Problems, err = config.ParseProblems(value); err != nil {
			return nil, err
		}
	}
	if flags.Changed("keep-duplicate-years") {
		cfg.KeepDuplicateYears, _ = flags.GetBool("keep-duplicate-years")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("cancel-on-error") {
		cfg.CancelOnError, _ = flags.GetBool("cancel-on-error")
	}
	if flags.Changed("proxy") {
		cfg.ProxyAddress, _ = flags.GetString("proxy")
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}
	if flags.Changed("max-body-size") {
		cfg.MaxBodySize, _ = flags.GetInt64("max-body-size")
	}
	if flags.Changed("output") {
		cfg.OutputDir, _ = flags.GetString("output")
	}

	cfg.BaseURL, _ = flags.GetString("base-url")
	cfg.JSONOutput, _ = flags.GetBool("json")
	cfg.MarkdownSummary, _ = flags.GetBool("summary")

	noHistory, _ := flags.GetBool("no-history")
	cfg.SaveToDB = !noHistory
	if dbDir, _ := flags.GetString("db-dir"); dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// newHTTPClient returns the client used by the fetcher.
func newHTTPClient(cfg *config.Config) (*http.Client, error) {
	if cfg.ProxyAddress != "" {
		return fetcher.NewProxyClient(cfg.ProxyAddress, cfg.Timeout)
	}
	return fetcher.NewHTTPClient(cfg.Timeout), nil
}

// newHarvester wires the fetcher and the extractor into a Harvester.
func newHarvester(cfg *config.Config, logger *slog.Logger) (*harvest.Harvester, error) {
	client, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}

	f := fetcher.New(
		fetcher.WithHTTPClient(client),
		fetcher.WithBaseURL(cfg.BaseURL),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithLogger(logger),
	)
	e := extract.New(extract.WithLogger(logger))

	return harvest.New(f, e,
		harvest.WithConcurrency(cfg.Concurrency),
		harvest.WithCancelOnError(cfg.CancelOnError),
		harvest.WithLogger(logger),
	), nil
}

// runHarvest performs the harvest and writes its outputs.
func runHarvest(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	h, err := newHarvester(cfg, logger)
	if err != nil {
		return err
	}

	req := cfg.Request()
	logger.Info("starting harvest",
		"variant", req.Variant,
		"years", req.YearList(),
		"problems", req.Problems.String(),
		"pages", req.PageCount())

	result, err := h.Harvest(ctx, req)
	if err != nil {
		return err
	}

	paths, err := writeOutputs(cfg, result)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Harvested %d problems from %d years\n", result.ProblemCount(), len(result.Groups))
	for _, p := range paths {
		fmt.Fprintf(out, "  wrote %s\n", p)
	}

	if !cfg.SaveToDB {
		return nil
	}

	runID, err := saveRun(ctx, cfg, result)
	if err != nil {
		// The documents are already written; history is best-effort.
		logger.Warn("failed to record run in history", "error", err)
		return nil
	}
	fmt.Fprintf(out, "Recorded run %d (see 'aopsharvest history --run %d')\n", runID, runID)

	return nil
}

// writeOutputs writes every requested document into the output directory
// and returns the written paths.
func writeOutputs(cfg *config.Config, result *model.AggregateResult) ([]string, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var htmlOpts []render.HTMLWriterOption
	if cfg.BaseURL != "" {
		htmlOpts = append(htmlOpts, render.WithSourceBaseURL(cfg.BaseURL))
	}

	prefix := result.Variant.String()
	type document struct {
		name   string
		render func(*bytes.Buffer) error
	}
	docs := []document{
		{prefix + "_problems.html", func(buf *bytes.Buffer) error {
			return render.RenderProblems(buf, result, htmlOpts...)
		}},
		{prefix + "_solutions.html", func(buf *bytes.Buffer) error {
			return render.RenderSolutions(buf, result, htmlOpts...)
		}},
	}
	if cfg.JSONOutput {
		docs = append(docs, document{jsonFileName, func(buf *bytes.Buffer) error {
			_, err := render.NewJSONWriter(buf, render.WithPrettyPrint(), render.WithVersion(getVersion())).Write(result)
			return err
		}})
	}
	if cfg.MarkdownSummary {
		docs = append(docs, document{summaryFileName, func(buf *bytes.Buffer) error {
			_, err := render.NewMarkdownWriter(buf).Write(result)
			return err
		}})
	}

	paths := make([]string, 0, len(docs))
	for _, d := range docs {
		var buf bytes.Buffer
		if err := d.render(&buf); err != nil {
			return paths, fmt.Errorf("failed to render %s: %w", d.name, err)
		}
		path := filepath.Join(cfg.OutputDir, d.name)
		if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// saveRun records a harvest in the history database.
func saveRun(ctx context.Context, cfg *config.Config, result *model.AggregateResult) (int64, error) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return 0, err
	}
	defer db.Close()

	return db.SaveResult(ctx, cfg.Problems, result)
}
