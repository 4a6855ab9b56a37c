package harvest

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/aopsharvest/internal/model"
)

// PageFetcher retrieves the raw page of one problem.
type PageFetcher interface {
	FetchPage(ctx context.Context, year, number int, variant model.Variant) (model.FetchedPage, error)
}

// PageExtractor splits a fetched page into its problem and solution
// fragments and reports the page's stylesheets.
type PageExtractor interface {
	ExtractPage(page model.FetchedPage) (model.ExtractedProblem, []string, error)
}

// problemResult is the outcome of one problem unit.
type problemResult struct {
	problem     model.ExtractedProblem
	stylesheets []string
	err         error
}

// yearResult is the outcome of one year unit.
type yearResult struct {
	group       model.YearGroup
	stylesheets []string
	err         error
}

// Harvester runs harvests. It is safe for concurrent use; each call to
// Harvest owns its own state.
type Harvester struct {
	fetcher   PageFetcher
	extractor PageExtractor

	// concurrency caps the number of problem units running at once.
	// Zero or less means no cap.
	concurrency int

	// cancelOnError cancels in-flight units after the first failure.
	cancelOnError bool

	logger *slog.Logger
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithConcurrency caps the number of pages fetched at once.
// Zero or a negative value removes the cap.
func WithConcurrency(n int) Option {
	return func(h *Harvester) {
		h.concurrency = n
	}
}

// WithCancelOnError makes the first failure cancel the context of every
// unit still in flight.
func WithCancelOnError(enabled bool) Option {
	return func(h *Harvester) {
		h.cancelOnError = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harvester) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a Harvester that fetches pages with f and splits them with e.
func New(f PageFetcher, e PageExtractor, opts ...Option) *Harvester {
	h := &Harvester{
		fetcher:   f,
		extractor: e,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Harvest fetches and extracts every page of req.
//
// Groups appear in the order of req.YearList and problems within a group
// are sorted by number. The stylesheets of the result are those of the
// first page, in consumption order, that listed any.
//
// The harvest is all-or-nothing: on failure the result is nil and the error
// is a *HarvestError naming the first failing page in consumption order, or
// the context error if ctx ends first.
func (h *Harvester) Harvest(ctx context.Context, req model.HarvestRequest) (*model.AggregateResult, error) {
	years := req.YearList()
	problems := req.ProblemList()

	h.logger.Info("starting harvest",
		"variant", req.Variant.String(),
		"years", len(years),
		"problems_per_year", len(problems),
		"concurrency", h.concurrency,
	)
	startTime := time.Now()

	if h.cancelOnError {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
	}

	// Units report through channels, so the group is only used for its
	// limit and is never waited on.
	var g errgroup.Group
	if h.concurrency > 0 {
		g.SetLimit(h.concurrency)
	} else {
		g.SetLimit(-1)
	}

	futures := make([]chan yearResult, len(years))
	for i, year := range years {
		futures[i] = make(chan yearResult, 1)
		go func() {
			futures[i] <- h.harvestYear(ctx, &g, year, problems, req.Variant)
		}()
	}

	result := model.NewAggregateResult(req.Variant)
	for i, future := range futures {
		var yr yearResult
		select {
		case yr = <-future:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		if yr.err != nil {
			h.logger.Warn("harvest failed",
				"year", years[i],
				"error", yr.err,
				"elapsed", time.Since(startTime),
			)
			return nil, yr.err
		}

		if result.SeedStylesheets(yr.stylesheets) {
			h.logger.Debug("stylesheets seeded", "year", years[i], "count", len(yr.stylesheets))
		}
		result.AddGroup(yr.group)
	}

	h.logger.Info("harvest complete",
		"years", len(result.Groups),
		"problems", result.ProblemCount(),
		"elapsed", time.Since(startTime),
	)

	return result, nil
}

// harvestYear starts one unit per problem and consumes them in ascending
// order. It returns on the first failure.
func (h *Harvester) harvestYear(
	ctx context.Context,
	g *errgroup.Group,
	year int,
	problems []int,
	variant model.Variant,
) yearResult {
	futures := make([]chan problemResult, len(problems))
	for i, number := range problems {
		futures[i] = make(chan problemResult, 1)
		g.Go(func() error {
			futures[i] <- h.harvestProblem(ctx, year, number, variant)
			return nil
		})
	}

	group := model.NewYearGroup(year)
	var stylesheets []string
	for _, future := range futures {
		pr := <-future
		if pr.err != nil {
			return yearResult{err: pr.err}
		}
		if len(stylesheets) == 0 && len(pr.stylesheets) > 0 {
			stylesheets = pr.stylesheets
		}
		group.Add(pr.problem)
	}

	h.logger.Debug("year complete", "year", year, "problems", group.Len())

	return yearResult{group: *group, stylesheets: stylesheets}
}

// harvestProblem fetches and extracts one page.
func (h *Harvester) harvestProblem(ctx context.Context, year, number int, variant model.Variant) problemResult {
	fail := func(err error) problemResult {
		return problemResult{err: &HarvestError{Year: year, Number: number, Err: err}}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	page, err := h.fetcher.FetchPage(ctx, year, number, variant)
	if err != nil {
		h.logger.Debug("fetch failed", "year", year, "number", number, "error", err)
		return fail(err)
	}
	h.logger.Debug("page fetched", "year", year, "number", number, "url", page.URL, "markup", page.Markup)

	problem, stylesheets, err := h.extractor.ExtractPage(page)
	if err != nil {
		return fail(err)
	}

	return problemResult{problem: problem, stylesheets: stylesheets}
}
