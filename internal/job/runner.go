package job

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/li-k-z/news-crawler/internal/model"
	"github.com/li-k-z/news-crawler/internal/report"
)

// Fetcher retrieves the day's news items.
type Fetcher interface {
	Fetch(ctx context.Context) ([]model.Item, error)
}

// Summarizer turns news items into a Markdown digest body. An error
// means "no AI summary available"; the pipeline degrades to the
// fallback summary, never to a failed run.
type Summarizer interface {
	Summarize(ctx context.Context, items []model.Item) (string, error)
}

// Runner drives one end-to-end report generation: fetch, summarize,
// render, persist. State is published through an embedded Tracker so
// HTTP pollers and the CLI share one view of the run.
type Runner struct {
	fetcher    Fetcher
	summarizer Summarizer
	store      *report.Store
	tracker    *Tracker
	logger     *slog.Logger
	now        func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets the structured logger.
func WithRunnerLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithClock replaces the time source. The run date, report heading and
// filename all derive from a single reading of this clock.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner builds a Runner over the given pipeline stages.
func NewRunner(fetcher Fetcher, summarizer Summarizer, store *report.Store, opts ...RunnerOption) *Runner {
	r := &Runner{
		fetcher:    fetcher,
		summarizer: summarizer,
		store:      store,
		tracker:    NewTracker(),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Trigger starts a generation run in the background. It returns
// ErrConflict when a run is already active. The context bounds the
// whole run, not just the call.
func (r *Runner) Trigger(ctx context.Context) error {
	return r.tracker.Start(func(h *Handle) {
		r.run(ctx, h)
	})
}

// Wait blocks until the active run finishes.
func (r *Runner) Wait() {
	r.tracker.Wait()
}

// Status returns the current run snapshot.
func (r *Runner) Status() Snapshot {
	return r.tracker.Snapshot()
}

// RunOnce performs a full generation synchronously and returns the
// terminal snapshot. The error is non-nil only when the run could not
// start.
func (r *Runner) RunOnce(ctx context.Context) (Snapshot, error) {
	if err := r.Trigger(ctx); err != nil {
		return r.Status(), err
	}
	r.Wait()
	return r.Status(), nil
}

// run executes the pipeline phases against the handle. Every exit path
// reaches a terminal state.
func (r *Runner) run(ctx context.Context, h *Handle) {
	started := r.now()
	r.logger.Info("news generation started")

	h.Crawling("fetching news from configured sources")
	items, err := r.fetcher.Fetch(ctx)
	if err != nil {
		r.fail(h, fmt.Sprintf("failed to fetch news: %v", err))
		return
	}
	if len(items) == 0 {
		r.fail(h, "no content produced")
		return
	}
	r.logger.Info("news fetched", "items", len(items))

	h.Processing("summarizing news with AI")
	body, err := r.summarizer.Summarize(ctx, items)
	if err != nil || strings.TrimSpace(body) == "" {
		if err != nil {
			r.logger.Warn("AI summary unavailable, using fallback", "error", err)
		}
		body = report.FallbackSummary(items)
	}

	date := r.now()
	path, err := r.store.Save(report.Render(body, date), date)
	if err != nil {
		r.fail(h, fmt.Sprintf("save failed: %v", err))
		return
	}

	r.logger.Info("news generation finished",
		"path", path,
		"items", len(items),
		"elapsed", r.now().Sub(started))
	h.Completed("news report generated")
}

// fail reports a failed run through the handle and the log.
func (r *Runner) fail(h *Handle, detail string) {
	r.logger.Error("news generation failed", "error", detail)
	h.Failed("generation failed", detail)
}
