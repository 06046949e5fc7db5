package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/burgolabs/briefing/app/llm"
	"github.com/burgolabs/briefing/app/region"
	"github.com/burgolabs/briefing/app/sheets"
)

// Timestamp layout of the metadata record, stored in UTC.
const metadataTimeLayout = "2006-01-02 15:04:05"

// Metadata cell coordinates (1-based): row 2, columns 1-2.
const (
	metadataRow        = 2
	metadataTimeCol    = 1
	metadataSummaryCol = 2
)

// Runner is the only caller-facing entry point. It gates the full
// retrieve-then-summarize pipeline behind a cooldown window persisted in
// the region's metadata worksheet. The mutex makes the read-check-run-write
// sequence atomic per instance, so concurrent triggers cannot both run.
type Runner struct {
	mu        sync.Mutex
	region    *region.Region
	retrieve  *RetrieveTask
	summarize *SummarizeTask
	store     TableStore
	ns        sheets.Namespace
	cooldown  time.Duration
	now       func() time.Time
}

// Result is what a trigger returns: either the fresh briefing or the
// cached one from the last completed run.
type Result struct {
	Summary string
	Cached  bool
	LastRun time.Time
}

func NewRunner(reg *region.Region, searcher Searcher, enricher Enricher, store TableStore, gen llm.Generator, cooldown time.Duration) *Runner {
	return &Runner{
		region:    reg,
		retrieve:  NewRetrieveTask(reg, searcher, enricher, store),
		summarize: NewSummarizeTask(reg, store, gen),
		store:     store,
		ns:        sheets.Namespace{Tag: reg.Tag},
		cooldown:  cooldown,
		now:       time.Now,
	}
}

func (r *Runner) Region() *region.Region {
	return r.region
}

// Run executes the full pipeline unless a completed run lies inside the
// cooldown window, in which case the stored summary is returned without
// any fetch, store, or generation work. A non-positive override keeps
// the configured cooldown. The metadata record only advances on full
// success, so a failed run does not consume the window.
func (r *Runner) Run(ctx context.Context, cooldownOverride time.Duration) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cooldown := r.cooldown
	if cooldownOverride > 0 {
		cooldown = cooldownOverride
	}

	lastRun, lastSummary, err := r.readMetadata(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read run metadata: %w", err)
	}

	if !lastRun.IsZero() && r.now().UTC().Sub(lastRun) < cooldown {
		slog.Info("Inside cooldown window, returning cached briefing",
			"region", r.region.ID,
			"last_run", lastRun.Format(metadataTimeLayout),
			"cooldown", cooldown.String())
		return Result{Summary: lastSummary, Cached: true, LastRun: lastRun}, nil
	}

	slog.Info("Starting pipeline run", "region", r.region.ID)

	if err := r.retrieve.Execute(ctx); err != nil {
		return Result{}, fmt.Errorf("retrieval stage failed: %w", err)
	}

	summary, err := r.summarize.Execute(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("summarisation stage failed: %w", err)
	}

	completedAt := r.now().UTC()
	if err := r.writeMetadata(ctx, completedAt, summary); err != nil {
		return Result{}, fmt.Errorf("failed to write run metadata: %w", err)
	}

	slog.Info("Pipeline run completed", "region", r.region.ID)
	return Result{Summary: summary, LastRun: completedAt}, nil
}

// Last returns the stored metadata without triggering any work.
func (r *Runner) Last(ctx context.Context) (Result, error) {
	lastRun, lastSummary, err := r.readMetadata(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read run metadata: %w", err)
	}
	return Result{Summary: lastSummary, Cached: true, LastRun: lastRun}, nil
}

func (r *Runner) readMetadata(ctx context.Context) (time.Time, string, error) {
	title := r.ns.Title(sheets.KindMetadata)

	raw, err := r.store.ReadCell(ctx, title, metadataRow, metadataTimeCol)
	if err != nil {
		return time.Time{}, "", err
	}
	if raw == "" {
		return time.Time{}, "", nil
	}

	lastRun, err := time.ParseInLocation(metadataTimeLayout, raw, time.UTC)
	if err != nil {
		// An unreadable timestamp is treated like an absent record so
		// the pipeline stays runnable.
		slog.Warn("Malformed last-run timestamp, treating as never run", "region", r.region.ID, "value", raw)
		return time.Time{}, "", nil
	}

	summary, err := r.store.ReadCell(ctx, title, metadataRow, metadataSummaryCol)
	if err != nil {
		return time.Time{}, "", err
	}

	return lastRun, summary, nil
}

func (r *Runner) writeMetadata(ctx context.Context, completedAt time.Time, summary string) error {
	title := r.ns.Title(sheets.KindMetadata)

	if err := r.store.UpdateCell(ctx, title, metadataRow, metadataTimeCol, completedAt.Format(metadataTimeLayout)); err != nil {
		return err
	}
	return r.store.UpdateCell(ctx, title, metadataRow, metadataSummaryCol, summary)
}
