package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/burgolabs/briefing/app/region"
	"github.com/burgolabs/briefing/app/serp"
	"github.com/burgolabs/briefing/app/sheets"
	"github.com/burgolabs/briefing/app/signal"
)

// RetrieveTask collects the day's signals for one region and replaces the
// four data worksheets with them.
type RetrieveTask struct {
	region   *region.Region
	searcher Searcher
	enricher Enricher
	store    TableStore
	ns       sheets.Namespace
}

func NewRetrieveTask(reg *region.Region, searcher Searcher, enricher Enricher, store TableStore) *RetrieveTask {
	return &RetrieveTask{
		region:   reg,
		searcher: searcher,
		enricher: enricher,
		store:    store,
		ns:       sheets.Namespace{Tag: reg.Tag},
	}
}

// Execute fetches all signals first, then writes the four tables in a
// fixed order. Mid-sequence store failures leave earlier tables
// overwritten; nothing is rolled back.
func (t *RetrieveTask) Execute(ctx context.Context) error {
	news, err := t.searcher.FetchNews(ctx, t.region)
	if err != nil {
		return fmt.Errorf("failed to fetch news: %w", err)
	}

	tops, err := t.searcher.FetchTopStories(ctx, t.region)
	if err != nil {
		return fmt.Errorf("failed to fetch top stories: %w", err)
	}

	rising, top, err := t.searcher.FetchTrends(ctx, t.region)
	if err != nil {
		return fmt.Errorf("failed to fetch trends: %w", err)
	}

	newsRows := t.enrich(ctx, signal.Dedupe(resultRows(news), 1, signal.CapNews))
	if err := t.store.Overwrite(ctx, t.ns.Title(sheets.KindGoogleNews), signal.NewsHeader, newsRows); err != nil {
		return fmt.Errorf("failed to store news table: %w", err)
	}

	topRows := t.enrich(ctx, signal.Dedupe(resultRows(tops), 1, signal.CapTopStories))
	if err := t.store.Overwrite(ctx, t.ns.Title(sheets.KindTopStories), signal.NewsHeader, topRows); err != nil {
		return fmt.Errorf("failed to store top stories table: %w", err)
	}

	risingRows := trendRows(rising, signal.CapTrends)
	if err := t.store.Overwrite(ctx, t.ns.Title(sheets.KindTrendsRising), signal.TrendsHeader, risingRows); err != nil {
		return fmt.Errorf("failed to store rising trends table: %w", err)
	}

	topTrendRows := trendRows(top, signal.CapTrends)
	if err := t.store.Overwrite(ctx, t.ns.Title(sheets.KindTrendsTop), signal.TrendsHeader, topTrendRows); err != nil {
		return fmt.Errorf("failed to store top trends table: %w", err)
	}

	slog.Info("Signals retrieved",
		"region", t.region.ID,
		"news", len(newsRows),
		"top_stories", len(topRows),
		"trends_rising", len(risingRows),
		"trends_top", len(topTrendRows))

	return nil
}

// enrich appends a meta description column to 3-column rows. Enrichment
// failures degrade to the row's own snippet.
func (t *RetrieveTask) enrich(ctx context.Context, rows [][]string) [][]string {
	urls := make([]string, len(rows))
	for i, row := range rows {
		urls[i] = row[1]
	}

	descriptions := t.enricher.Run(ctx, urls, t.region.Search.AcceptLanguage)

	out := make([][]string, len(rows))
	for i, row := range rows {
		meta := descriptions[i]
		if meta == "" {
			meta = signal.NoMetaDescription
		}
		if strings.HasPrefix(meta, "HTTP") || strings.HasPrefix(meta, "Error") {
			meta = row[2]
			if meta == "" {
				meta = signal.NoMetaDescription
			}
		}
		out[i] = append(append([]string{}, row...), meta)
	}

	return out
}

func resultRows(results []serp.NewsResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		title, link, snippet := r.Title, r.Link, r.Snippet
		if title == "" {
			title = signal.NoTitle
		}
		if link == "" {
			link = signal.NoLink
		}
		if snippet == "" {
			snippet = signal.NoSnippet
		}
		rows = append(rows, []string{title, link, snippet})
	}
	return rows
}

func trendRows(queries []serp.TrendQuery, keepN int) [][]string {
	if len(queries) > keepN {
		queries = queries[:keepN]
	}
	rows := make([][]string, 0, len(queries))
	for _, q := range queries {
		rows = append(rows, []string{q.Query, string(q.Value)})
	}
	return rows
}
