package pipeline

import (
	"context"

	"github.com/burgolabs/briefing/app/region"
	"github.com/burgolabs/briefing/app/serp"
)

// Searcher covers the three provider fetches the retrieval stage needs.
// Implemented by serp.Client.
type Searcher interface {
	FetchNews(ctx context.Context, reg *region.Region) ([]serp.NewsResult, error)
	FetchTopStories(ctx context.Context, reg *region.Region) ([]serp.NewsResult, error)
	FetchTrends(ctx context.Context, reg *region.Region) (rising, top []serp.TrendQuery, err error)
}

// TableStore covers the workbook operations the pipeline needs.
// Implemented by sheets.Store.
type TableStore interface {
	Ensure(ctx context.Context, title string) (int64, error)
	Overwrite(ctx context.Context, title string, header []string, rows [][]string) error
	AppendRow(ctx context.Context, title string, row []string) error
	ReadTable(ctx context.Context, title string) ([][]string, error)
	ReadCell(ctx context.Context, title string, row, col int) (string, error)
	UpdateCell(ctx context.Context, title string, row, col int, value string) error
}

// Enricher resolves page URLs to meta descriptions, positionally.
// Implemented by signal.MetaEnricher.
type Enricher interface {
	Run(ctx context.Context, urls []string, acceptLanguage string) []string
}
