package pipeline

import (
	"context"
	"fmt"

	"github.com/burgolabs/briefing/app/region"
	"github.com/burgolabs/briefing/app/serp"
)

func caRegion() *region.Region {
	return &region.Region{
		ID:       "ca",
		Tag:      "CA",
		Display:  "Canada",
		Index:    "S&P/TSX Composite Index",
		Timezone: "America/Toronto",
		Search: region.Search{
			Query:          "tsx today",
			Country:        "ca",
			Language:       "en",
			AcceptLanguage: "en-CA,en;q=0.9",
		},
		Trends: region.Trends{
			Topic: "/m/09qwc",
			Geo:   "CA",
		},
		Briefing: region.Briefing{
			Publisher: "a Canadian publisher focused on TSX-listed stocks",
		},
	}
}

type fakeSearcher struct {
	news       []serp.NewsResult
	tops       []serp.NewsResult
	rising     []serp.TrendQuery
	top        []serp.TrendQuery
	newsErr    error
	topsErr    error
	trendsErr  error
	fetchCalls int
}

func (f *fakeSearcher) FetchNews(ctx context.Context, reg *region.Region) ([]serp.NewsResult, error) {
	f.fetchCalls++
	return f.news, f.newsErr
}

func (f *fakeSearcher) FetchTopStories(ctx context.Context, reg *region.Region) ([]serp.NewsResult, error) {
	f.fetchCalls++
	return f.tops, f.topsErr
}

func (f *fakeSearcher) FetchTrends(ctx context.Context, reg *region.Region) ([]serp.TrendQuery, []serp.TrendQuery, error) {
	f.fetchCalls++
	return f.rising, f.top, f.trendsErr
}

// fakeEnricher resolves each URL through a lookup map, defaulting to a
// derived description.
type fakeEnricher struct {
	byURL map[string]string
}

func (f *fakeEnricher) Run(ctx context.Context, urls []string, acceptLanguage string) []string {
	out := make([]string, len(urls))
	for i, u := range urls {
		if desc, ok := f.byURL[u]; ok {
			out[i] = desc
		} else {
			out[i] = "meta for " + u
		}
	}
	return out
}

type fakeStore struct {
	tables       map[string][][]string
	cells        map[string]string
	overwriteErr map[string]error
	overwrites   []string
	appends      []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tables:       make(map[string][][]string),
		cells:        make(map[string]string),
		overwriteErr: make(map[string]error),
	}
}

func cellKey(title string, row, col int) string {
	return fmt.Sprintf("%s!%d:%d", title, row, col)
}

func (f *fakeStore) Ensure(ctx context.Context, title string) (int64, error) {
	return 1, nil
}

func (f *fakeStore) Overwrite(ctx context.Context, title string, header []string, rows [][]string) error {
	if err := f.overwriteErr[title]; err != nil {
		return err
	}
	table := [][]string{header}
	table = append(table, rows...)
	f.tables[title] = table
	f.overwrites = append(f.overwrites, title)
	return nil
}

func (f *fakeStore) AppendRow(ctx context.Context, title string, row []string) error {
	f.tables[title] = append(f.tables[title], row)
	f.appends = append(f.appends, title)
	return nil
}

func (f *fakeStore) ReadTable(ctx context.Context, title string) ([][]string, error) {
	return f.tables[title], nil
}

func (f *fakeStore) ReadCell(ctx context.Context, title string, row, col int) (string, error) {
	return f.cells[cellKey(title, row, col)], nil
}

func (f *fakeStore) UpdateCell(ctx context.Context, title string, row, col int, value string) error {
	f.cells[cellKey(title, row, col)] = value
	return nil
}

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
