package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/burgolabs/briefing/app/llm"
	"github.com/burgolabs/briefing/app/region"
	"github.com/burgolabs/briefing/app/sheets"
)

// SummarizeTask reads the four signal tables back from the workbook,
// flattens them into a prompt, and appends the generated briefing to the
// summaries worksheet.
type SummarizeTask struct {
	region *region.Region
	store  TableStore
	gen    llm.Generator
	ns     sheets.Namespace
	now    func() time.Time
}

func NewSummarizeTask(reg *region.Region, store TableStore, gen llm.Generator) *SummarizeTask {
	return &SummarizeTask{
		region: reg,
		store:  store,
		gen:    gen,
		ns:     sheets.Namespace{Tag: reg.Tag},
		now:    time.Now,
	}
}

func (t *SummarizeTask) Execute(ctx context.Context) (string, error) {
	news, err := t.store.ReadTable(ctx, t.ns.Title(sheets.KindGoogleNews))
	if err != nil {
		return "", fmt.Errorf("failed to read news table: %w", err)
	}
	tops, err := t.store.ReadTable(ctx, t.ns.Title(sheets.KindTopStories))
	if err != nil {
		return "", fmt.Errorf("failed to read top stories table: %w", err)
	}
	rising, err := t.store.ReadTable(ctx, t.ns.Title(sheets.KindTrendsRising))
	if err != nil {
		return "", fmt.Errorf("failed to read rising trends table: %w", err)
	}
	topTrends, err := t.store.ReadTable(ctx, t.ns.Title(sheets.KindTrendsTop))
	if err != nil {
		return "", fmt.Errorf("failed to read top trends table: %w", err)
	}

	prompt := t.buildPrompt(news, tops, rising, topTrends)

	summary, err := t.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate briefing: %w", err)
	}

	if err := t.store.AppendRow(ctx, t.ns.Title(sheets.KindSummaries), []string{summary}); err != nil {
		return "", fmt.Errorf("failed to store briefing: %w", err)
	}

	slog.Info("Briefing generated", "region", t.region.ID, "prompt_chars", len(prompt), "summary_chars", len(summary))
	return summary, nil
}

func (t *SummarizeTask) buildPrompt(news, tops, rising, topTrends [][]string) string {
	var b strings.Builder

	b.WriteString(t.instructions())
	b.WriteString("\n\nHere is the data to analyse:\n")
	b.WriteString(t.dataBlock(news, tops, rising, topTrends))

	return b.String()
}

// dataBlock flattens the four tables into one line-per-row text block.
// Header rows are skipped; a missing table contributes an empty section.
func (t *SummarizeTask) dataBlock(news, tops, rising, topTrends [][]string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Google News Data (%s):\n", t.region.Display)
	for _, row := range dataRows(news) {
		fmt.Fprintf(&b, "- Title: %s, Link: %s, Snippet: %s\n", col(row, 0), col(row, 1), col(row, 2))
	}

	fmt.Fprintf(&b, "\nTop Stories Data (%s):\n", t.region.Display)
	for _, row := range dataRows(tops) {
		fmt.Fprintf(&b, "- Title: %s, Link: %s, Snippet: %s\n", col(row, 0), col(row, 1), col(row, 2))
	}

	b.WriteString("\nGoogle Trends Rising:\n")
	for _, row := range dataRows(rising) {
		fmt.Fprintf(&b, "- Query: %s, Value: %s\n", col(row, 0), col(row, 1))
	}

	b.WriteString("\nGoogle Trends Top:\n")
	for _, row := range dataRows(topTrends) {
		fmt.Fprintf(&b, "- Query: %s, Value: %s\n", col(row, 0), col(row, 1))
	}

	return b.String()
}

func (t *SummarizeTask) instructions() string {
	loc, err := time.LoadLocation(t.region.Timezone)
	if err != nil {
		loc = time.UTC
	}
	today := t.now().In(loc).Format("2006-01-02")

	return fmt.Sprintf(`
You are a seasoned financial news editor for %s.

Your tasks:
1. Analyse **Google Trends Rising** - list the top 10 rising queries and flag any "Breakout".
2. Analyse **Google Trends Top** - highlight consistently high-volume queries.
3. Review **Google News %s** articles for recurring themes and notable entities.
4. Review **Top Stories** for "%s" for significant headlines.

**Formatting rules**
* plain text, single asterisks (*) for bold
* horizontal rules are lines of hyphens (-----)
* no Markdown headers
* start major sections with an emoji for visual scanning

--------------------------------------------------
*Summary of Findings [%s]*
--------------------------------------------------
*Google Trends Insights*: top 10 rising queries (with volumes)

*Key Trends & Recurring Themes*: top 5 themes (one line each)

*Notable Entities*: companies, sectors, indexes

--------------------------------------------------
*5 Detailed Briefs for Journalists*
--------------------------------------------------

For **each** brief use the structure below:

--------------------------------------------------
*Brief Title*
--------------------------------------------------
1. *Synopsis*
2. *Key Themes*
3. *Entities*
4. *Source Insights*
5. *Suggested Angles*
`, t.region.Briefing.Publisher, t.region.Tag, t.region.Index, today)
}

func dataRows(table [][]string) [][]string {
	if len(table) <= 1 {
		return nil
	}
	return table[1:]
}

func col(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
