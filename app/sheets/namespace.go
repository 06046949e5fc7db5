package sheets

// Kind is a logical table in the shared workbook.
type Kind string

const (
	KindGoogleNews   Kind = "Google News"
	KindTopStories   Kind = "Top Stories"
	KindTrendsRising Kind = "Google Trends Rising"
	KindTrendsTop    Kind = "Google Trends Top"
	KindSummaries    Kind = "Summaries"
	KindMetadata     Kind = "Metadata"
)

// Namespace isolates one region's worksheets from another's within the
// same workbook. Formatting happens here and nowhere else, so call sites
// never concatenate suffix strings themselves.
type Namespace struct {
	Tag string
}

// Title returns the worksheet title for a table kind, e.g. "Google News CA".
func (n Namespace) Title(k Kind) string {
	if n.Tag == "" {
		return string(k)
	}
	return string(k) + " " + n.Tag
}
