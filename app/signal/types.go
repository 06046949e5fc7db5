package signal

// Default caps applied before worksheet writes
const (
	CapNews       = 40
	CapTopStories = 40
	CapTrends     = 20
)

// Substitutions for fields missing from provider records
const (
	NoTitle   = "No Title"
	NoLink    = "No Link"
	NoSnippet = "No Snippet"
)

// Sentinel results from meta description enrichment
const (
	InvalidURL        = "Invalid URL"
	NoMetaDescription = "No Meta Description"
	FetchError        = "Error Fetching Description"
)

// Worksheet headers
var (
	NewsHeader   = []string{"Title", "Link", "Snippet", "Meta Description"}
	TrendsHeader = []string{"Query", "Value"}
)
