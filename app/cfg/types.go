package cfg

type Cfg struct {
	// Shared workbook configuration
	SpreadsheetID   string
	CredentialsFile string

	// External providers
	SerpAPIKey  string
	OpenAIKey   string
	OpenAIModel string

	// Application configuration
	RegionsDir        string
	Port              string
	CooldownHours     int
	EnrichConcurrency int
	PageFetchTimeout  int
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
