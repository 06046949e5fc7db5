package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Shared workbook configuration
	SpreadsheetID   string `long:"spreadsheet-id" env:"SPREADSHEET_ID" description:"Google Sheets workbook ID (required)" required:"true"`
	CredentialsFile string `long:"google-credentials" env:"GOOGLE_CREDENTIALS_FILE" default:"./service-account.json" description:"Path to Google service account credentials JSON"`

	// External providers
	SerpAPIKey  string `long:"serpapi-key" env:"SERPAPI_KEY" description:"SerpAPI key (required)" required:"true"`
	OpenAIKey   string `long:"openai-key" env:"OPENAI_API_KEY" description:"OpenAI API key (required)" required:"true"`
	OpenAIModel string `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-4.1" description:"OpenAI model used for briefing generation"`

	// Application configuration
	RegionsDir        string `long:"regions-dir" env:"REGIONS_DIR" default:"./regions" description:"Directory containing region configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	CooldownHours     int    `long:"cooldown-hours" env:"COOLDOWN_HOURS" default:"3" description:"Minimum hours between full pipeline runs"`
	EnrichConcurrency int    `long:"enrich-concurrency" env:"ENRICH_CONCURRENCY" default:"10" description:"Maximum concurrent page fetches during meta description enrichment"`
	PageFetchTimeout  int    `long:"page-fetch-timeout" env:"PAGE_FETCH_TIMEOUT" default:"10" description:"Per-page fetch timeout in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36" description:"User agent string for page fetches"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		SpreadsheetID:     raw.SpreadsheetID,
		CredentialsFile:   raw.CredentialsFile,
		SerpAPIKey:        raw.SerpAPIKey,
		OpenAIKey:         raw.OpenAIKey,
		OpenAIModel:       raw.OpenAIModel,
		RegionsDir:        raw.RegionsDir,
		Port:              raw.Port,
		CooldownHours:     raw.CooldownHours,
		EnrichConcurrency: raw.EnrichConcurrency,
		PageFetchTimeout:  raw.PageFetchTimeout,
		APIAccessKey:      raw.APIAccessKey,
		UserAgent:         raw.UserAgent,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if cfg.CooldownHours < 0 {
		return nil, fmt.Errorf("cooldown hours must be non-negative, got %d", cfg.CooldownHours)
	}
	if cfg.EnrichConcurrency <= 0 {
		return nil, fmt.Errorf("enrich concurrency must be positive, got %d", cfg.EnrichConcurrency)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
