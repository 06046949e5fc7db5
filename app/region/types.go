package region

// Region represents a complete region configuration
type Region struct {
	ID       string   `yaml:"id"`
	Tag      string   `yaml:"tag"`
	Display  string   `yaml:"display"`
	Index    string   `yaml:"index"`
	Timezone string   `yaml:"timezone"`
	Search   Search   `yaml:"search"`
	Trends   Trends   `yaml:"trends"`
	Briefing Briefing `yaml:"briefing"`
}

// Search contains Google News and Top Stories query settings
type Search struct {
	Query          string `yaml:"query"`
	GoogleDomain   string `yaml:"google_domain"`
	Country        string `yaml:"gl"`
	Language       string `yaml:"hl"`
	Location       string `yaml:"location"`
	AcceptLanguage string `yaml:"accept_language"`
}

// Trends contains related-queries settings for the market index topic
type Trends struct {
	Topic    string `yaml:"topic"`
	Geo      string `yaml:"geo"`
	TZOffset string `yaml:"tz_offset"`
	Window   string `yaml:"window"`
}

// Briefing contains prompt framing for the journalist briefs
type Briefing struct {
	Publisher string `yaml:"publisher"`
}
