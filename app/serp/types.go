package serp

import "encoding/json"

// NewsResult is one record from a news or top-stories search. Fields the
// provider omits stay empty; substitution happens at the pipeline layer.
type NewsResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// TrendQuery is one related-queries record from a trends search.
type TrendQuery struct {
	Query string     `json:"query"`
	Value FlexString `json:"value"`
}

// FlexString tolerates provider values arriving as either JSON strings
// ("Breakout", "+170%") or bare numbers.
type FlexString string

func (v *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FlexString(s)
		return nil
	}
	*v = FlexString(data)
	return nil
}

type newsResponse struct {
	NewsResults []NewsResult `json:"news_results"`
}

type topStoriesResponse struct {
	TopStories []NewsResult `json:"top_stories"`
}

type trendsResponse struct {
	RelatedQueries struct {
		Rising []TrendQuery `json:"rising"`
		Top    []TrendQuery `json:"top"`
	} `json:"related_queries"`
}
