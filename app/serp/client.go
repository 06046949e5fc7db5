package serp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/burgolabs/briefing/app/region"
)

const defaultBaseURL = "https://serpapi.com/search.json"

const (
	trendsMaxAttempts = 5
	trendsBackoffBase = 10 * time.Second
)

var (
	// ErrRateLimited signals an HTTP 429 from the provider.
	ErrRateLimited = errors.New("serpapi: rate limit exceeded")

	// ErrRateLimitExhausted signals that the trends retry budget ran out.
	ErrRateLimitExhausted = errors.New("serpapi: rate limit retries exhausted")
)

// Client wraps the SerpAPI search endpoint for news, top stories, and
// trends related queries.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string

	// replaced in tests to avoid real backoff sleeps
	sleep func(time.Duration)
}

func NewClient(apiKey string, httpClient *http.Client) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		sleep:      time.Sleep,
	}
}

// FetchNews runs a recency-bounded Google News search for the region's
// market query. An empty result list is not an error.
func (c *Client) FetchNews(ctx context.Context, reg *region.Region) ([]NewsResult, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("no_cache", "true")
	params.Set("q", reg.Search.Query)
	params.Set("tbs", "qdr:d")
	params.Set("gl", reg.Search.Country)
	params.Set("hl", reg.Search.Language)
	params.Set("tbm", "nws")
	params.Set("num", "40")
	if reg.Search.GoogleDomain != "" {
		params.Set("google_domain", reg.Search.GoogleDomain)
	}
	if reg.Search.Location != "" {
		params.Set("location", reg.Search.Location)
	}

	var resp newsResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch news results: %w", err)
	}

	return resp.NewsResults, nil
}

// FetchTopStories runs a plain search and returns its top-stories block.
func (c *Client) FetchTopStories(ctx context.Context, reg *region.Region) ([]NewsResult, error) {
	params := url.Values{}
	params.Set("q", reg.Search.Query)
	params.Set("hl", reg.Search.Language)
	params.Set("gl", reg.Search.Country)

	var resp topStoriesResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch top stories: %w", err)
	}

	return resp.TopStories, nil
}

// FetchTrends returns the rising and top related queries for the region's
// index topic. Rate-limit responses are retried with exponential backoff
// (10s, 20s, 40s, ...) up to trendsMaxAttempts; other errors propagate
// immediately.
func (c *Client) FetchTrends(ctx context.Context, reg *region.Region) (rising, top []TrendQuery, err error) {
	params := url.Values{}
	params.Set("engine", "google_trends")
	params.Set("q", reg.Trends.Topic)
	params.Set("geo", reg.Trends.Geo)
	params.Set("data_type", "RELATED_QUERIES")
	params.Set("date", reg.Trends.Window)
	if reg.Trends.TZOffset != "" {
		params.Set("tz", reg.Trends.TZOffset)
	}

	for attempt := 0; attempt < trendsMaxAttempts; attempt++ {
		var resp trendsResponse
		err = c.get(ctx, params, &resp)
		if err == nil {
			return resp.RelatedQueries.Rising, resp.RelatedQueries.Top, nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return nil, nil, fmt.Errorf("failed to fetch trends: %w", err)
		}
		if attempt == trendsMaxAttempts-1 {
			break
		}

		wait := trendsBackoffBase * (1 << attempt)
		slog.Warn("Trends request rate limited, backing off", "attempt", attempt, "wait", wait.String())
		c.sleep(wait)
	}

	return nil, nil, fmt.Errorf("trends fetch failed after %d attempts: %w", trendsMaxAttempts, ErrRateLimitExhausted)
}

func (c *Client) get(ctx context.Context, params url.Values, target any) error {
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
