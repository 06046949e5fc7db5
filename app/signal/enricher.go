package signal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// MetaEnricher fetches pages and extracts their meta description tag.
// Failures never propagate; they are downgraded to sentinel strings so
// callers can substitute cheaper data.
type MetaEnricher struct {
	httpClient  *http.Client
	concurrency int
	timeout     time.Duration
	userAgent   string
}

func NewMetaEnricher(httpClient *http.Client, concurrency int, timeout time.Duration, userAgent string) *MetaEnricher {
	if concurrency <= 0 {
		concurrency = 10
	}
	return &MetaEnricher{
		httpClient:  httpClient,
		concurrency: concurrency,
		timeout:     timeout,
		userAgent:   userAgent,
	}
}

// Run fetches descriptions for all URLs with at most `concurrency` requests
// in flight. The result slice has the same length and order as urls,
// regardless of completion order.
func (e *MetaEnricher) Run(ctx context.Context, urls []string, acceptLanguage string) []string {
	results := make([]string, len(urls))

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		go func(idx int, pageURL string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = e.describe(ctx, pageURL, acceptLanguage)
		}(i, url)
	}

	wg.Wait()
	return results
}

func (e *MetaEnricher) describe(ctx context.Context, pageURL string, acceptLanguage string) string {
	if pageURL == "" || !strings.HasPrefix(pageURL, "http") {
		return InvalidURL
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", pageURL, nil)
	if err != nil {
		return FetchError
	}

	req.Header.Set("User-Agent", e.userAgent)
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		slog.Debug("Page fetch failed", "url", pageURL, "error", err)
		return FetchError
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("HTTP %d", resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return FetchError
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return FetchError
	}

	content, ok := doc.Find(`meta[name="description"]`).First().Attr("content")
	if !ok || strings.TrimSpace(content) == "" {
		return NoMetaDescription
	}

	return strings.TrimSpace(content)
}
