// Package wiki implements the optional historical-context lookup: a Wikipedia
// search-then-summarize client and an enricher that reduces summaries to a
// bounded set of period-vocabulary keywords.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"rewind/pkg/flight"
)

const (
	searchAPI     = "https://en.wikipedia.org/w/api.php"
	summaryAPI    = "https://en.wikipedia.org/api/rest_v1/page/summary/%s"
	searchLimit   = 2
	clientTimeout = 8 * time.Second
)

// Result is one search hit with its page summary.
type Result struct {
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	Summary          string `json:"summary"`
	URL              string `json:"url"`
}

// Client looks up free-text queries against the Wikipedia APIs. Identical
// concurrent queries are coalesced into one round trip and results are held
// for a short window; all requests share one politeness rate limit.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	lookups flight.Cache[string, []Result]
	ctx     context.Context
}

// NewClient creates a lookup client. ctx bounds the lifetime of every request
// the client makes, including ones joined by later callers.
func NewClient(ctx context.Context) *Client {
	c := &Client{
		http:    &http.Client{Timeout: clientTimeout},
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 2),
		ctx:     ctx,
	}
	c.lookups = flight.NewCache(c.lookup)
	c.lookups.Expiry(15 * time.Minute)
	return c
}

// Lookup performs a search-then-summarize lookup for query.
func (c *Client) Lookup(ctx context.Context, query string) ([]Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return c.lookups.Get(query)
}

func (c *Client) lookup(query string) ([]Result, error) {
	if err := c.limiter.Wait(c.ctx); err != nil {
		return nil, err
	}

	hits, err := c.search(query, searchLimit)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		// A missing summary still leaves a usable title and description.
		summary, err := c.pageSummary(hit.Title)
		if err == nil {
			hit.Summary = summary
		}
		results = append(results, hit)
	}
	return results, nil
}

func (c *Client) search(query string, limit int) ([]Result, error) {
	params := url.Values{
		"action":    {"opensearch"},
		"search":    {query},
		"limit":     {strconv.Itoa(limit)},
		"namespace": {"0"},
		"format":    {"json"},
	}

	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, searchAPI+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia search returned status %d", resp.StatusCode)
	}

	// Opensearch answers [searchTerm, titles[], descriptions[], urls[]].
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload) < 4 {
		return nil, fmt.Errorf("unexpected opensearch response with %d elements", len(payload))
	}

	var titles, descriptions, urls []string
	if err := json.Unmarshal(payload[1], &titles); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload[2], &descriptions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload[3], &urls); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(titles))
	for i, title := range titles {
		r := Result{Title: title}
		if i < len(descriptions) {
			r.ShortDescription = descriptions[i]
		}
		if i < len(urls) {
			r.URL = urls[i]
		}
		results = append(results, r)
	}
	return results, nil
}

func (c *Client) pageSummary(title string) (string, error) {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, fmt.Sprintf(summaryAPI, url.PathEscape(title)), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summary for %q returned status %d", title, resp.StatusCode)
	}

	var body struct {
		Extract string `json:"extract"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.Extract, nil
}
