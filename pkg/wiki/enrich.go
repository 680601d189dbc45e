package wiki

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	cache "github.com/patrickmn/go-cache"
)

const (
	maxStyleHints   = 3
	maxResults      = 5
	maxSummaryChars = 400
	maxTokens       = 15
	minTokenLen     = 3
	maxTokenLen     = 15
)

// LookupClient is the search-then-summarize capability the enricher consumes.
type LookupClient interface {
	Lookup(ctx context.Context, query string) ([]Result, error)
}

// Enricher turns lookup summaries for a location and year into a short,
// ordered, de-duplicated keyword list. It is total-failure tolerant: any
// lookup error contributes nothing and the worst case is an empty result,
// never an error to the caller.
type Enricher struct {
	client LookupClient
	cache  *cache.Cache
}

func NewEnricher(client LookupClient) *Enricher {
	return &Enricher{
		client: client,
		cache:  cache.New(30*time.Minute, 10*time.Minute),
	}
}

// Enrich collects up to maxResults distinct-titled lookup results for the
// location/year queries and extracts up to maxTokens keyword tokens from
// their summaries.
func (e *Enricher) Enrich(ctx context.Context, location string, year int, styleHints []string) []string {
	location = strings.TrimSpace(location)
	if location == "" || e.client == nil {
		return []string{}
	}

	hints := styleHints
	if len(hints) > maxStyleHints {
		hints = hints[:maxStyleHints]
	}

	key := fmt.Sprintf("%s|%d|%s", strings.ToLower(location), year, strings.ToLower(strings.Join(hints, ",")))
	if cached, ok := e.cache.Get(key); ok {
		return cached.([]string)
	}

	queries := []string{
		fmt.Sprintf("%s %d", location, year),
		"history of " + location,
	}
	for _, hint := range hints {
		if hint = strings.TrimSpace(hint); hint != "" {
			queries = append(queries, location+" "+hint)
		}
	}

	seen := make(map[string]struct{}, maxResults)
	var collected []Result
	for _, query := range queries {
		if len(collected) >= maxResults {
			break
		}
		results, err := e.client.Lookup(ctx, query)
		if err != nil {
			log.Debug("enrichment lookup failed", "query", query, "error", err)
			continue
		}
		for _, r := range results {
			title := strings.ToLower(strings.TrimSpace(r.Title))
			if title == "" {
				continue
			}
			if _, ok := seen[title]; ok {
				continue
			}
			seen[title] = struct{}{}
			collected = append(collected, r)
			if len(collected) >= maxResults {
				break
			}
		}
	}

	tokens := extractTokens(collected)
	e.cache.Set(key, tokens, cache.DefaultExpiration)
	return tokens
}

// extractTokens reduces result summaries to lowercase alphabetic keywords of
// 3-15 characters, unique across all results, first-seen order, capped at
// maxTokens.
func extractTokens(results []Result) []string {
	out := make([]string, 0, maxTokens)
	seen := make(map[string]struct{}, maxTokens)
	for _, r := range results {
		summary := r.Summary
		if runes := []rune(summary); len(runes) > maxSummaryChars {
			summary = string(runes[:maxSummaryChars])
		}
		for _, word := range strings.Fields(summary) {
			tok := strings.ToLower(strings.Trim(word, `.,;:"()`))
			if len(tok) < minTokenLen || len(tok) > maxTokenLen || !isAlpha(tok) {
				continue
			}
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			out = append(out, tok)
			if len(out) >= maxTokens {
				return out
			}
		}
	}
	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
