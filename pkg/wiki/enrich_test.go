package wiki

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup struct {
	results map[string][]Result
	err     error
	queries []string
}

func (s *stubLookup) Lookup(_ context.Context, query string) ([]Result, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.results[query], nil
}

func TestEnrichQueryConstruction(t *testing.T) {
	lookup := &stubLookup{}
	e := NewEnricher(lookup)

	e.Enrich(context.Background(), "Paris", 1920, []string{"Haussmann", "Gothic", "Baroque", "Extra"})

	assert.Equal(t, []string{
		"Paris 1920",
		"history of Paris",
		"Paris Haussmann",
		"Paris Gothic",
		"Paris Baroque",
	}, lookup.queries)
}

func TestEnrichTokenRules(t *testing.T) {
	lookup := &stubLookup{results: map[string][]Result{
		"Paris 1920": {{
			Title:   "Paris",
			Summary: `Paris, the capital of France; known for (Haussmann) boulevards, 19th-century facades and an extraordinarilylongword.`,
		}},
	}}
	e := NewEnricher(lookup)

	tokens := e.Enrich(context.Background(), "Paris", 1920, nil)

	assert.Contains(t, tokens, "paris")
	assert.Contains(t, tokens, "capital")
	assert.Contains(t, tokens, "haussmann")
	assert.Contains(t, tokens, "boulevards")
	// hyphenated and numeric words are not purely alphabetic
	assert.NotContains(t, tokens, "19th-century")
	// too long after trimming
	assert.NotContains(t, tokens, "extraordinarilylongword")
	// too short
	assert.NotContains(t, tokens, "of")

	for _, tok := range tokens {
		assert.Equal(t, strings.ToLower(tok), tok)
		assert.GreaterOrEqual(t, len(tok), 3)
		assert.LessOrEqual(t, len(tok), 15)
	}
}

func TestEnrichDedupesTitlesAndCapsResults(t *testing.T) {
	same := Result{Title: "Paris", Summary: "unique alpha words here"}
	many := make([]Result, 0, 8)
	for i := 0; i < 8; i++ {
		many = append(many, Result{
			Title:   fmt.Sprintf("Article %c", 'A'+i),
			Summary: fmt.Sprintf("wordnumber%c", 'a'+i),
		})
	}
	lookup := &stubLookup{results: map[string][]Result{
		"Paris 1920":       {same, same},
		"history of Paris": many,
	}}
	e := NewEnricher(lookup)

	tokens := e.Enrich(context.Background(), "Paris", 1920, nil)
	require.NotEmpty(t, tokens)

	// one Paris result plus four of the eight articles fills the cap of five
	assert.Contains(t, tokens, "wordnumberd")
	assert.NotContains(t, tokens, "wordnumbere")
}

func TestEnrichSummaryTruncationKeepsRunesWhole(t *testing.T) {
	// 395 filler runes + space + "café" lands the accented rune right at the
	// 400-character cut; byte slicing there would split it.
	summary := strings.Repeat("x", 395) + " café boulevard"
	lookup := &stubLookup{results: map[string][]Result{
		"Paris 1920": {{Title: "Paris", Summary: summary}},
	}}
	e := NewEnricher(lookup)

	tokens := e.Enrich(context.Background(), "Paris", 1920, nil)
	assert.Contains(t, tokens, "café")
	assert.NotContains(t, tokens, "boulevard")
	for _, tok := range tokens {
		assert.True(t, utf8.ValidString(tok))
	}
}

func TestEnrichCapsTokens(t *testing.T) {
	words := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		words = append(words, fmt.Sprintf("alpha%cbeta", 'a'+i%26))
	}
	lookup := &stubLookup{results: map[string][]Result{
		"Paris 1920": {{Title: "Paris", Summary: strings.Join(words[:20], " ")}},
	}}
	e := NewEnricher(lookup)

	tokens := e.Enrich(context.Background(), "Paris", 1920, nil)
	assert.LessOrEqual(t, len(tokens), 15)
}

func TestEnrichSwallowsLookupErrors(t *testing.T) {
	lookup := &stubLookup{err: errors.New("rate limited")}
	e := NewEnricher(lookup)

	tokens := e.Enrich(context.Background(), "Paris", 1920, []string{"Haussmann"})
	assert.NotNil(t, tokens)
	assert.Empty(t, tokens)
	assert.Len(t, lookup.queries, 3)
}

func TestEnrichEmptyLocation(t *testing.T) {
	lookup := &stubLookup{}
	e := NewEnricher(lookup)

	assert.Empty(t, e.Enrich(context.Background(), "   ", 1920, nil))
	assert.Empty(t, lookup.queries)
}

func TestEnrichCachesByInput(t *testing.T) {
	lookup := &stubLookup{results: map[string][]Result{
		"Paris 1920": {{Title: "Paris", Summary: "haussmann boulevards"}},
	}}
	e := NewEnricher(lookup)

	first := e.Enrich(context.Background(), "Paris", 1920, nil)
	calls := len(lookup.queries)
	second := e.Enrich(context.Background(), "paris", 1920, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, calls, len(lookup.queries), "second call should be served from cache")

	e.Enrich(context.Background(), "Paris", 1820, nil)
	assert.Greater(t, len(lookup.queries), calls, "different year is a different cache key")
}
