// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich attaches descriptive text to locations. Lookups never
// fail the caller: a location without a usable article gets an empty
// summary.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pdiddy/headline-bench/internal/httputil"
	"github.com/pdiddy/headline-bench/pkg/types"
)

// wikipediaSummaryBase is the REST page summary endpoint; the page title
// is appended. Declared as a var so tests can substitute an httptest server.
var wikipediaSummaryBase = "https://en.wikipedia.org/api/rest_v1/page/summary/"

var (
	// ErrAmbiguous marks a title that resolves to a disambiguation page.
	ErrAmbiguous = errors.New("ambiguous title")

	// ErrNotFound marks a title with no article.
	ErrNotFound = errors.New("no article")
)

// QueryStrategy rewrites a lookup query. An empty result skips the strategy.
type QueryStrategy func(query string) string

// FullQuery uses the query as given.
func FullQuery(query string) string {
	return strings.TrimSpace(query)
}

// FirstSegment keeps the text before the first comma, so "Springfield,
// United States" becomes "Springfield".
func FirstSegment(query string) string {
	head, _, _ := strings.Cut(query, ",")
	return strings.TrimSpace(head)
}

var parenthetical = regexp.MustCompile(`\s*\([^)]*\)`)

// StripParenthetical removes parenthesized qualifiers, then keeps the first
// comma segment: "Kyiv (Kiev), Ukraine" becomes "Kyiv".
func StripParenthetical(query string) string {
	return FirstSegment(parenthetical.ReplaceAllString(query, ""))
}

// DefaultStrategies is the lookup order used when a Summarizer has none set.
var DefaultStrategies = []QueryStrategy{FullQuery, FirstSegment, StripParenthetical}

// Summarizer fetches short Wikipedia summaries.
type Summarizer struct {
	Client *httputil.Client

	// Sentences caps the summary length; zero keeps the whole extract.
	Sentences int

	Strategies []QueryStrategy
}

// NewSummarizer returns a Summarizer with its own rate-limited client.
func NewSummarizer(cfg types.DatasetConfig) *Summarizer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	sentences := cfg.SummarySentences
	if sentences <= 0 {
		sentences = 3
	}
	return &Summarizer{
		Client: &httputil.Client{
			HTTP:       &http.Client{Timeout: timeout},
			Limiter:    httputil.NewLimiter(cfg.RequestsPerSecond),
			UserAgent:  cfg.UserAgent,
			MaxRetries: cfg.MaxRetries,
		},
		Sentences:  sentences,
		Strategies: DefaultStrategies,
	}
}

type summaryResponse struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ExtractHTML string `json:"extract_html"`
}

// Summary tries each strategy in order and returns the first non-empty
// summary, or "" when every attempt fails.
func (s *Summarizer) Summary(ctx context.Context, query string) string {
	strategies := s.Strategies
	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}

	tried := make(map[string]bool)
	for _, strategy := range strategies {
		q := strategy(query)
		if q == "" || tried[q] {
			continue
		}
		tried[q] = true

		text, err := s.Lookup(ctx, q)
		if err == nil && text != "" {
			return text
		}
		if ctx.Err() != nil {
			return ""
		}
		zap.L().Debug("summary lookup failed", zap.String("query", q), zap.Error(err))
	}
	zap.L().Warn("no summary found", zap.String("query", query))
	return ""
}

// Lookup fetches the summary for one title.
func (s *Summarizer) Lookup(ctx context.Context, title string) (string, error) {
	reqURL := wikipediaSummaryBase + url.PathEscape(strings.ReplaceAll(title, " ", "_"))

	var sr summaryResponse
	if err := s.Client.GetJSON(ctx, reqURL, &sr); err != nil {
		var se *httputil.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%s: %w", title, ErrNotFound)
		}
		return "", fmt.Errorf("fetching summary for %s: %w", title, err)
	}
	if sr.Type == "disambiguation" {
		return "", fmt.Errorf("%s: %w", title, ErrAmbiguous)
	}

	text := sr.Extract
	if sr.ExtractHTML != "" {
		if plain, err := PlainText(sr.ExtractHTML); err == nil && plain != "" {
			text = plain
		}
	}
	return FirstSentences(text, s.Sentences), nil
}

// PlainText strips markup from an HTML fragment and collapses whitespace.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// FirstSentences returns the first n sentences of text. A sentence ends at
// '.', '!' or '?' followed by whitespace or the end of the text. n <= 0
// returns text unchanged.
func FirstSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	if n <= 0 {
		return text
	}
	count := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 == len(text) || text[i+1] == ' ' || text[i+1] == '\n' {
				count++
				if count == n {
					return text[:i+1]
				}
			}
		}
	}
	return text
}
