package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	nurl "net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
)

const (
	defaultMaxReferenceChars = 8000
	// minTextLength is the minimum content length to accept as a valid
	// extraction. Pages returning less than this are likely login walls,
	// cookie walls, or empty pages.
	minTextLength = 100
	// maxRetries is the number of extraction attempts before giving up.
	maxRetries = 3
	// maxBodySize is the maximum HTTP response body size (5MB).
	maxBodySize = 5 * 1024 * 1024
)

// HTTPExtractor fetches web pages and extracts readable content using
// go-readability, for use as design context in generation prompts.
type HTTPExtractor struct {
	client   *http.Client
	maxChars int
}

// ExtractorOption configures the HTTP extractor.
type ExtractorOption func(*HTTPExtractor)

// WithMaxReferenceChars caps the extracted text length in runes.
func WithMaxReferenceChars(n int) ExtractorOption {
	return func(e *HTTPExtractor) {
		if n > 0 {
			e.maxChars = n
		}
	}
}

// NewHTTPExtractor creates a new HTTP-based content extractor.
func NewHTTPExtractor(opts ...ExtractorOption) *HTTPExtractor {
	e := &HTTPExtractor{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxChars: defaultMaxReferenceChars,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches the URL and extracts the main content with automatic retry.
func (e *HTTPExtractor) Extract(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 2 * time.Second
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := e.doExtract(ctx, url)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("after %d attempts: %w", maxRetries, lastErr)
}

// doExtract performs a single extraction attempt.
func (e *HTTPExtractor) doExtract(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	// Use a realistic browser User-Agent to avoid being blocked by sites.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	parsedURL, _ := nurl.Parse(url)
	article, err := readability.FromReader(strings.NewReader(string(body)), parsedURL)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}

	text := normalizeText(article.TextContent)

	if utf8.RuneCountInString(text) < minTextLength {
		return "", fmt.Errorf("extracted content too short (%d chars), possibly blocked or empty page", utf8.RuneCountInString(text))
	}

	return truncateRunes(text, e.maxChars), nil
}

var multiSpace = regexp.MustCompile(`[ \t]+`)
var multiNewline = regexp.MustCompile(`\n{3,}`)

func normalizeText(s string) string {
	s = strings.TrimSpace(s)
	s = multiSpace.ReplaceAllString(s, " ")
	s = multiNewline.ReplaceAllString(s, "\n\n")
	return s
}
