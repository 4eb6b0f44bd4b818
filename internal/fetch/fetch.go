// Package fetch downloads manufacturer datasheet pages and reduces their HTML
// to the lines of specification text the extractor reads.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Request defaults
const (
	DefaultTimeout      = 30 * time.Second
	DefaultUserAgent    = "SpecSense/1.0 (datasheet fetcher)"
	DefaultMaxBodyBytes = 10 << 20
)

// ErrNotHTML is returned when a datasheet URL serves something other than a
// web page, typically a PDF that needs OCR first.
var ErrNotHTML = errors.New("response is not an HTML page")

// Page is a downloaded datasheet page
type Page struct {
	URL         string // requested URL
	FinalURL    string // URL after redirects
	HTML        string
	ContentType string
	StatusCode  int
	Truncated   bool // body was cut at MaxBodyBytes
}

// Error describes a failed datasheet download
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures a download
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	Headers      map[string]string
	MaxBodyBytes int64
}

// DefaultOptions returns the options used when URL is called with nil
func DefaultOptions() *Options {
	return &Options{
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// URL downloads a datasheet page. Only http and https URLs are accepted.
// On a non-200 status or a non-HTML body the Page is returned with the error.
func URL(ctx context.Context, rawURL string, opts *Options) (*Page, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	limit := opts.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := (&http.Client{Timeout: opts.Timeout}).Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	// one extra byte tells a body of exactly limit bytes from a truncated one
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &Error{URL: rawURL, StatusCode: resp.StatusCode, Message: "failed to read body", Cause: err}
	}

	page := &Page{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if int64(len(body)) > limit {
		body = body[:limit]
		page.Truncated = true
	}
	page.HTML = string(body)

	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: rawURL, StatusCode: resp.StatusCode, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	if !isPageType(page.ContentType) {
		return page, &Error{URL: rawURL, StatusCode: resp.StatusCode, Message: page.ContentType, Cause: ErrNotHTML}
	}
	return page, nil
}

// isPageType accepts HTML, XHTML and plain text. A missing header is accepted.
func isPageType(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml", "text/plain":
		return true
	}
	return false
}

// Selectors choose the part of a page that holds the specifications
type Selectors struct {
	Content []string // tried in order; the first that matches is used, else <body>
	Noise   []string // removed before extraction
}

// DatasheetSelectors returns the selectors for manufacturer product and datasheet pages
func DatasheetSelectors() Selectors {
	return Selectors{
		Content: []string{
			".technical-data",
			".tech-specs",
			".product-specifications",
			".specifications",
			"#specifications",
			"#technical-data",
			"[data-tab='specifications']",
			".datasheet",
			"main",
			"article",
			"#content",
		},
		Noise: []string{
			"nav", "header", "footer", "script", "style", "noscript", "form",
			".breadcrumb", ".cookie-banner", ".related-products", ".newsletter", ".share",
		},
	}
}

// rowElements end a line of extracted text
const rowElements = "p, div, li, tr, br, h1, h2, h3, h4, h5, h6, dl, caption, section"

// ExtractText returns the specification text of a page, one line per table
// row, list item or definition entry. Table cells and definition terms stay
// on the line of their value, so "Rated voltage | 0.6/1kV" reads
// "Rated voltage 0.6/1kV" and <dt>Insulation</dt><dd>XLPE</dd> reads
// "Insulation: XLPE".
func ExtractText(html string, sel Selectors) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	if len(sel.Noise) > 0 {
		doc.Find(strings.Join(sel.Noise, ", ")).Remove()
	}

	doc.Find("td, th").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	doc.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		dl.SetText(definitionLines(dl))
	})
	doc.Find(rowElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	content := doc.Find("body")
	for _, selector := range sel.Content {
		if found := doc.Find(selector); found.Length() > 0 {
			content = found.First()
			break
		}
	}

	return cleanLines(content.Text()), nil
}

// definitionLines renders each <dt> with the <dd> values that follow it as "term: value"
func definitionLines(dl *goquery.Selection) string {
	var lines []string
	dl.Find("dt").Each(func(_ int, dt *goquery.Selection) {
		var values []string
		dt.NextUntil("dt").Filter("dd").Each(func(_ int, dd *goquery.Selection) {
			values = append(values, strings.Join(strings.Fields(dd.Text()), " "))
		})
		term := strings.Join(strings.Fields(dt.Text()), " ")
		lines = append(lines, term+": "+strings.Join(values, ", "))
	})
	return strings.Join(lines, "\n")
}

// cleanLines collapses runs of spaces and drops blank lines
func cleanLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
