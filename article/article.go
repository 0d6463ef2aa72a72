// Package article extracts structured text from NHK article pages.
package article

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/yuto-naga/convert-text-nhknews/browser"
	"github.com/yuto-naga/convert-text-nhknews/textutil"
)

// Selectors for the NHK article page layout.
const (
	titleSelector   = "h1"
	summarySelector = ".content--summary, .content--summary-more"
	bodySelector    = ".body-title, .body-text"

	// layoutSelector signals that the article body has rendered: either a
	// summary block or a body heading is enough.
	layoutSelector = ".content--summary, .body-title"
)

// BlockKind distinguishes the two kinds of body content.
type BlockKind string

const (
	Heading   BlockKind = "heading"
	Paragraph BlockKind = "paragraph"
)

// Block is one element of an article body, already punctuation-broken.
type Block struct {
	Kind BlockKind
	Text string
}

// Article is the structured text of a single article page.
type Article struct {
	URL     string
	Title   string
	Summary []string
	Body    []Block
}

// Browser is the subset of the browser session the extractor drives.
type Browser interface {
	Navigate(url string) error
	WaitReady(selector string, timeout time.Duration) error
	PageSource() (string, error)
}

// Extractor fetches and parses article pages one at a time.
type Extractor struct {
	Browser Browser

	// FetchDelay is an unconditional pause before each navigation, spacing
	// out requests to the site.
	FetchDelay time.Duration

	// WaitTimeout bounds the wait for the article layout to appear.
	WaitTimeout time.Duration

	Logger *slog.Logger
}

// Fetch retrieves one article. If the expected layout does not appear
// within the wait timeout, the article is skipped: Fetch logs a warning and
// returns (nil, nil). Callers treat a nil article as "nothing to archive".
func (e *Extractor) Fetch(url string) (*Article, error) {
	time.Sleep(e.FetchDelay)

	if err := e.Browser.Navigate(url); err != nil {
		return nil, fmt.Errorf("failed to open article page: %w", err)
	}

	if err := e.waitForLayout(); err != nil {
		if errors.Is(err, browser.ErrWaitTimeout) {
			e.Logger.Warn("article layout did not appear, skipping", "url", url)
			return nil, nil
		}
		return nil, err
	}

	html, err := e.Browser.PageSource()
	if err != nil {
		return nil, err
	}

	return Parse(html, url)
}

// waitForLayout blocks until the title and at least one of the summary or
// body-heading elements are present.
func (e *Extractor) waitForLayout() error {
	if err := e.Browser.WaitReady(titleSelector, e.WaitTimeout); err != nil {
		return err
	}
	return e.Browser.WaitReady(layoutSelector, e.WaitTimeout)
}

// Parse extracts the structured text from article page markup.
func Parse(html, url string) (*Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse article page: %w", err)
	}

	a := &Article{
		URL:   url,
		Title: textutil.StripNewlines(doc.Find(titleSelector).First().Text()),
	}

	doc.Find(summarySelector).Each(func(_ int, s *goquery.Selection) {
		a.Summary = append(a.Summary, textutil.BreakPunctuation(s.Text()))
	})

	doc.Find(bodySelector).Each(func(_ int, s *goquery.Selection) {
		kind := Paragraph
		if s.HasClass("body-title") {
			kind = Heading
		}
		a.Body = append(a.Body, Block{Kind: kind, Text: textutil.BreakPunctuation(s.Text())})
	})

	return a, nil
}
