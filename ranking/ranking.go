// Package ranking extracts article URLs from the NHK news ranking pages.
package ranking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoRankingSection reports that the expected content section is missing
// from the page markup.
var ErrNoRankingSection = errors.New("ranking section not found in page")

// Selectors for the NHK ranking page layout.
const (
	// readySelector signals that the ranking list has rendered; entries are
	// labeled with em elements.
	readySelector = "em"

	// itemsSelector bounds the ranking list, keeping navigation and footer
	// links out of the result.
	itemsSelector = "section.content--items"
)

// Browser is the subset of the browser session the extractor drives.
type Browser interface {
	Navigate(url string) error
	WaitReady(selector string, timeout time.Duration) error
	PageSource() (string, error)
}

// Extractor collects article URLs from ranking pages.
type Extractor struct {
	Browser Browser

	// BaseURL is prefixed to each anchor's relative href.
	BaseURL string

	// SkipWords drops any anchor whose em label contains one of these
	// substrings. Matching is exact and case-sensitive.
	SkipWords []string

	// WaitTimeout bounds the wait for the ranking list to render. A timeout
	// here is fatal to the run.
	WaitTimeout time.Duration

	// PageDelay spaces out consecutive ranking page fetches.
	PageDelay time.Duration
}

// FetchURLs navigates to a single ranking page, waits for the list to
// render, and returns the filtered article URLs in page order.
func (e *Extractor) FetchURLs(pageURL string) ([]string, error) {
	if err := e.Browser.Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("failed to open ranking page: %w", err)
	}
	if err := e.Browser.WaitReady(readySelector, e.WaitTimeout); err != nil {
		return nil, fmt.Errorf("ranking page did not render: %w", err)
	}

	html, err := e.Browser.PageSource()
	if err != nil {
		return nil, err
	}

	return e.Parse(html)
}

// FetchAll fetches every given ranking page in order, pausing between
// pages, and returns the union of their URL sets. Each URL appears once,
// in first-seen order.
func (e *Extractor) FetchAll(pageURLs ...string) ([]string, error) {
	seen := make(map[string]bool)
	var urls []string

	for i, pageURL := range pageURLs {
		if i > 0 && e.PageDelay > 0 {
			time.Sleep(e.PageDelay)
		}

		page, err := e.FetchURLs(pageURL)
		if err != nil {
			return nil, err
		}

		for _, u := range page {
			if seen[u] {
				continue
			}
			seen[u] = true
			urls = append(urls, u)
		}
	}

	return urls, nil
}

// Parse extracts the filtered article URLs from ranking page markup.
func (e *Extractor) Parse(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ranking page: %w", err)
	}

	section := doc.Find(itemsSelector).First()
	if section.Length() == 0 {
		return nil, ErrNoRankingSection
	}

	var urls []string
	section.Find("a").Each(func(_ int, anchor *goquery.Selection) {
		if e.skip(anchor) {
			return
		}
		href, ok := anchor.Attr("href")
		if !ok || href == "" {
			return
		}
		urls = append(urls, e.BaseURL+href)
	})

	return urls, nil
}

// skip reports whether the anchor's emphasized label contains a skip word.
func (e *Extractor) skip(anchor *goquery.Selection) bool {
	label := anchor.Find("em").First().Text()
	for _, word := range e.SkipWords {
		if strings.Contains(label, word) {
			return true
		}
	}
	return false
}
