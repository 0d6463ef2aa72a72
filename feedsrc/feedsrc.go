// Package feedsrc collects article URLs from NHK RSS feeds. Feeds are an
// optional secondary source: when configured, their item links join the
// ranking-page URL set, subject to the same topic filter.
package feedsrc

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Source reads article URLs out of RSS feeds.
type Source struct {
	// SkipWords drops items whose title contains one of these substrings.
	SkipWords []string

	parser *gofeed.Parser
}

// New creates a feed source with the given topic filter.
func New(skipWords []string) *Source {
	return &Source{
		SkipWords: skipWords,
		parser:    gofeed.NewParser(),
	}
}

// FetchURLs downloads and parses one feed and returns the filtered item
// links in feed order.
func (s *Source) FetchURLs(ctx context.Context, feedURL string) ([]string, error) {
	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return s.URLs(feed), nil
}

// URLs extracts the filtered item links from an already-parsed feed.
func (s *Source) URLs(feed *gofeed.Feed) []string {
	var urls []string
	for _, item := range feed.Items {
		if item.Link == "" || s.skip(item.Title) {
			continue
		}
		urls = append(urls, item.Link)
	}
	return urls
}

func (s *Source) skip(title string) bool {
	for _, word := range s.SkipWords {
		if strings.Contains(title, word) {
			return true
		}
	}
	return false
}
