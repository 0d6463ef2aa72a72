// Package pipeline sequences one archive run: ranking pages to article
// URLs, URLs to extracted records, records to dated text files. Execution
// is strictly serial over a single browser session.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/yuto-naga/convert-text-nhknews/archive"
	"github.com/yuto-naga/convert-text-nhknews/article"
	"github.com/yuto-naga/convert-text-nhknews/browser"
	"github.com/yuto-naga/convert-text-nhknews/config"
	"github.com/yuto-naga/convert-text-nhknews/feedsrc"
	"github.com/yuto-naga/convert-text-nhknews/format"
	"github.com/yuto-naga/convert-text-nhknews/output"
	"github.com/yuto-naga/convert-text-nhknews/ranking"
)

// Session is the part of the browser session the pipeline drives. It is
// satisfied by *browser.Session.
type Session interface {
	Navigate(url string) error
	WaitReady(selector string, timeout time.Duration) error
	PageSource() (string, error)
	Close() error
}

// Pipeline runs the scrape-extract-write sequence.
type Pipeline struct {
	Config *config.Config
	Logger *slog.Logger

	// Store indexes the run and its saved articles. Optional; nil disables
	// indexing.
	Store *archive.Store

	// OpenSession creates the browser session for the run. Defaults to a
	// chromedp-backed session per Config.Browser.
	OpenSession func(ctx context.Context) (Session, error)
}

// Result summarizes a finished run.
type Result struct {
	RunID      uuid.UUID
	URLCount   int
	SavedCount int
}

// Run executes one archive run. The browser session is torn down on every
// exit path, and the run's outcome is recorded in the archive index before
// returning.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New()
	startedAt := time.Now()
	log := p.Logger.With("run_id", runID.String())

	log.Info("starting NHK news archive run")

	if p.Store != nil {
		if err := p.Store.BeginRun(runID, startedAt); err != nil {
			return nil, err
		}
	}

	res := &Result{RunID: runID}
	err := p.run(ctx, log, startedAt, res)

	if p.Store != nil {
		status, errText := archive.StatusOK, ""
		if err != nil {
			status, errText = archive.StatusFailed, err.Error()
		}
		if ferr := p.Store.FinishRun(runID, time.Now(), res.URLCount, res.SavedCount, status, errText); ferr != nil {
			log.Error("failed to record run outcome", "error", ferr)
		}
	}

	if err != nil {
		return res, err
	}

	log.Info("archive run finished", "urls", res.URLCount, "saved", res.SavedCount)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, log *slog.Logger, startedAt time.Time, res *Result) error {
	cfg := p.Config

	open := p.OpenSession
	if open == nil {
		open = func(ctx context.Context) (Session, error) {
			return browser.NewSession(ctx, browser.Options{
				RemoteURL: cfg.Browser.RemoteURL,
				Headless:  cfg.Browser.Headless,
			})
		}
	}

	session, err := open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open browser session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Warn("failed to close browser session", "error", cerr)
		}
	}()

	log.Info("collecting article URLs from ranking pages")
	rank := &ranking.Extractor{
		Browser:     session,
		BaseURL:     cfg.BaseURL,
		SkipWords:   cfg.SkipWords,
		WaitTimeout: cfg.RankingWait(),
		PageDelay:   cfg.FetchDelay(),
	}
	urls, err := rank.FetchAll(cfg.RankingPageURLs()...)
	if err != nil {
		// A ranking page that never renders leaves nothing to archive.
		return err
	}

	urls = p.appendFeedURLs(ctx, log, urls)
	res.URLCount = len(urls)

	extractor := &article.Extractor{
		Browser:     session,
		FetchDelay:  cfg.FetchDelay(),
		WaitTimeout: cfg.ArticleWait(),
		Logger:      log,
	}

	var records []*article.Article
	for _, u := range urls {
		log.Info("fetching article", "url", u)
		a, err := extractor.Fetch(u)
		if err != nil {
			return err
		}
		if a == nil {
			// Layout never appeared; the extractor already logged it.
			continue
		}
		records = append(records, a)
	}

	writer := &output.Writer{BaseDir: cfg.OutputDir}
	dir := writer.RunDir(startedAt)
	if err := output.EnsureDir(dir); err != nil {
		return err
	}

	log.Info("writing article text files", "dir", dir, "articles", len(records))
	for i, a := range records {
		path := filepath.Join(dir, output.ArticleFilename(i+1, a.Title))

		err := output.WriteNew(path, format.Render(a))
		if errors.Is(err, output.ErrExists) {
			log.Info("output file already exists, keeping previous copy", "path", path)
			continue
		}
		if err != nil {
			return err
		}

		res.SavedCount++
		if p.Store != nil {
			if _, err := p.Store.RecordArticle(res.RunID, a.Title, a.URL, path, time.Now()); err != nil {
				log.Warn("failed to index saved article", "path", path, "error", err)
			}
		}
	}

	return nil
}

// appendFeedURLs merges item links from any configured RSS feeds into the
// URL set. Feed failures are warnings; the ranking pages remain the
// primary source.
func (p *Pipeline) appendFeedURLs(ctx context.Context, log *slog.Logger, urls []string) []string {
	if len(p.Config.Feeds) == 0 {
		return urls
	}

	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		seen[u] = true
	}

	feeds := feedsrc.New(p.Config.SkipWords)
	for _, feedURL := range p.Config.Feeds {
		log.Info("collecting article URLs from feed", "feed", feedURL)
		more, err := feeds.FetchURLs(ctx, feedURL)
		if err != nil {
			log.Warn("failed to read feed", "feed", feedURL, "error", err)
			continue
		}
		for _, u := range more {
			if seen[u] {
				continue
			}
			seen[u] = true
			urls = append(urls, u)
		}
	}

	return urls
}
