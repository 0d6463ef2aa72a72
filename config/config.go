// Package config holds the parameters of an archive run. Everything has a
// built-in default mirroring the NHK site layout, so a run needs no
// configuration at all; an optional YAML file can override individual
// fields.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingBaseURL    = errors.New("base_url is required")
	ErrNoRankingPages    = errors.New("at least one ranking page is required")
	ErrMissingOutputDir  = errors.New("output_dir is required")
	ErrMissingLogDir     = errors.New("log_dir is required")
	ErrInvalidWait       = errors.New("wait timeouts must be at least 1 second")
	ErrInvalidFetchDelay = errors.New("fetch_delay_sec must be non-negative")
)

// Config represents the complete archiver configuration.
type Config struct {
	// BaseURL is prefixed to the relative hrefs found on ranking pages.
	BaseURL string `yaml:"base_url"`

	// RankingPages are site-relative paths of the ranking pages to scrape,
	// in fetch order.
	RankingPages []string `yaml:"ranking_pages"`

	// Feeds are optional RSS feed URLs whose item links are merged into the
	// run's URL set. Empty by default.
	Feeds []string `yaml:"feeds"`

	// SkipWords excludes any ranking entry whose emphasized label contains
	// one of these substrings.
	SkipWords []string `yaml:"skip_words"`

	OutputDir   string `yaml:"output_dir"`
	LogDir      string `yaml:"log_dir"`
	ArchivePath string `yaml:"archive_path"`

	Browser BrowserConfig `yaml:"browser"`

	RankingWaitSec int `yaml:"ranking_wait_sec"`
	ArticleWaitSec int `yaml:"article_wait_sec"`
	FetchDelaySec  int `yaml:"fetch_delay_sec"`
}

// BrowserConfig selects how the browser session is created.
type BrowserConfig struct {
	// RemoteURL is a DevTools websocket endpoint. When empty, a local
	// browser process is launched instead.
	RemoteURL string `yaml:"remote_url"`
	Headless  bool   `yaml:"headless"`
}

// Default returns the built-in configuration for the NHK news site.
func Default() *Config {
	return &Config{
		BaseURL: "https://www3.nhk.or.jp",
		RankingPages: []string{
			"/news/ranking/social.html",
			"/news/ranking/access.html",
		},
		SkipWords:      []string{"駅伝"},
		OutputDir:      "outputs",
		LogDir:         "logs",
		ArchivePath:    "archive.db",
		Browser:        BrowserConfig{Headless: true},
		RankingWaitSec: 20,
		ArticleWaitSec: 10,
		FetchDelaySec:  3,
	}
}

// Load returns the default configuration with any overrides from the YAML
// file at path applied. A missing file is not an error; the defaults are
// returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run
// with.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if len(c.RankingPages) == 0 {
		return ErrNoRankingPages
	}
	if c.OutputDir == "" {
		return ErrMissingOutputDir
	}
	if c.LogDir == "" {
		return ErrMissingLogDir
	}
	if c.RankingWaitSec < 1 || c.ArticleWaitSec < 1 {
		return ErrInvalidWait
	}
	if c.FetchDelaySec < 0 {
		return ErrInvalidFetchDelay
	}
	return nil
}

// RankingPageURLs returns the absolute URLs of the configured ranking
// pages.
func (c *Config) RankingPageURLs() []string {
	urls := make([]string, len(c.RankingPages))
	for i, p := range c.RankingPages {
		urls[i] = c.BaseURL + p
	}
	return urls
}

// RankingWait is the element-wait timeout for ranking pages.
func (c *Config) RankingWait() time.Duration {
	return time.Duration(c.RankingWaitSec) * time.Second
}

// ArticleWait is the element-wait timeout for article pages.
func (c *Config) ArticleWait() time.Duration {
	return time.Duration(c.ArticleWaitSec) * time.Second
}

// FetchDelay is the fixed pause before each page fetch.
func (c *Config) FetchDelay() time.Duration {
	return time.Duration(c.FetchDelaySec) * time.Second
}
