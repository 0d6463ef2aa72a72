// Package browser wraps a chromedp-driven browser session. One session
// owns one tab; navigation is strictly serial.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// ErrWaitTimeout reports that an element did not appear within the wait
// timeout.
var ErrWaitTimeout = errors.New("timed out waiting for element")

// Options selects how the browser session is created.
type Options struct {
	// RemoteURL is a DevTools websocket endpoint (e.g. a browser container).
	// When empty, a local browser process is launched.
	RemoteURL string
	Headless  bool
}

// Session is a single live browser tab. It is not safe for concurrent use;
// the pipeline drives it serially.
type Session struct {
	ctx       context.Context
	cancels   []context.CancelFunc
	closeOnce sync.Once
	closeErr  error
}

// NewSession connects to (or launches) a browser and waits for it to be
// ready.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	s := &Session{}

	if opts.RemoteURL != "" {
		allocCtx, cancel := chromedp.NewRemoteAllocator(ctx, opts.RemoteURL)
		s.cancels = append(s.cancels, cancel)
		ctx = allocCtx
	} else {
		execOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		if !opts.Headless {
			execOpts = append(execOpts, chromedp.Flag("headless", false))
		}
		allocCtx, cancel := chromedp.NewExecAllocator(ctx, execOpts...)
		s.cancels = append(s.cancels, cancel)
		ctx = allocCtx
	}

	tabCtx, cancel := chromedp.NewContext(ctx)
	s.cancels = append(s.cancels, cancel)
	s.ctx = tabCtx

	// Run with no actions forces the browser to start now, so connection
	// failures surface here rather than on the first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		s.teardown()
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}

	return s, nil
}

// Navigate loads the given URL in the session's tab.
func (s *Session) Navigate(url string) error {
	if err := chromedp.Run(s.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// WaitReady blocks until an element matching the CSS selector is present in
// the DOM, or the timeout elapses. A timeout is reported as ErrWaitTimeout.
func (s *Session) WaitReady(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	err := chromedp.Run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %q after %s", ErrWaitTimeout, selector, timeout)
		}
		return fmt.Errorf("failed waiting for %q: %w", selector, err)
	}
	return nil
}

// PageSource returns the rendered markup of the current page.
func (s *Session) PageSource() (string, error) {
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read page source: %w", err)
	}
	return html, nil
}

// Close shuts the browser down. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		// Ask the browser to exit cleanly before cancelling contexts.
		s.closeErr = chromedp.Cancel(s.ctx)
		s.teardown()
	})
	return s.closeErr
}

func (s *Session) teardown() {
	for i := len(s.cancels) - 1; i >= 0; i-- {
		s.cancels[i]()
	}
}
