package article

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuto-naga/convert-text-nhknews/browser"
)

const articleHTML = `
<html><body>
<h1>大雨のおそれ
警戒を</h1>
<p class="content--summary">九州では大雨となる見込みです、警戒してください。</p>
<p class="content--summary-more">土砂災害にも注意が必要です。</p>
<h2 class="body-title">気象庁の発表</h2>
<p class="body-text">今日は晴れです。明日は雨です、注意。</p>
<p class="body-text">交通機関への影響が出ています。</p>
</body></html>`

// TestParse verifies title cleanup, summary extraction, and body
// classification
func TestParse(t *testing.T) {
	a, err := Parse(articleHTML, "https://www3.nhk.or.jp/news/html/x.html")

	require.NoError(t, err)
	assert.Equal(t, "https://www3.nhk.or.jp/news/html/x.html", a.URL)
	assert.Equal(t, "大雨のおそれ警戒を", a.Title, "embedded newline should be stripped")

	require.Len(t, a.Summary, 2)
	assert.Equal(t, "九州では大雨となる見込みです、\n警戒してください。\n", a.Summary[0])
	assert.Equal(t, "土砂災害にも注意が必要です。\n", a.Summary[1])

	require.Len(t, a.Body, 3)
	assert.Equal(t, Block{Kind: Heading, Text: "気象庁の発表"}, a.Body[0])
	assert.Equal(t, Block{Kind: Paragraph, Text: "今日は晴れです。\n明日は雨です、\n注意。\n"}, a.Body[1])
	assert.Equal(t, Paragraph, a.Body[2].Kind)
}

// TestParse_NoBody verifies a summary-only page parses cleanly
func TestParse_NoBody(t *testing.T) {
	html := `<h1>見出し</h1><p class="content--summary">要約。</p>`

	a, err := Parse(html, "https://example.test/a")

	require.NoError(t, err)
	assert.Equal(t, "見出し", a.Title)
	assert.Len(t, a.Summary, 1)
	assert.Empty(t, a.Body)
}

// fakeBrowser drives the extractor without a real browser.
type fakeBrowser struct {
	html     string
	waitErrs []error
	waits    int
}

func (f *fakeBrowser) Navigate(string) error { return nil }

func (f *fakeBrowser) WaitReady(string, time.Duration) error {
	f.waits++
	if len(f.waitErrs) == 0 {
		return nil
	}
	err := f.waitErrs[0]
	f.waitErrs = f.waitErrs[1:]
	return err
}

func (f *fakeBrowser) PageSource() (string, error) { return f.html, nil }

func newTestExtractor(b Browser) *Extractor {
	return &Extractor{
		Browser: b,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// TestFetch_Success verifies the full fetch path over a fake browser
func TestFetch_Success(t *testing.T) {
	fake := &fakeBrowser{html: articleHTML}

	a, err := newTestExtractor(fake).Fetch("https://example.test/a")

	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "大雨のおそれ警戒を", a.Title)
	assert.Equal(t, 2, fake.waits, "should wait for title and layout")
}

// TestFetch_TimeoutSkips verifies a layout wait timeout yields a nil
// article and no error
func TestFetch_TimeoutSkips(t *testing.T) {
	timeout := fmt.Errorf("%w: %q after 10s", browser.ErrWaitTimeout, "h1")
	fake := &fakeBrowser{waitErrs: []error{timeout}}

	a, err := newTestExtractor(fake).Fetch("https://example.test/a")

	assert.NoError(t, err, "timeout must not propagate as an error")
	assert.Nil(t, a, "timed-out article is skipped")
}

// TestFetch_SecondWaitTimeoutSkips verifies the summary/body wait is also a
// skip condition
func TestFetch_SecondWaitTimeoutSkips(t *testing.T) {
	timeout := fmt.Errorf("%w", browser.ErrWaitTimeout)
	fake := &fakeBrowser{waitErrs: []error{nil, timeout}}

	a, err := newTestExtractor(fake).Fetch("https://example.test/a")

	assert.NoError(t, err)
	assert.Nil(t, a)
}

// TestFetch_OtherErrorPropagates verifies non-timeout failures are real
// errors
func TestFetch_OtherErrorPropagates(t *testing.T) {
	fake := &fakeBrowser{waitErrs: []error{assert.AnError}}

	a, err := newTestExtractor(fake).Fetch("https://example.test/a")

	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, a)
}
