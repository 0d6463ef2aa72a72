// Package format renders extracted articles as plain text documents, one
// document per article.
package format

import (
	"strings"

	"github.com/yuto-naga/convert-text-nhknews/article"
)

// Section markers separating the parts of a rendered article.
const (
	TitleMarker   = "~~タイトル~~"
	SummaryMarker = "~~要約~~"
	BodyMarker    = "~~内容~~"
)

// Render produces the text document for one article: each section marker
// on its own line, followed by that section's content, all joined with
// newlines.
func Render(a *article.Article) string {
	lines := make([]string, 0, 4+len(a.Summary)+len(a.Body))

	lines = append(lines, TitleMarker, a.Title)

	lines = append(lines, SummaryMarker)
	lines = append(lines, a.Summary...)

	lines = append(lines, BodyMarker)
	for _, block := range a.Body {
		lines = append(lines, block.Text)
	}

	return strings.Join(lines, "\n")
}
