// Package textutil provides cleanup helpers for prose extracted from
// article pages.
package textutil

import "strings"

// BreakPunctuation inserts a newline after every full-width comma (、) and
// full-width period (。) in s. The punctuation itself is preserved, so
// removing the inserted newlines reproduces the input exactly.
func BreakPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	for _, r := range s {
		b.WriteRune(r)
		if r == '、' || r == '。' {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// StripNewlines removes embedded newline and carriage-return characters.
// Titles on article pages sometimes carry stray line breaks from the
// rendered markup.
func StripNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", "")
}
