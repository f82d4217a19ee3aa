package textproc

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// brReplacer turns line-break tags into whitespace before markup parsing so
// that words separated only by <br /> do not fuse together.
var brReplacer = strings.NewReplacer("<br>", " ", "<br/>", " ", "<br />", " ")

// StripMarkup removes HTML fragments that raw reviews commonly carry and
// returns the remaining text content. Input without markup passes through
// untouched, and unparseable input falls back to the raw string.
func StripMarkup(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}

	prepared := brReplacer.Replace(text)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(prepared))
	if err != nil {
		return text
	}

	return doc.Text()
}

// Normalize reduces text to ASCII letters separated by single spaces:
// every character outside the letter/whitespace set is deleted, whitespace
// runs collapse to one space, and the ends are trimmed. Pure and
// idempotent: re-applying it to its own output is a no-op.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingSpace := false
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		}
	}

	return b.String()
}

// Clean is the loader-to-encoder path: markup removal followed by
// normalization.
func Clean(text string) string {
	return Normalize(StripMarkup(text))
}
