package dedup

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/OneOfOne/xxhash"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases text, strips markup and every character that is neither
// alphanumeric nor whitespace, and collapses whitespace runs to single spaces.
func Normalize(text string) string {
	if strings.ContainsRune(text, '<') {
		text = stripMarkup(text)
	}
	text = norm.NFKC.String(text)
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}

// ContentHash returns the fixed-width digest of already-normalized text
func ContentHash(normalized string) string {
	return fmt.Sprintf("%016x", xxhash.ChecksumString64(normalized))
}

// stripMarkup keeps only text nodes. Snippets from search APIs often carry <b> highlighting.
func stripMarkup(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}
