package hero

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// MaxTaglineRunes bounds taglines derived from article bodies.
const MaxTaglineRunes = 48

// htmlTagRe matches HTML tags for stripping.
var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// firstParaRe extracts the first <p>...</p> block from HTML.
var firstParaRe = regexp.MustCompile(`(?s)<p[^>]*>(.*?)</p>`)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// FirstParagraph renders body as Markdown and returns its first paragraph
// as plain, whitespace-normalized text.
func FirstParagraph(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	m := firstParaRe.FindSubmatch(buf.Bytes())
	if m == nil {
		return "", nil
	}
	plain := html.UnescapeString(htmlTagRe.ReplaceAllString(string(m[1]), ""))
	return strings.Join(strings.Fields(plain), " "), nil
}

// Truncate shortens s to at most max runes, preferring a word boundary in
// the second half, and appends "..." when it cut anything.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if i := strings.LastIndex(cut, " "); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,，、;；:：") + "..."
}
