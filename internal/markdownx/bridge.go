// Package markdownx converts between the rich-text edit buffer (HTML) and
// the storage format (markdown). Stored section text is always markdown; the
// render path re-renders it to HTML before display.
//
// The two directions are not strict inverses: insignificant whitespace and
// attribute differences are normalized away. Semantic content (text,
// bold/italic/strikethrough, list structure) survives a full round trip.
package markdownx

import (
	"bytes"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough),
)

// ToHTML renders stored markdown to display HTML.
func ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FromHTML converts an edit-buffer HTML fragment to markdown for storage.
func FromHTML(html string) (string, error) {
	out, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
