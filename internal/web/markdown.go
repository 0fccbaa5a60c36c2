package web

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)
}

// renderMarkdown converts a bot reply to HTML. Raw HTML in the reply is
// not passed through.
func (wb *Web) renderMarkdown(text string) string {
	var buf bytes.Buffer
	if err := wb.md.Convert([]byte(text), &buf); err != nil {
		return "<p>" + template.HTMLEscapeString(text) + "</p>"
	}
	return buf.String()
}
