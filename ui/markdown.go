package ui

import (
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// renderMarkdown converts a page section to HTML. Raw HTML in the source
// is dropped, so only markdown structure reaches the page.
func renderMarkdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(md), p, r))
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "{", `\{`, "}", `\}`,
	"[", `\[`, "]", `\]`, "(", `\(`, ")", `\)`, "#", `\#`, "+", `\+`,
	"-", `\-`, ".", `\.`, "!", `\!`, "|", `\|`, "<", `\<`, ">", `\>`,
	"~", `\~`, "&", `\&`,
)

// escapeMarkdown makes user text (column names) literal inside a section
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
