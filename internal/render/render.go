package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Rendered is the display form of a model answer.
type Rendered struct {
	HTML  string
	Score *int
}

// Renderer turns model Markdown into sanitized HTML. It is safe for
// concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New builds a Renderer with tables, footnotes, definition lists, smart
// punctuation and newline-to-<br> conversion enabled.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Footnote,
			extension.DefinitionList,
			extension.Typographer,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.AllowAttrs("align").OnElements("th", "td")

	return &Renderer{md: md, policy: policy}
}

// Markdown converts src to HTML. Raw HTML in src passes through goldmark and
// is then filtered by the sanitizer, so the result is safe to embed.
func (r *Renderer) Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimSpace(r.policy.Sanitize(buf.String())), nil
}

// Render produces the HTML and the extracted score for a raw answer.
func (r *Renderer) Render(raw string) (Rendered, error) {
	out, err := r.Markdown(raw)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{HTML: out, Score: Score(raw)}, nil
}
