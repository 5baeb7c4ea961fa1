// Package markdown renders item bodies. Bodies may mix Markdown with raw
// HTML, the way editors paste them; the output is sanitized before it reaches
// a page.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	stdhtml "html"
	"io"
	"regexp"
	"sync"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	policyOnce sync.Once
	policy     *bluemonday.Policy
)

var reLanguageClass = regexp.MustCompile(`^language-[\w+-]+$`)

func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowStyling()
		p.AllowAttrs("class").Matching(reLanguageClass).OnElements("code")
		p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
		p.AllowAttrs("loading").Matching(regexp.MustCompile(`^(lazy|eager)$`)).OnElements("img")
		p.AddTargetBlankToFullyQualifiedLinks(true)
		policy = p
	})
	return policy
}

// Markdown returns a templ.Component that renders content as sanitized HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := RenderMarkdown(&buf, content); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderMarkdown writes the sanitized HTML representation of content to buf.
func RenderMarkdown(buf *bytes.Buffer, content string) error {
	var raw bytes.Buffer
	if err := md.Convert([]byte(content), &raw); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}
	buf.Write(sanitizer().SanitizeBytes(raw.Bytes()))
	return nil
}

// String renders content and returns the HTML.
func String(content string) (string, error) {
	var buf bytes.Buffer
	if err := RenderMarkdown(&buf, content); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Plain strips all markup from rendered content. It is used for feed
// descriptions and meta excerpts.
func Plain(content string) string {
	s, err := String(content)
	if err != nil {
		return ""
	}
	return stdhtml.UnescapeString(bluemonday.StrictPolicy().Sanitize(s))
}
