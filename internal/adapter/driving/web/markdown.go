package web

import (
	"bytes"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Descriptions are operator-authored markdown. Raw HTML is never passed
// through by goldmark, and the sanitizer is the second line for anything
// the markdown itself produces, such as link targets.
var (
	descriptionMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify, extension.Table, extension.TaskList),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)
	descriptionPolicy = newDescriptionPolicy()
)

func newDescriptionPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// RenderMarkdown converts a service description to sanitized HTML. Empty
// input renders as the empty string; unconvertible input falls back to an
// escaped paragraph.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := descriptionMarkdown.Convert([]byte(src), &buf); err != nil {
		return "<p>" + html.EscapeString(src) + "</p>"
	}
	return descriptionPolicy.Sanitize(buf.String())
}
