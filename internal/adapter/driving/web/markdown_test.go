package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "plain text",
			input:    "Polished CVs that get interviews.",
			contains: []string{"<p>Polished CVs that get interviews.</p>"},
		},
		{
			name:     "emphasis",
			input:    "**ATS friendly** resumes",
			contains: []string{"<strong>ATS friendly</strong>"},
		},
		{
			name:     "hard wraps keep operator line breaks",
			input:    "Line one\nLine two",
			contains: []string{"Line one<br"},
		},
		{
			name:     "links",
			input:    "[portfolio](https://example.com)",
			contains: []string{`<a href="https://example.com"`, "nofollow", `target="_blank"`, "portfolio</a>"},
		},
		{
			name:     "bare urls become links",
			input:    "See https://example.com/work",
			contains: []string{`href="https://example.com/work"`},
		},
		{
			name:     "gfm strikethrough",
			input:    "~~$99~~ $49",
			contains: []string{"<del>$99</del>"},
		},
		{
			name:     "gfm list",
			input:    "- Planning\n- Delivery",
			contains: []string{"<li>Planning</li>", "<li>Delivery</li>"},
		},
		{
			name:     "script is removed",
			input:    `<script>alert("xss")</script>`,
			excludes: []string{"<script>"},
		},
		{
			name:     "javascript links are removed",
			input:    "[x](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderMarkdown(tt.input)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, got, bad)
			}
		})
	}
}

func TestRenderMarkdown_EmptyInput(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(""))
}
