package model

import (
	"regexp"
	"strings"
)

// TitleSegment is one piece of a title. A segment is either text or an
// explicit line break; the presentation layer decides how a break renders.
type TitleSegment struct {
	Text  string
	Break bool
}

// breakMarker matches the line-break markers accepted in titles: a newline,
// or a <br> tag in any of its common spellings.
var breakMarker = regexp.MustCompile(`(?i)\r?\n|<br\s*/?>`)

// SplitTitle splits a title into text segments separated by break segments.
// Text is trimmed, empty text is dropped, and leading or trailing breaks are
// removed. The title is never interpreted as markup.
func SplitTitle(title string) []TitleSegment {
	pieces := breakMarker.Split(title, -1)

	segments := make([]TitleSegment, 0, len(pieces)*2)
	for i, piece := range pieces {
		if i > 0 && len(segments) > 0 && !segments[len(segments)-1].Break {
			segments = append(segments, TitleSegment{Break: true})
		}
		text := strings.TrimSpace(piece)
		if text == "" {
			continue
		}
		segments = append(segments, TitleSegment{Text: text})
	}

	if n := len(segments); n > 0 && segments[n-1].Break {
		segments = segments[:n-1]
	}

	return segments
}

// PlainTitle joins the text segments of a title with single spaces. Used for
// link text, alt attributes and outbound messages.
func PlainTitle(title string) string {
	var parts []string
	for _, seg := range SplitTitle(title) {
		if !seg.Break {
			parts = append(parts, seg.Text)
		}
	}
	return strings.Join(parts, " ")
}
