package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// markdownRenderer turns item content into styled text for the detail
// overlay. The glamour renderer is rebuilt only when the wrap width changes.
type markdownRenderer struct {
	wrap     int
	renderer *glamour.TermRenderer

	lastIn  string
	lastOut string
}

// render returns content as ANSI-styled markdown, or the raw content when
// glamour cannot render it.
func (r *markdownRenderer) render(content string, width int) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	wrap := max(24, width)
	if r.renderer == nil || r.wrap != wrap {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(styles.DarkStyle),
			glamour.WithWordWrap(wrap),
			glamour.WithEmoji(),
		)
		if err != nil {
			return content
		}
		r.renderer = renderer
		r.wrap = wrap
		r.lastIn, r.lastOut = "", ""
	}
	if content == r.lastIn {
		return r.lastOut
	}

	rendered, err := r.renderer.Render(content)
	if err != nil {
		return content
	}
	rendered = strings.Trim(rendered, "\n")
	r.lastIn, r.lastOut = content, rendered
	return rendered
}
