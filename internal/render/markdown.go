package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders assistant replies with glamour.
type Markdown struct {
	renderer *glamour.TermRenderer
}

// glamourStyleFor maps a theme name to a glamour style.
func glamourStyleFor(theme string) string {
	switch theme {
	case "plain":
		return "notty"
	case "dark":
		return "dark"
	default:
		return ""
	}
}

// NewMarkdown creates a renderer wrapping at width, styled to match theme.
func NewMarkdown(theme string, width int) (*Markdown, error) {
	if width <= 0 {
		width = 80
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style := glamourStyleFor(theme); style != "" {
		opts = append(opts, glamour.WithStandardStyle(style))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Markdown{renderer: renderer}, nil
}

// Render returns markdown rendered for the terminal. On failure, or for a
// nil receiver, the input is returned unchanged.
func (m *Markdown) Render(markdown string) string {
	if m == nil || strings.TrimSpace(markdown) == "" {
		return markdown
	}
	rendered, err := m.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.Trim(rendered, "\n")
}
