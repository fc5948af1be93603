package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"routineshell/pkg/routinetypes"
)

// EntryKind distinguishes ordinary transcript entries from transient ones.
type EntryKind int

// Transcript entry kinds.
const (
	EntryMessage EntryKind = iota
	EntryPlaceholder
	EntryFailure
)

// Entry is one line of the rendered chat transcript. Entries are view state:
// failure and placeholder entries never reach the conversation log.
type Entry struct {
	ID      string
	Role    routinetypes.Role
	Content string
	Kind    EntryKind
}

const minCardWidth = 12

// Formatter turns rendered views into styled terminal text.
type Formatter struct {
	theme    *Theme
	markdown *Markdown
	width    int
}

// NewFormatter creates a Formatter. A nil theme is treated as plain; a nil
// markdown renderer leaves assistant replies unrendered.
func NewFormatter(theme *Theme, markdown *Markdown, width int) *Formatter {
	if theme == nil {
		theme = PlainTheme()
	}
	if width <= 0 {
		width = 80
	}
	return &Formatter{theme: theme, markdown: markdown, width: width}
}

// Theme returns the formatter's theme.
func (f *Formatter) Theme() *Theme {
	return f.theme
}

// SetWidth changes the wrap width.
func (f *Formatter) SetWidth(width int) {
	if width > 0 {
		f.width = width
	}
}

// Categories formats the category selector, marking current.
func (f *Formatter) Categories(categories []string, current string) string {
	if len(categories) == 0 {
		return f.theme.Placeholder.Render("No categories available.")
	}
	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		if c == current {
			parts = append(parts, f.theme.CardSelected.Render("["+c+"]"))
			continue
		}
		parts = append(parts, f.theme.Card.Render(c))
	}
	return f.theme.Title.Render("Categories:") + " " + strings.Join(parts, "  ")
}

// Grid formats a grid, one card per line. Cards for which expanded returns
// true also show their description and image.
func (f *Formatter) Grid(g Grid, expanded func(routinetypes.ProductID) bool) string {
	var b strings.Builder
	b.WriteString(f.GridTitle(g))
	b.WriteString("\n")

	if g.Empty {
		b.WriteString(f.theme.Placeholder.Render(g.Placeholder))
		return b.String()
	}

	for i, card := range g.Cards {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.Card(card, expanded != nil && expanded(card.ID)))
	}
	return b.String()
}

// GridTitle formats the grid heading.
func (f *Formatter) GridTitle(g Grid) string {
	title := "Products"
	if g.Category != "" {
		title += " · " + g.Category
	}
	return f.theme.Title.Render(title)
}

// Card formats a single card.
func (f *Formatter) Card(card Card, expanded bool) string {
	mark := "[ ]"
	style := f.theme.Card
	if card.Selected {
		mark = "[x]"
		style = f.theme.CardSelected
	}

	line := fmt.Sprintf("%s #%s %s", mark, card.ID, card.Name)
	limit := f.width - ansi.StringWidth(card.Brand) - 1
	if limit < minCardWidth {
		limit = minCardWidth
	}
	line = style.Render(ansi.Truncate(line, limit, "…"))
	if card.Brand != "" {
		line += " " + f.theme.Brand.Render(card.Brand)
	}
	if !expanded {
		return line
	}

	var b strings.Builder
	b.WriteString(line)
	indent := "      "
	if card.Description != "" {
		wrapped := ansi.Wordwrap(card.Description, f.width-len(indent), "")
		for _, l := range strings.Split(wrapped, "\n") {
			b.WriteString("\n" + indent + l)
		}
	}
	if card.Image != "" {
		b.WriteString("\n" + indent + f.theme.Placeholder.Render("image: "+card.Image))
	}
	return b.String()
}

// Chips formats the chip list on one wrapped line.
func (f *Formatter) Chips(c ChipList) string {
	if c.Empty {
		return f.theme.Title.Render("Selected:") + " " + f.theme.Placeholder.Render(c.Placeholder)
	}
	parts := make([]string, 0, len(c.Chips))
	for _, chip := range c.Chips {
		parts = append(parts, f.theme.Chip.Render(fmt.Sprintf("#%s %s ×", chip.ID, chip.Name)))
	}
	header := f.theme.Title.Render(fmt.Sprintf("Selected (%d):", len(c.Chips)))
	return ansi.Wrap(header+" "+strings.Join(parts, " "), f.width, " ")
}

// Entry formats a transcript entry. Assistant messages are rendered as markdown.
func (f *Formatter) Entry(e Entry) string {
	switch e.Kind {
	case EntryPlaceholder:
		return f.theme.Placeholder.Render(e.Content)
	case EntryFailure:
		return f.theme.Error.Render(e.Content)
	}

	switch e.Role {
	case routinetypes.RoleUser:
		return f.theme.User.Render("You:") + " " + e.Content
	case routinetypes.RoleAssistant:
		body := f.markdown.Render(e.Content)
		if strings.Contains(body, "\n") {
			return f.theme.Assistant.Render("Assistant:") + "\n" + body
		}
		return f.theme.Assistant.Render("Assistant:") + " " + strings.TrimSpace(body)
	default:
		return f.theme.Info.Render(e.Content)
	}
}
