package render

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"routineshell/internal/data/embedded"
	"routineshell/internal/output"
	"routineshell/pkg/routinetypes"
)

// Theme holds the lipgloss styles for every semantic element.
type Theme struct {
	Name         string
	Title        lipgloss.Style
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	Brand        lipgloss.Style
	Chip         lipgloss.Style
	Placeholder  lipgloss.Style
	User         lipgloss.Style
	Assistant    lipgloss.Style
	Info         lipgloss.Style
	Success      lipgloss.Style
	Warning      lipgloss.Style
	Error        lipgloss.Style
}

var themeFiles = map[string][]byte{
	"default": embedded.DefaultThemeData,
	"dark":    embedded.DarkThemeData,
	"plain":   embedded.PlainThemeData,
}

// AvailableThemes returns the names of the embedded themes, sorted.
func AvailableThemes() []string {
	names := make([]string, 0, len(themeFiles))
	for name := range themeFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadTheme builds an embedded theme for renderer r. An unknown name is an error.
func LoadTheme(name string, r *lipgloss.Renderer) (*Theme, error) {
	data, ok := themeFiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown theme '%s' (available: %v)", name, AvailableThemes())
	}
	return ParseTheme(data, r)
}

// ParseTheme parses a YAML theme document.
func ParseTheme(data []byte, r *lipgloss.Renderer) (*Theme, error) {
	var cfg routinetypes.ThemeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	s := cfg.Styles
	return &Theme{
		Name:         cfg.Name,
		Title:        createStyle(r, s.Title),
		Card:         createStyle(r, s.Card),
		CardSelected: createStyle(r, s.CardSelected),
		Brand:        createStyle(r, s.Brand),
		Chip:         createStyle(r, s.Chip).Padding(0, 1),
		Placeholder:  createStyle(r, s.Placeholder),
		User:         createStyle(r, s.User),
		Assistant:    createStyle(r, s.Assistant),
		Info:         createStyle(r, s.Info),
		Success:      createStyle(r, s.Success),
		Warning:      createStyle(r, s.Warning),
		Error:        createStyle(r, s.Error),
	}, nil
}

// PlainTheme returns a theme with no styling at all.
func PlainTheme() *Theme {
	theme, err := ParseTheme(embedded.PlainThemeData, nil)
	if err != nil {
		return &Theme{Name: "plain"}
	}
	return theme
}

func createStyle(r *lipgloss.Renderer, config routinetypes.StyleConfig) lipgloss.Style {
	style := r.NewStyle()

	if config.Foreground != nil {
		if color := parseColor(config.Foreground); color != nil {
			style = style.Foreground(color)
		}
	}
	if config.Background != nil {
		if color := parseColor(config.Background); color != nil {
			style = style.Background(color)
		}
	}

	if config.Bold != nil && *config.Bold {
		style = style.Bold(true)
	}
	if config.Italic != nil && *config.Italic {
		style = style.Italic(true)
	}
	if config.Underline != nil && *config.Underline {
		style = style.Underline(true)
	}
	if config.Faint != nil && *config.Faint {
		style = style.Faint(true)
	}
	return style
}

// parseColor accepts a color string or a {light, dark} mapping.
func parseColor(colorValue interface{}) lipgloss.TerminalColor {
	switch v := colorValue.(type) {
	case string:
		return lipgloss.Color(v)
	case map[string]interface{}:
		light, hasLight := v["light"].(string)
		dark, hasDark := v["dark"].(string)
		if hasLight && hasDark {
			return lipgloss.AdaptiveColor{Light: light, Dark: dark}
		}
		return nil
	default:
		return nil
	}
}

// GetStyle maps a printer semantic onto the theme's styles.
func (t *Theme) GetStyle(semantic string) output.TextStyle {
	style := t.styleFor(semantic)
	return output.StyleFunc(func(text string) string {
		return style.Render(text)
	})
}

// IsAvailable reports whether the theme can style text.
func (t *Theme) IsAvailable() bool {
	return t != nil
}

func (t *Theme) styleFor(semantic string) lipgloss.Style {
	switch output.SemanticType(semantic) {
	case output.SemanticInfo:
		return t.Info
	case output.SemanticSuccess:
		return t.Success
	case output.SemanticWarning:
		return t.Warning
	case output.SemanticError:
		return t.Error
	case output.SemanticTitle:
		return t.Title
	case output.SemanticPlaceholder:
		return t.Placeholder
	case "user":
		return t.User
	case "assistant":
		return t.Assistant
	default:
		return lipgloss.NewStyle()
	}
}
