// Package output provides the console printer used by the RoutineShell
// frontends. Styling is injected through StyleProvider so the printer has no
// dependency on the theme implementation.
package output

// StyleProvider supplies a TextStyle per semantic type. The render package's
// Theme implements it.
type StyleProvider interface {
	// GetStyle returns a TextStyle for semantic (e.g. "info", "title", "user").
	GetStyle(semantic string) TextStyle

	// IsAvailable returns true if the provider is ready to style text.
	IsAvailable() bool
}

// TextStyle renders text with styling applied.
type TextStyle interface {
	Render(text string) string
}

// StyleFunc adapts a function to TextStyle.
type StyleFunc func(text string) string

// Render calls f.
func (f StyleFunc) Render(text string) string {
	return f(text)
}

// Mode defines different output modes the printer can operate in.
type Mode int

const (
	// ModeAuto styles output when a provider is available
	ModeAuto Mode = iota

	// ModeStyled forces styled output
	ModeStyled

	// ModePlain forces plain text with semantic prefixes
	ModePlain

	// ModeJSON outputs one JSON object per call
	ModeJSON
)

// SemanticType defines the semantic meaning of output for consistent styling.
type SemanticType string

const (
	// SemanticPlain represents plain text without any semantic meaning.
	SemanticPlain SemanticType = "plain"
	// SemanticInfo represents informational text.
	SemanticInfo SemanticType = "info"
	// SemanticSuccess represents success or completion text.
	SemanticSuccess SemanticType = "success"
	// SemanticWarning represents warning text.
	SemanticWarning SemanticType = "warning"
	// SemanticError represents error text.
	SemanticError SemanticType = "error"
	// SemanticTitle represents section headings.
	SemanticTitle SemanticType = "title"
	// SemanticPlaceholder represents empty-state text.
	SemanticPlaceholder SemanticType = "placeholder"
)
