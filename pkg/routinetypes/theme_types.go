package routinetypes

// ThemeConfig is a theme loaded from YAML.
type ThemeConfig struct {
	// Name is the theme identifier (e.g., "default", "plain")
	Name string `yaml:"name" json:"name"`

	// Description provides a brief description of the theme
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Styles contains the style definitions for each semantic element
	Styles ThemeStyles `yaml:"styles" json:"styles"`
}

// ThemeStyles maps the semantic elements of the picker to their styles.
type ThemeStyles struct {
	// Title style for section headings
	Title StyleConfig `yaml:"title" json:"title"`

	// Card style for unselected product cards
	Card StyleConfig `yaml:"card" json:"card"`

	// CardSelected style for product cards in the selection set
	CardSelected StyleConfig `yaml:"card_selected" json:"card_selected"`

	// Brand style for brand names
	Brand StyleConfig `yaml:"brand" json:"brand"`

	// Chip style for selected-item chips
	Chip StyleConfig `yaml:"chip" json:"chip"`

	// Placeholder style for empty-state text
	Placeholder StyleConfig `yaml:"placeholder" json:"placeholder"`

	// User style for user transcript entries
	User StyleConfig `yaml:"user" json:"user"`

	// Assistant style for assistant transcript entries
	Assistant StyleConfig `yaml:"assistant" json:"assistant"`

	// Info, Success, Warning and Error styles for status lines
	Info    StyleConfig `yaml:"info" json:"info"`
	Success StyleConfig `yaml:"success" json:"success"`
	Warning StyleConfig `yaml:"warning" json:"warning"`
	Error   StyleConfig `yaml:"error" json:"error"`
}

// StyleConfig defines the visual styling for a semantic element.
// Colors may be a plain string or a {light, dark} mapping.
type StyleConfig struct {
	Foreground interface{} `yaml:"foreground,omitempty" json:"foreground,omitempty"`
	Background interface{} `yaml:"background,omitempty" json:"background,omitempty"`
	Bold       *bool       `yaml:"bold,omitempty" json:"bold,omitempty"`
	Italic     *bool       `yaml:"italic,omitempty" json:"italic,omitempty"`
	Underline  *bool       `yaml:"underline,omitempty" json:"underline,omitempty"`
	Faint      *bool       `yaml:"faint,omitempty" json:"faint,omitempty"`
}
