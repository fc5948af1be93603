package embedded

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

// PromptFS contains the prompt templates used for synthetic conversation entries.
//
//go:embed prompts/*.md
var PromptFS embed.FS

// LoadPrompt returns the trimmed content of prompts/<name>.md.
func LoadPrompt(name string) (string, error) {
	if strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("invalid prompt name: %s", name)
	}
	data, err := PromptFS.ReadFile(path.Join("prompts", name+".md"))
	if err != nil {
		return "", fmt.Errorf("prompt '%s' not found: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ListPrompts returns the names of all embedded prompts, sorted.
func ListPrompts() ([]string, error) {
	entries, err := PromptFS.ReadDir("prompts")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded prompts: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(names)
	return names, nil
}
