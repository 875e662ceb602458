// Package template renders text templates and loads role personality
// text for the orientation payload.
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultRole is the personality used when no role is configured or the
// configured role has no personality file.
const DefaultRole = "staff_engineer"

// defaultPersonality is the final fallback when no personality file can
// be found at all.
const defaultPersonality = "Act as a Staff Engineer reviewing engineering work. Assume competence. Be skeptical, precise, and pragmatic."

// Render substitutes {{key}} placeholders in content with vars values.
// Unknown placeholders are left untouched.
func Render(content string, vars map[string]string) string {
	for key, value := range vars {
		content = strings.ReplaceAll(content, "{{"+key+"}}", value)
	}
	return content
}

// Personality returns the personality text for role, looked up as
// <dir>/personalities/<role>.txt. An unknown role falls back to
// DefaultRole's file, and finally to a built-in default, so a missing
// template never blocks the first-turn payload.
func Personality(dir, role string) string {
	if role == "" {
		role = DefaultRole
	}
	if text, err := read(dir, role); err == nil {
		return text
	}
	if role != DefaultRole {
		if text, err := read(dir, DefaultRole); err == nil {
			return text
		}
	}
	return defaultPersonality
}

func read(dir, role string) (string, error) {
	path := filepath.Join(dir, "personalities", role+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("template: read personality: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
