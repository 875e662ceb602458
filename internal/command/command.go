// Package command loads host command templates from a directory of
// markdown files. Command names follow the same derivation as package
// names: relative path, extension stripped, separators dashed.
package command

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/mimir/internal/frontmatter"
	"github.com/starford/mimir/internal/models"
	"github.com/starford/mimir/internal/template"
)

// Command is one host command definition.
type Command struct {
	Name        string
	Description string
	Agent       string
	Model       string
	Subtask     bool
	Template    string
}

// Render returns the command template with time-dependent placeholders
// substituted at call time.
func (c Command) Render(now time.Time) string {
	return template.Render(c.Template, map[string]string{
		"CURRENT_TIME": now.UTC().Format(time.RFC3339),
	})
}

// Load scans dir for markdown command files. A missing directory yields
// no commands; an unreadable file is skipped with a warning.
func Load(dir string, logger *slog.Logger) []Command {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	var commands []Command
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(d.Name(), models.MarkdownExt) {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			logger.Warn("command: read failed", slog.String("path", path), slog.String("error", readErr.Error()))
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}

		fields, body := frontmatter.Parse(string(data))
		commands = append(commands, Command{
			Name:        models.PackageName(rel),
			Description: fields.Description,
			Agent:       fields.Unknown["agent"],
			Model:       fields.Unknown["model"],
			Subtask:     fields.Unknown["subtask"] == "true",
			Template:    body,
		})
		return nil
	})
	return commands
}
