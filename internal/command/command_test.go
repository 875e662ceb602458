package command

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestLoad_MissingDir(t *testing.T) {
	cmds := Load(filepath.Join(t.TempDir(), "nope"), testLogger())
	if len(cmds) != 0 {
		t.Errorf("commands = %v, want none", cmds)
	}
}

func TestLoad_ParsesCommandFrontmatter(t *testing.T) {
	dir := t.TempDir()
	content := "---\ndescription: Rebuild the catalog\nagent: build\nmodel: fast\nsubtask: true\n---\nRun the index now. Time: {{CURRENT_TIME}}\n"
	if err := os.MkdirAll(filepath.Join(dir, "knowledge"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "knowledge", "index.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cmds := Load(dir, testLogger())
	if len(cmds) != 1 {
		t.Fatalf("len(commands) = %d, want 1", len(cmds))
	}
	c := cmds[0]
	if c.Name != "knowledge-index" {
		t.Errorf("name = %q", c.Name)
	}
	if c.Description != "Rebuild the catalog" || c.Agent != "build" || c.Model != "fast" || !c.Subtask {
		t.Errorf("command = %+v", c)
	}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rendered := c.Render(now)
	if rendered != "Run the index now. Time: 2025-06-01T12:00:00Z" {
		t.Errorf("rendered = %q", rendered)
	}
}
