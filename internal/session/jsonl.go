package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// appendLine marshals v and appends it as one line to the file at path,
// creating parent directories as needed.
func appendLine(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("session: mkdir tracker dir: %w", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session: encode record: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("session: open log: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("session: append log: %w", err)
	}
	return nil
}

// readLastLine decodes only the final line of the log into v. It never
// scans history. A missing, empty, or unparseable log reads as false.
func readLastLine(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return false
	}
	if i := bytes.LastIndexByte(data, '\n'); i >= 0 {
		data = data[i+1:]
	}
	return json.Unmarshal(data, v) == nil
}

// truncate clears the log file. Removing tracking records is always safe
// because recovery only ever reads the last line for a matching session.
func truncate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("session: mkdir tracker dir: %w", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return fmt.Errorf("session: truncate log: %w", err)
	}
	return nil
}
