// Package settings reads the optional external settings file that
// carries the operator's chosen role.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
)

// Settings mirrors the external settings JSON document.
type Settings struct {
	Role string `json:"role"`
}

// Store reads settings from a fixed path.
type Store struct {
	path string
}

// NewStore creates a store for the settings file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the parsed settings. An absent file is not an error and
// yields nil; a present but malformed file is a configuration error the
// caller must see, never silently defaulted.
func (s *Store) Load() (*Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("settings: read %s: %w", s.path, err)
	}
	var out Settings
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("settings: parse %s: %w", s.path, err)
	}
	return &out, nil
}
