// Package catalog builds and persists the knowledge catalog: a JSON
// snapshot of every indexable vault document, keyed by category.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/starford/mimir/internal/models"
	"github.com/starford/mimir/internal/vault"
)

// ErrAbsent is returned by Load when no catalog file exists. Callers can
// distinguish it from a present-but-corrupt snapshot, which loads as a
// wrapped decode error.
var ErrAbsent = errors.New("catalog: absent")

// Store persists and loads the catalog snapshot at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store for the catalog file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save serializes the catalog and replaces the snapshot file atomically.
func (s *Store) Save(c *models.KnowledgeCatalog) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("catalog: encode: %w", err)
	}
	if err := vault.AtomicWrite(s.path, append(data, '\n')); err != nil {
		return fmt.Errorf("catalog: save: %w", err)
	}
	return nil
}

// Load deserializes the persisted catalog. A missing file yields
// ErrAbsent; unreadable or unparseable content yields a wrapped error.
// Load never partially populates the result.
func (s *Store) Load() (*models.KnowledgeCatalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrAbsent
		}
		return nil, fmt.Errorf("catalog: read: %w", err)
	}
	var c models.KnowledgeCatalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if c.Knowledge == nil {
		c.Knowledge = map[string]map[string]models.KnowledgePackage{}
	}
	return &c, nil
}

// ModTime returns the snapshot file's modification time, or false when
// no snapshot exists.
func (s *Store) ModTime() (time.Time, bool) {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
