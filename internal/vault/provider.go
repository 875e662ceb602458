// Package vault defines the knowledge-vault file-system abstraction.
package vault

import "time"

// DocInfo is a lightweight description of one vault document.
type DocInfo struct {
	Path    string    // vault-relative, includes extension
	ModTime time.Time // last modification time on disk
}

// Provider is the interface for vault file operations.
type Provider interface {
	// List returns info for every markdown file under the vault root.
	// A missing root yields an empty list, not an error.
	List() ([]DocInfo, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
}
