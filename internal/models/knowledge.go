// Package models defines the domain types for Mimir.
package models

import (
	"path/filepath"
	"strings"
	"time"
)

// MarkdownExt is the file extension of vault documents.
const MarkdownExt = ".md"

// KnowledgePackage represents one indexed vault document.
type KnowledgePackage struct {
	Tags              []string `json:"tags"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	Path              string   `json:"path"`
	RequiredKnowledge []string `json:"required_knowledge,omitempty"`
}

// KnowledgeCatalog is the persisted index of all packages, keyed by
// category and then by package name.
type KnowledgeCatalog struct {
	Knowledge map[string]map[string]KnowledgePackage `json:"knowledge"`
	BuiltAt   time.Time                              `json:"built_at"`
}

// NewKnowledgeCatalog returns an empty catalog stamped with now.
func NewKnowledgeCatalog(now time.Time) *KnowledgeCatalog {
	return &KnowledgeCatalog{
		Knowledge: map[string]map[string]KnowledgePackage{},
		BuiltAt:   now,
	}
}

// Insert adds pkg under its category, creating the category bucket on
// first use. A later package with the same name replaces the earlier one.
func (c *KnowledgeCatalog) Insert(pkg KnowledgePackage) {
	bucket, ok := c.Knowledge[pkg.Category]
	if !ok {
		bucket = map[string]KnowledgePackage{}
		c.Knowledge[pkg.Category] = bucket
	}
	bucket[PackageName(pkg.Path)] = pkg
}

// Packages returns the total number of packages across all categories.
func (c *KnowledgeCatalog) Packages() int {
	n := 0
	for _, bucket := range c.Knowledge {
		n += len(bucket)
	}
	return n
}

// PackageName derives the catalog key from a vault-relative path:
// extension stripped, path separators replaced by dashes.
func PackageName(relPath string) string {
	name := strings.TrimSuffix(relPath, MarkdownExt)
	name = strings.ReplaceAll(name, string(filepath.Separator), "-")
	return strings.ReplaceAll(name, "/", "-")
}

// SearchResult is one ranked hit for a tag query. Never persisted.
type SearchResult struct {
	Path           string   `json:"path"`
	RelevanceScore float64  `json:"relevance_score"`
	MatchedTags    []string `json:"matched_tags"`
	Description    string   `json:"description"`
}
