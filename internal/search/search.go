// Package search ranks catalog packages against query tags and derives
// the category/tag discovery map.
package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/starford/mimir/internal/apperr"
	"github.com/starford/mimir/internal/catalog"
	"github.com/starford/mimir/internal/models"
)

// maxFormattedTags caps how many tags one category line shows.
const maxFormattedTags = 5

// Engine answers tag queries against the persisted catalog.
type Engine struct {
	snap *catalog.Store
}

// NewEngine creates a search engine over the given snapshot store.
func NewEngine(snap *catalog.Store) *Engine {
	return &Engine{snap: snap}
}

// Search returns packages matching at least one query tag, ranked by
// relevance. Matching is case-insensitive; MatchedTags preserves the
// query tags' original casing and order. Ties are broken by ascending
// package path so results are deterministic.
func (e *Engine) Search(queryTags []string) ([]models.SearchResult, error) {
	c, err := e.load()
	if err != nil {
		return nil, err
	}

	queryLower := make(map[string]struct{}, len(queryTags))
	for _, t := range queryTags {
		queryLower[strings.ToLower(t)] = struct{}{}
	}

	var results []models.SearchResult
	for _, packages := range c.Knowledge {
		for _, pkg := range packages {
			pkgLower := make(map[string]struct{}, len(pkg.Tags))
			for _, t := range pkg.Tags {
				pkgLower[strings.ToLower(t)] = struct{}{}
			}

			var matched []string
			for _, t := range queryTags {
				if _, ok := pkgLower[strings.ToLower(t)]; ok {
					matched = append(matched, t)
				}
			}
			if len(matched) == 0 {
				continue
			}

			// Normalized by the larger tag set rather than the union:
			// a package with exactly the queried tags scores 1.0, one
			// with many extra tags scores lower even on a full match.
			denom := len(queryLower)
			if len(pkgLower) > denom {
				denom = len(pkgLower)
			}

			results = append(results, models.SearchResult{
				Path:           pkg.Path,
				RelevanceScore: float64(len(matched)) / float64(denom),
				MatchedTags:    matched,
				Description:    pkg.Description,
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].RelevanceScore != results[j].RelevanceScore {
			return results[i].RelevanceScore > results[j].RelevanceScore
		}
		return results[i].Path < results[j].Path
	})

	return results, nil
}

// CategoryTagMap unions every package's tags per category, sorted
// alphabetically. Categories contributing zero tags are omitted.
func (e *Engine) CategoryTagMap() (map[string][]string, error) {
	c, err := e.load()
	if err != nil {
		return nil, err
	}

	out := map[string][]string{}
	for category, packages := range c.Knowledge {
		tagSet := map[string]struct{}{}
		for _, pkg := range packages {
			for _, t := range pkg.Tags {
				tagSet[t] = struct{}{}
			}
		}
		if len(tagSet) == 0 {
			continue
		}
		tags := make([]string, 0, len(tagSet))
		for t := range tagSet {
			tags = append(tags, t)
		}
		sort.Strings(tags)
		out[category] = tags
	}
	return out, nil
}

// load collapses the snapshot store's absent/corrupt distinction into
// the read-only contract: no usable catalog means the caller must index.
func (e *Engine) load() (*models.KnowledgeCatalog, error) {
	c, err := e.snap.Load()
	if err != nil {
		if errors.Is(err, catalog.ErrAbsent) {
			return nil, apperr.ErrCatalogUnavailable
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrCatalogUnavailable, err)
	}
	return c, nil
}

// FormatCategoryTagMap renders the discovery map as compact text, one
// line per category with up to five tags shown. Categories are emitted
// in sorted order for stable output.
func FormatCategoryTagMap(categoryTags map[string][]string) string {
	categories := make([]string, 0, len(categoryTags))
	for c := range categoryTags {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var lines []string
	for _, category := range categories {
		tags := categoryTags[category]
		top := tags
		more := ""
		if len(tags) > maxFormattedTags {
			top = tags[:maxFormattedTags]
			more = fmt.Sprintf(" +%d more", len(tags)-maxFormattedTags)
		}
		lines = append(lines, fmt.Sprintf("  %s [%s%s]", category, strings.Join(top, ", "), more))
	}
	return strings.Join(lines, "\n")
}
