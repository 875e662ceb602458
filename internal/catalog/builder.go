package catalog

import (
	"log/slog"
	"time"

	"github.com/starford/mimir/internal/frontmatter"
	"github.com/starford/mimir/internal/models"
	"github.com/starford/mimir/internal/vault"
)

// Builder scans the vault and derives catalog snapshots. One malformed
// document never aborts a build: it is skipped with a warning.
type Builder struct {
	store  vault.Provider
	snap   *Store
	logger *slog.Logger
}

// NewBuilder creates a builder over the given vault and snapshot store.
func NewBuilder(store vault.Provider, snap *Store, logger *slog.Logger) *Builder {
	return &Builder{store: store, snap: snap, logger: logger}
}

// Build scans every markdown file under the vault root and produces a
// fresh catalog. Documents lacking tags or a category are excluded.
func (b *Builder) Build() *models.KnowledgeCatalog {
	c := models.NewKnowledgeCatalog(time.Now())

	docs, err := b.store.List()
	if err != nil {
		b.logger.Warn("catalog: vault scan failed", slog.String("error", err.Error()))
		return c
	}

	for _, doc := range docs {
		data, err := b.store.Read(doc.Path)
		if err != nil {
			b.logger.Warn("catalog: read failed", slog.String("path", doc.Path), slog.String("error", err.Error()))
			continue
		}
		fields, _ := frontmatter.Parse(string(data))
		if len(fields.Tags) == 0 || fields.Category == "" {
			b.logger.Warn("catalog: skipping document, missing tags or category", slog.String("path", doc.Path))
			continue
		}
		c.Insert(models.KnowledgePackage{
			Tags:              fields.Tags,
			Description:       fields.Description,
			Category:          fields.Category,
			Path:              doc.Path,
			RequiredKnowledge: fields.RequiredKnowledge,
		})
	}

	return c
}

// Rebuild builds a fresh catalog and persists it.
func (b *Builder) Rebuild() (*models.KnowledgeCatalog, error) {
	c := b.Build()
	if err := b.snap.Save(c); err != nil {
		return nil, err
	}
	b.logger.Info("catalog: rebuilt",
		slog.Int("categories", len(c.Knowledge)),
		slog.Int("packages", c.Packages()))
	return c, nil
}

// NeedsRebuild reports whether the snapshot is missing or older than any
// vault document. A missing vault root means there is nothing to index,
// so an existing snapshot is never considered stale by it.
func (b *Builder) NeedsRebuild() bool {
	builtAt, ok := b.snap.ModTime()
	if !ok {
		return true
	}
	docs, err := b.store.List()
	if err != nil {
		return true
	}
	for _, doc := range docs {
		if doc.ModTime.After(builtAt) {
			return true
		}
	}
	return false
}
