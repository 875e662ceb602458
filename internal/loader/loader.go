// Package loader resolves knowledge packages together with their
// transitive required_knowledge dependencies, in dependency-first order.
package loader

import (
	"log/slog"
	"strings"

	"github.com/starford/mimir/internal/frontmatter"
	"github.com/starford/mimir/internal/models"
	"github.com/starford/mimir/internal/vault"
)

// Block is one resolved package's content, in load order.
type Block struct {
	Path    string
	Content string
}

// Failure records a package whose content could not be read.
type Failure struct {
	Path   string
	Reason string
}

// Result summarizes one multi-package load.
type Result struct {
	Blocks    []Block   // successfully read, dependency-first
	Requested int       // identifiers explicitly asked for
	Resolved  int       // total, including transitive dependencies
	Deps      int       // dependencies pulled in beyond the request
	Failures  []Failure // resolved but unreadable
}

// Loaded returns the count of successfully read packages.
func (r *Result) Loaded() int {
	return len(r.Blocks)
}

// Loader reads packages from the vault, following dependency edges
// declared in each document's frontmatter.
type Loader struct {
	store  vault.Provider
	logger *slog.Logger
}

// New creates a loader over the given vault.
func New(store vault.Provider, logger *slog.Logger) *Loader {
	return &Loader{store: store, logger: logger}
}

// Resolve computes the load order for the requested identifiers and
// reads each resolved package's content. A single visited set spans the
// whole request, so a package reached twice (as a duplicate request, a
// shared dependency, or a cycle) is emitted exactly once, at its first
// encounter along the dependency-first walk. Identifiers whose files do
// not exist are dropped silently at resolution time; files that exist
// but fail to read are reported as failures.
func (l *Loader) Resolve(requested []string) *Result {
	res := &Result{Requested: len(requested)}

	visited := map[string]struct{}{}
	var order []string
	for _, id := range requested {
		l.walk(normalize(id), visited, &order)
	}
	res.Resolved = len(order)
	if deps := res.Resolved - res.Requested; deps > 0 {
		res.Deps = deps
	}

	for _, path := range order {
		data, err := l.store.Read(path)
		if err != nil {
			l.logger.Warn("loader: read failed", slog.String("path", path), slog.String("error", err.Error()))
			res.Failures = append(res.Failures, Failure{Path: path, Reason: err.Error()})
			continue
		}
		res.Blocks = append(res.Blocks, Block{Path: path, Content: string(data)})
	}

	return res
}

// walk appends path and its transitive dependencies to order in
// post-order: prerequisites first. Marking visited before recursing is
// what breaks dependency cycles.
func (l *Loader) walk(path string, visited map[string]struct{}, order *[]string) {
	if _, ok := visited[path]; ok {
		return
	}
	visited[path] = struct{}{}

	if !l.store.Exists(path) {
		return
	}

	data, err := l.store.Read(path)
	if err != nil {
		// Leave the identifier in the order; the content pass will
		// report the failure instead of dropping it silently.
		*order = append(*order, path)
		return
	}

	fields, _ := frontmatter.Parse(string(data))
	for _, dep := range fields.RequiredKnowledge {
		l.walk(normalize(dep), visited, order)
	}

	*order = append(*order, path)
}

// normalize appends the markdown extension to identifiers lacking it.
func normalize(id string) string {
	id = strings.TrimSpace(id)
	if !strings.HasSuffix(id, models.MarkdownExt) {
		id += models.MarkdownExt
	}
	return id
}
