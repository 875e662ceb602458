package catalog

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/starford/mimir/internal/testutil"
)

func testBuilder(t *testing.T) (*Builder, string, *Store) {
	t.Helper()
	vaultDir, store := testutil.TestVault(t)
	snap := NewStore(filepath.Join(t.TempDir(), "knowledge.json"))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewBuilder(store, snap, logger), vaultDir, snap
}

func TestBuild_IndexesByCategoryAndName(t *testing.T) {
	b, vaultDir, _ := testBuilder(t)
	testutil.WriteDoc(t, vaultDir, "standards/conventions.md",
		"---\ncategory: standards\ntags: [go, style]\ndescription: House style\n---\nbody\n")
	testutil.WriteDoc(t, vaultDir, "frontend/react.md",
		"---\ncategory: frontend\ntags:\n  - react\nrequired_knowledge:\n  - standards/conventions.md\n---\nbody\n")

	c := b.Build()
	if len(c.Knowledge) != 2 {
		t.Fatalf("categories = %d, want 2", len(c.Knowledge))
	}
	pkg, ok := c.Knowledge["standards"]["standards-conventions"]
	if !ok {
		t.Fatalf("missing standards-conventions, got %v", c.Knowledge["standards"])
	}
	if pkg.Path != filepath.Join("standards", "conventions.md") {
		t.Errorf("path = %q", pkg.Path)
	}
	if pkg.Description != "House style" {
		t.Errorf("description = %q", pkg.Description)
	}
	dep := c.Knowledge["frontend"]["frontend-react"]
	if !reflect.DeepEqual(dep.RequiredKnowledge, []string{"standards/conventions.md"}) {
		t.Errorf("required_knowledge = %v", dep.RequiredKnowledge)
	}
}

func TestBuild_SkipsDocumentsMissingTagsOrCategory(t *testing.T) {
	b, vaultDir, _ := testBuilder(t)
	testutil.WriteDoc(t, vaultDir, "no-category.md", "---\ntags: [x]\n---\nbody\n")
	testutil.WriteDoc(t, vaultDir, "no-tags.md", "---\ncategory: misc\n---\nbody\n")
	testutil.WriteDoc(t, vaultDir, "plain.md", "no frontmatter at all\n")
	testutil.WriteDoc(t, vaultDir, "good.md", "---\ncategory: misc\ntags: [x]\n---\nbody\n")

	c := b.Build()
	if got := c.Packages(); got != 1 {
		t.Fatalf("packages = %d, want only the well-formed document", got)
	}
	if _, ok := c.Knowledge["misc"]["good"]; !ok {
		t.Errorf("good.md missing from catalog: %v", c.Knowledge)
	}
}

func TestBuild_MissingVaultYieldsEmptyCatalog(t *testing.T) {
	b, vaultDir, _ := testBuilder(t)
	if err := os.RemoveAll(vaultDir); err != nil {
		t.Fatal(err)
	}
	c := b.Build()
	if c.Packages() != 0 {
		t.Errorf("packages = %d, want 0", c.Packages())
	}
	if c.BuiltAt.IsZero() {
		t.Error("built_at must still be stamped")
	}
}

func TestBuild_Idempotent(t *testing.T) {
	b, vaultDir, _ := testBuilder(t)
	testutil.WriteDoc(t, vaultDir, "a.md", "---\ncategory: c\ntags: [x, y]\n---\nbody\n")
	testutil.WriteDoc(t, vaultDir, "b.md", "---\ncategory: c\ntags: [x]\n---\nbody\n")

	first := b.Build()
	second := b.Build()
	if !reflect.DeepEqual(first.Knowledge, second.Knowledge) {
		t.Errorf("knowledge differs between identical builds:\n%v\n%v", first.Knowledge, second.Knowledge)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	b, vaultDir, snap := testBuilder(t)
	testutil.WriteDoc(t, vaultDir, "a.md", "---\ncategory: c\ntags: [x]\n---\nbody\n")

	built, err := b.Rebuild()
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := snap.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(built.Knowledge, loaded.Knowledge) {
		t.Errorf("loaded knowledge differs from built")
	}
}

func TestLoad_AbsentVsCorrupt(t *testing.T) {
	snap := NewStore(filepath.Join(t.TempDir(), "knowledge.json"))
	if _, err := snap.Load(); !errors.Is(err, ErrAbsent) {
		t.Fatalf("err = %v, want ErrAbsent", err)
	}

	if err := os.WriteFile(snap.path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := snap.Load()
	if err == nil || errors.Is(err, ErrAbsent) {
		t.Fatalf("corrupt snapshot must load as a distinct error, got %v", err)
	}
}

func TestNeedsRebuild(t *testing.T) {
	b, vaultDir, _ := testBuilder(t)
	testutil.WriteDoc(t, vaultDir, "a.md", "---\ncategory: c\ntags: [x]\n---\nbody\n")

	if !b.NeedsRebuild() {
		t.Fatal("no snapshot yet: must need rebuild")
	}
	if _, err := b.Rebuild(); err != nil {
		t.Fatal(err)
	}
	if b.NeedsRebuild() {
		t.Fatal("fresh snapshot: must not need rebuild")
	}

	// Touch a vault file to be strictly newer than the snapshot.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(filepath.Join(vaultDir, "a.md"), future, future); err != nil {
		t.Fatal(err)
	}
	if !b.NeedsRebuild() {
		t.Fatal("newer vault file: must need rebuild")
	}
}

func TestNeedsRebuild_MissingVaultKeepsSnapshot(t *testing.T) {
	b, vaultDir, _ := testBuilder(t)
	if _, err := b.Rebuild(); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(vaultDir); err != nil {
		t.Fatal(err)
	}
	if b.NeedsRebuild() {
		t.Error("missing vault root: stale snapshot is fine")
	}
}
