package frontmatter

import (
	"reflect"
	"testing"
)

func TestParse_BlockListAndScalars(t *testing.T) {
	input := "---\ncategory: backend\ndescription: HTTP conventions\ntags:\n  - go\n  - http\n---\n# Doc\nBody text.\n"
	f, body := Parse(input)
	if f.Category != "backend" {
		t.Errorf("category = %q, want %q", f.Category, "backend")
	}
	if f.Description != "HTTP conventions" {
		t.Errorf("description = %q", f.Description)
	}
	if !reflect.DeepEqual(f.Tags, []string{"go", "http"}) {
		t.Errorf("tags = %v, want [go http]", f.Tags)
	}
	if body != "# Doc\nBody text." {
		t.Errorf("body = %q", body)
	}
}

func TestParse_InlineList(t *testing.T) {
	input := "---\ntags: [go, , testing ]\ncategory: tools\n---\nbody\n"
	f, _ := Parse(input)
	if !reflect.DeepEqual(f.Tags, []string{"go", "testing"}) {
		t.Errorf("tags = %v, want [go testing] with empty item dropped", f.Tags)
	}
}

func TestParse_RequiredKnowledge(t *testing.T) {
	input := "---\ncategory: frontend\ntags: [react]\nrequired_knowledge:\n  - standards/code-conventions.md\n  - frontend/components\n---\nbody\n"
	f, _ := Parse(input)
	want := []string{"standards/code-conventions.md", "frontend/components"}
	if !reflect.DeepEqual(f.RequiredKnowledge, want) {
		t.Errorf("required_knowledge = %v, want %v", f.RequiredKnowledge, want)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	f, body := Parse("# Just a heading\nSome text.\n")
	if f.Category != "" || f.Tags != nil {
		t.Errorf("expected zero fields, got %+v", f)
	}
	if body != "# Just a heading\nSome text." {
		t.Errorf("body = %q", body)
	}
}

func TestParse_UnclosedBlockIsBody(t *testing.T) {
	input := "---\ntags: [x]\nno closing delimiter"
	f, body := Parse(input)
	if f.Tags != nil {
		t.Errorf("tags = %v, want nil", f.Tags)
	}
	if body != input {
		t.Errorf("body = %q, want full content", body)
	}
}

func TestParse_UnknownKeysBucketed(t *testing.T) {
	input := "---\ncategory: commands\nagent: build\nsubtask: true\n---\nbody\n"
	f, _ := Parse(input)
	if f.Unknown["agent"] != "build" || f.Unknown["subtask"] != "true" {
		t.Errorf("unknown bucket = %v", f.Unknown)
	}
}

func TestParse_EmptyBlockListYieldsAbsentKey(t *testing.T) {
	input := "---\ntags:\ncategory: misc\n---\nbody\n"
	f, _ := Parse(input)
	if f.Tags != nil {
		t.Errorf("tags = %v, want nil when no items follow", f.Tags)
	}
	if f.Category != "misc" {
		t.Errorf("category = %q, the empty list must not swallow later keys", f.Category)
	}
}

func TestParse_ListFlushedAtEndOfBlock(t *testing.T) {
	input := "---\ncategory: misc\ntags:\n  - last\n---\nbody\n"
	f, _ := Parse(input)
	if !reflect.DeepEqual(f.Tags, []string{"last"}) {
		t.Errorf("tags = %v, want [last]", f.Tags)
	}
}
