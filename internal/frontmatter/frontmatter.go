// Package frontmatter extracts the constrained metadata block that leads
// a knowledge document. It deliberately parses only the subset the vault
// format uses (scalar keys plus block or inline string lists), not YAML.
package frontmatter

import (
	"regexp"
	"strings"
)

var (
	blockRe    = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n(.*)$`)
	listItemRe = regexp.MustCompile(`^\s{2,}-\s+(.+)$`)
)

// Fields holds the recognized frontmatter keys. Unrecognized scalar keys
// are kept in Unknown so callers can read forward-compatible extensions.
type Fields struct {
	Tags              []string
	Description       string
	Category          string
	RequiredKnowledge []string
	FilePatterns      []string
	Unknown           map[string]string
}

// listKey reports whether key is list-typed and returns the destination.
func (f *Fields) listKey(key string) (*[]string, bool) {
	switch key {
	case "tags":
		return &f.Tags, true
	case "required_knowledge":
		return &f.RequiredKnowledge, true
	case "file_patterns":
		return &f.FilePatterns, true
	}
	return nil, false
}

// Parse splits content into frontmatter fields and body. Content without
// a leading ----delimited block yields zero-value fields and the whole
// trimmed content as body. Parse never fails: malformed lines are skipped.
func Parse(content string) (Fields, string) {
	fields := Fields{Unknown: map[string]string{}}

	m := blockRe.FindStringSubmatch(content)
	if m == nil {
		return fields, strings.TrimSpace(content)
	}
	block, body := m[1], m[2]

	var pending *[]string
	var items []string

	flush := func() {
		if pending != nil && len(items) > 0 {
			*pending = items
		}
		pending = nil
		items = nil
	}

	for _, line := range strings.Split(block, "\n") {
		if im := listItemRe.FindStringSubmatch(line); im != nil && pending != nil {
			items = append(items, strings.TrimSpace(im[1]))
			continue
		}
		flush()

		colon := strings.Index(line, ":")
		if colon < 0 {
			continue
		}
		key := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])

		if dst, ok := fields.listKey(key); ok {
			switch {
			case value == "":
				// Block style: items follow on the next lines.
				pending = dst
			case strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]"):
				*dst = splitInline(value)
			}
			continue
		}

		switch key {
		case "description":
			fields.Description = value
		case "category":
			fields.Category = value
		default:
			fields.Unknown[key] = value
		}
	}
	flush()

	return fields, strings.TrimSpace(body)
}

// splitInline parses an inline list like [a, b, c], dropping empty items.
func splitInline(value string) []string {
	inner := value[1 : len(value)-1]
	var out []string
	for _, part := range strings.Split(inner, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}
