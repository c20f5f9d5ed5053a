package types

import "strings"

// Tags is an ordered set of trimmed, non-empty labels.
type Tags []string

// NewTags trims each tag, drops empty ones and removes duplicates while
// keeping first-seen order.
func NewTags(tags ...string) Tags {
	out := make(Tags, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// With returns a new Tags with extra appended under the same rules.
func (t Tags) With(extra ...string) Tags {
	all := make([]string, 0, len(t)+len(extra))
	all = append(all, t...)
	all = append(all, extra...)
	return NewTags(all...)
}

// Contains reports whether tag is present.
func (t Tags) Contains(tag string) bool {
	tag = strings.TrimSpace(tag)
	for _, existing := range t {
		if existing == tag {
			return true
		}
	}
	return false
}

// IsEmpty returns true if there are no tags.
func (t Tags) IsEmpty() bool {
	return len(t) == 0
}
