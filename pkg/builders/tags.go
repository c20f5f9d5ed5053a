package builders

import "github.com/curacel/langfuse-go/pkg/types"

// TagsBuilder collects tags; Build normalises them with types.NewTags.
//
// Example:
//
//	tags := builders.NewTags().
//	    Add("checkout", "api").
//	    AddIf(isRetry, "retry").
//	    Environment(cfg.Environment).
//	    Build()
type TagsBuilder struct {
	tags []string
}

// NewTags creates a new TagsBuilder.
func NewTags() *TagsBuilder {
	return &TagsBuilder{}
}

// Add adds one or more tags.
func (t *TagsBuilder) Add(tags ...string) *TagsBuilder {
	t.tags = append(t.tags, tags...)
	return t
}

// AddIf conditionally adds a tag.
func (t *TagsBuilder) AddIf(condition bool, tag string) *TagsBuilder {
	if condition {
		t.tags = append(t.tags, tag)
	}
	return t
}

// Environment adds an "env:<name>" tag when env is not empty.
func (t *TagsBuilder) Environment(env string) *TagsBuilder {
	if env != "" {
		t.tags = append(t.tags, "env:"+env)
	}
	return t
}

// Version adds a "version:<v>" tag when version is not empty.
func (t *TagsBuilder) Version(version string) *TagsBuilder {
	if version != "" {
		t.tags = append(t.tags, "version:"+version)
	}
	return t
}

// Build returns the trimmed, de-duplicated tags in first-seen order.
func (t *TagsBuilder) Build() types.Tags {
	return types.NewTags(t.tags...)
}
