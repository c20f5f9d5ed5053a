package builders

import (
	"time"

	"github.com/curacel/langfuse-go/pkg/types"
)

// MetadataBuilder builds types.Metadata with typed setters. Every setter
// stores a scalar so the result always validates.
//
// Example:
//
//	md := builders.BuildMetadata().
//	    String("user_tier", "premium").
//	    Int("attempt", 2).
//	    DurationMs("queue_wait", wait).
//	    Build()
type MetadataBuilder struct {
	data types.Metadata
}

// BuildMetadata creates a new MetadataBuilder.
func BuildMetadata() *MetadataBuilder {
	return &MetadataBuilder{data: make(types.Metadata)}
}

// String adds a string value.
func (m *MetadataBuilder) String(key, value string) *MetadataBuilder {
	m.data[key] = value
	return m
}

// Int adds an integer value.
func (m *MetadataBuilder) Int(key string, value int) *MetadataBuilder {
	m.data[key] = value
	return m
}

// Int64 adds an int64 value.
func (m *MetadataBuilder) Int64(key string, value int64) *MetadataBuilder {
	m.data[key] = value
	return m
}

// Float adds a float64 value.
func (m *MetadataBuilder) Float(key string, value float64) *MetadataBuilder {
	m.data[key] = value
	return m
}

// Bool adds a boolean value.
func (m *MetadataBuilder) Bool(key string, value bool) *MetadataBuilder {
	m.data[key] = value
	return m
}

// Null records key with a nil value.
func (m *MetadataBuilder) Null(key string) *MetadataBuilder {
	m.data[key] = nil
	return m
}

// Time adds a time value in the wire timestamp format.
func (m *MetadataBuilder) Time(key string, value time.Time) *MetadataBuilder {
	m.data[key] = types.NewTime(value).String()
	return m
}

// Duration adds a duration value as a string, e.g. "1.5s".
func (m *MetadataBuilder) Duration(key string, value time.Duration) *MetadataBuilder {
	m.data[key] = value.String()
	return m
}

// DurationMs adds a duration value as milliseconds.
func (m *MetadataBuilder) DurationMs(key string, value time.Duration) *MetadataBuilder {
	m.data[key] = value.Milliseconds()
	return m
}

// Merge lays other's entries over the builder's. Non-scalar values in other
// surface as an error from BuildChecked.
func (m *MetadataBuilder) Merge(other types.Metadata) *MetadataBuilder {
	for k, v := range other {
		m.data[k] = v
	}
	return m
}

// Build returns a copy of the metadata.
func (m *MetadataBuilder) Build() types.Metadata {
	return m.data.Clone()
}

// BuildChecked returns the metadata after validating every value.
func (m *MetadataBuilder) BuildChecked() BuildResult[types.Metadata] {
	md := m.Build()
	if err := md.Validate(); err != nil {
		return BuildResultError[types.Metadata](err)
	}
	return BuildResultOk(md)
}
