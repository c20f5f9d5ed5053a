package types

import (
	"fmt"
	"sort"

	"github.com/curacel/langfuse-go/pkg/errors"
)

// Metadata is a flat map of contextual values attached to traces and
// observations. Values are restricted to scalars and nil; use Validate or
// NewMetadata to enforce that.
type Metadata map[string]any

// NewMetadata copies m after validating its values.
func NewMetadata(m map[string]any) (Metadata, error) {
	md := make(Metadata, len(m))
	for k, v := range m {
		if !isScalar(v) {
			return nil, errors.NewValidationError("metadata."+k,
				fmt.Sprintf("value must be a scalar or nil, got %T", v))
		}
		md[k] = v
	}
	return md, nil
}

// Validate reports the first non-scalar value, in key order.
func (m Metadata) Validate() error {
	for _, k := range m.Keys() {
		if !isScalar(m[k]) {
			return errors.NewValidationError("metadata."+k,
				fmt.Sprintf("value must be a scalar or nil, got %T", m[k]))
		}
	}
	return nil
}

// Scalars returns a copy of m without its non-scalar values, so the result
// always passes Validate. Dropped keys are returned in sorted order.
func (m Metadata) Scalars() (Metadata, []string) {
	if m == nil {
		return nil, nil
	}
	out := make(Metadata, len(m))
	var dropped []string
	for _, k := range m.Keys() {
		if !isScalar(m[k]) {
			dropped = append(dropped, k)
			continue
		}
		out[k] = m[k]
	}
	return out, dropped
}

// Get retrieves a value from the metadata.
func (m Metadata) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// Merge returns a new Metadata with other's keys laid over m's.
// Neither input is modified.
func (m Metadata) Merge(other Metadata) Metadata {
	if m == nil && other == nil {
		return nil
	}
	out := make(Metadata, len(m)+len(other))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Clone returns a shallow copy.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	return m.Merge(nil)
}

// Keys returns the keys in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsEmpty returns true if there are no entries.
func (m Metadata) IsEmpty() bool {
	return len(m) == 0
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}
