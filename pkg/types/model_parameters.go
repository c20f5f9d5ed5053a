package types

import (
	"fmt"

	"github.com/curacel/langfuse-go/pkg/errors"
)

// ModelParameters holds the sampling settings of a generation. Values are
// strings, numbers, booleans or string slices.
type ModelParameters map[string]any

// ModelParametersFrom keeps the supported entries of m and silently drops the
// rest. Slices keep only their string elements and are dropped when none remain.
func ModelParametersFrom(m map[string]any) ModelParameters {
	params := make(ModelParameters, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case []string:
			if len(val) > 0 {
				params[k] = append([]string(nil), val...)
			}
		case []any:
			var strs []string
			for _, item := range val {
				if s, ok := item.(string); ok {
					strs = append(strs, s)
				}
			}
			if len(strs) > 0 {
				params[k] = strs
			}
		default:
			if v != nil && isScalar(v) {
				params[k] = v
			}
		}
	}
	return params
}

// Set stores value under key. It fails for unsupported types.
func (p ModelParameters) Set(key string, value any) error {
	switch val := value.(type) {
	case []string:
		p[key] = append([]string(nil), val...)
		return nil
	case []any:
		strs := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return errors.NewValidationError("modelParameters."+key, "array values must be strings only")
			}
			strs = append(strs, s)
		}
		p[key] = strs
		return nil
	}
	if value == nil || !isScalar(value) {
		return errors.NewValidationError("modelParameters."+key,
			fmt.Sprintf("invalid parameter type %T: must be string, number, bool or []string", value))
	}
	p[key] = value
	return nil
}

// IsEmpty returns true if no parameters are set.
func (p ModelParameters) IsEmpty() bool {
	return len(p) == 0
}
