package types

import (
	"fmt"
	"strings"

	"github.com/curacel/langfuse-go/pkg/errors"
)

// ObservationType represents the type of observation.
type ObservationType string

const (
	ObservationTypeSpan       ObservationType = "SPAN"
	ObservationTypeGeneration ObservationType = "GENERATION"
	ObservationTypeEvent      ObservationType = "EVENT"
)

// String returns the string representation of the observation type.
func (o ObservationType) String() string { return string(o) }

// ObservationLevel represents the severity level of an observation.
type ObservationLevel string

const (
	ObservationLevelDebug   ObservationLevel = "DEBUG"
	ObservationLevelDefault ObservationLevel = "DEFAULT"
	ObservationLevelWarning ObservationLevel = "WARNING"
	ObservationLevelError   ObservationLevel = "ERROR"
)

// String returns the string representation of the observation level.
func (l ObservationLevel) String() string { return string(l) }

// Valid reports whether l is one of the four known levels.
func (l ObservationLevel) Valid() bool {
	switch l {
	case ObservationLevelDebug, ObservationLevelDefault, ObservationLevelWarning, ObservationLevelError:
		return true
	}
	return false
}

// ParseLevel parses s case-insensitively.
func ParseLevel(s string) (ObservationLevel, error) {
	level := ObservationLevel(strings.ToUpper(strings.TrimSpace(s)))
	if !level.Valid() {
		return "", errors.NewValidationError("level",
			fmt.Sprintf("invalid level %q: must be one of DEBUG, DEFAULT, WARNING, ERROR", s))
	}
	return level, nil
}
