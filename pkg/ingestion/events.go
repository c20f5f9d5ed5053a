package ingestion

import (
	"strings"

	"github.com/curacel/langfuse-go/pkg/types"
)

// EventType is the type field of an envelope.
type EventType string

// Event types for the ingestion API.
const (
	EventTypeTraceCreate      EventType = "trace-create"
	EventTypeSpanCreate       EventType = "span-create"
	EventTypeGenerationCreate EventType = "generation-create"
	EventTypeEventCreate      EventType = "event-create"
	EventTypeScoreCreate      EventType = "score-create"
)

// CreateEventType returns the "-create" event type for an observation kind,
// e.g. SPAN becomes span-create.
func CreateEventType(t types.ObservationType) EventType {
	return EventType(strings.ToLower(string(t)) + "-create")
}

// Valid reports whether t is one of the create types this SDK sends.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeTraceCreate, EventTypeSpanCreate, EventTypeGenerationCreate,
		EventTypeEventCreate, EventTypeScoreCreate:
		return true
	}
	return false
}
