package langfuse

import (
	"time"

	"github.com/curacel/langfuse-go/pkg/ingestion"
	"github.com/curacel/langfuse-go/pkg/types"
)

// Event marks a point in time. Ending an event applies its data but never
// sets an end time.
type Event struct {
	core

	level         types.ObservationLevel
	statusMessage string
}

func newEvent(env *treeEnv, traceID, parentID, name string, opts []ObservationOption) *Event {
	o := buildObservationOptions(opts)
	e := &Event{
		core:          newCore(env, types.ObservationTypeEvent, traceID, parentID, name, o),
		level:         o.level,
		statusMessage: o.statusMessage,
	}
	if !e.level.Valid() {
		e.level = types.ObservationLevelDefault
	}
	return e
}

// Level returns the level.
func (e *Event) Level() types.ObservationLevel { return e.level }

// StatusMessage returns the status message.
func (e *Event) StatusMessage() string { return e.statusMessage }

// SetLevel parses level case-insensitively. Unknown levels are rejected
// with a *errors.ValidationError and leave the level unchanged.
func (e *Event) SetLevel(level string) error {
	parsed, err := types.ParseLevel(level)
	if err != nil {
		return err
	}
	e.level = parsed
	return nil
}

// SetStatusMessage replaces the status message.
func (e *Event) SetStatusMessage(msg string) {
	e.statusMessage = msg
}

// Children always returns nil.
func (e *Event) Children() []Observation { return nil }

// Update applies data.
func (e *Event) Update(data UpdateData) {
	e.applyUpdate(data)
}

// End is a no-op.
func (e *Event) End() {}

// EndWith applies data.
func (e *Event) EndWith(data UpdateData) {
	e.applyUpdate(data)
}

// EndAt is a no-op.
func (e *Event) EndAt(time.Time) {}

// Envelope returns the event-create envelope.
func (e *Event) Envelope() ingestion.Event {
	return e.envelope(ingestion.EventBody{
		ObservationBody: e.body(),
		Level:           e.level,
		StatusMessage:   e.statusMessage,
	})
}

var _ Observation = (*Event)(nil)
