package langfuse

import (
	"time"

	"github.com/curacel/langfuse-go/pkg/ingestion"
	"github.com/curacel/langfuse-go/pkg/types"
)

// Span is an observation with a duration that may contain nested
// observations. It owns its children.
//
// Example:
//
//	retrieval := trace.Span("retrieval", langfuse.WithInput(query))
//	rerank := retrieval.Generation("rerank", "gpt-4o-mini")
//	rerank.EndWith(langfuse.UpdateData{Output: ranked})
//	retrieval.End()
type Span struct {
	core
	children []Observation
}

func newSpan(env *treeEnv, traceID, parentID, name string, opts []ObservationOption) *Span {
	o := buildObservationOptions(opts)
	return &Span{core: newCore(env, types.ObservationTypeSpan, traceID, parentID, name, o)}
}

// Span creates a nested span.
func (s *Span) Span(name string, opts ...ObservationOption) *Span {
	child := newSpan(s.env, s.traceID, s.id, name, opts)
	s.children = append(s.children, child)
	return child
}

// Generation creates a nested generation.
func (s *Span) Generation(name, model string, opts ...ObservationOption) *Generation {
	child := newGeneration(s.env, s.traceID, s.id, name, model, opts)
	s.children = append(s.children, child)
	return child
}

// Event creates a nested event.
func (s *Span) Event(name string, opts ...ObservationOption) *Event {
	child := newEvent(s.env, s.traceID, s.id, name, opts)
	s.children = append(s.children, child)
	return child
}

// Children returns the direct children in creation order.
func (s *Span) Children() []Observation {
	return s.children
}

// Update applies data without ending the span.
func (s *Span) Update(data UpdateData) {
	s.applyUpdate(data)
}

// End ends the span now. See EndAt.
func (s *Span) End() {
	s.EndAt(s.env.now())
}

// EndWith applies data, then ends the span now.
func (s *Span) EndWith(data UpdateData) {
	s.applyUpdate(data)
	s.EndAt(s.env.now())
}

// EndAt ends every unended descendant at t, sets the span's end time to t
// unless it already has one, then raises it to the latest end time among
// the direct children.
func (s *Span) EndAt(t time.Time) {
	for _, child := range s.children {
		if child.EndTime().IsZero() {
			child.EndAt(t)
		}
	}
	s.markEnded(t)
	for _, child := range s.children {
		s.extendTo(child.EndTime())
	}
}

// Envelope returns the span-create envelope. Children are not included.
func (s *Span) Envelope() ingestion.Event {
	return s.envelope(ingestion.SpanBody{ObservationBody: s.body()})
}

var _ Observation = (*Span)(nil)
