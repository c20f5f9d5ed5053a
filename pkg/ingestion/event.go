package ingestion

import (
	"github.com/curacel/langfuse-go/pkg/errors"
	"github.com/curacel/langfuse-go/pkg/types"
)

// Path is the ingestion endpoint, relative to the API base URL.
const Path = "/api/public/ingestion"

// Event is one envelope of a batch. ID is the ID of the entity in Body so
// that rejected envelopes can be matched back to traces and observations.
type Event struct {
	ID        string     `json:"id"`
	Timestamp types.Time `json:"timestamp"`
	Type      EventType  `json:"type"`
	Body      any        `json:"body"`
}

// NewEvent builds an envelope.
func NewEvent(id string, ts types.Time, typ EventType, body any) Event {
	return Event{ID: id, Timestamp: ts, Type: typ, Body: body}
}

// Batch is the request body of the ingestion endpoint.
type Batch struct {
	Batch []Event `json:"batch"`
}

// IDs returns the envelope IDs in batch order.
func (b Batch) IDs() []string {
	ids := make([]string, len(b.Batch))
	for i, e := range b.Batch {
		ids[i] = e.ID
	}
	return ids
}

// Len returns the number of envelopes.
func (b Batch) Len() int {
	return len(b.Batch)
}

// Success is an accepted envelope.
type Success struct {
	ID     string `json:"id"`
	Status int    `json:"status"`
}

// Result is the response body of the ingestion endpoint.
type Result struct {
	Successes []Success                 `json:"successes"`
	Errors    []errors.IngestionFailure `json:"errors"`
}

// HasErrors reports whether any envelope was rejected.
func (r Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err returns an *errors.IngestionError naming the rejected envelopes, or
// nil when every envelope was accepted.
func (r Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return errors.NewPartialFailure(r.Errors)
}
