package types

// Score is a numeric evaluation attached to a trace and optionally to one
// of its observations.
type Score struct {
	ID            string  `json:"id"`
	TraceID       string  `json:"traceId"`
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	Comment       string  `json:"comment,omitempty"`
	Timestamp     Time    `json:"timestamp"`
	ObservationID string  `json:"observationId,omitempty"`
}
