package ingestion

import (
	"github.com/curacel/langfuse-go/pkg/types"
)

// TraceBody is the body of a trace-create envelope.
type TraceBody struct {
	ID          string         `json:"id"`
	Name        string         `json:"name,omitempty"`
	UserID      string         `json:"userId,omitempty"`
	SessionID   string         `json:"sessionId,omitempty"`
	Input       any            `json:"input,omitempty"`
	Output      any            `json:"output,omitempty"`
	Metadata    types.Metadata `json:"metadata,omitempty"`
	Tags        types.Tags     `json:"tags,omitempty"`
	Version     string         `json:"version,omitempty"`
	Release     string         `json:"release,omitempty"`
	Environment string         `json:"environment,omitempty"`
	StartTime   types.Time     `json:"startTime"`
	EndTime     types.Time     `json:"endTime"`
}

// ObservationBody holds the fields shared by spans, generations and events.
type ObservationBody struct {
	ID                  string                `json:"id"`
	TraceID             string                `json:"traceId"`
	Type                types.ObservationType `json:"type"`
	Name                string                `json:"name"`
	StartTime           types.Time            `json:"startTime"`
	EndTime             types.Time            `json:"endTime"`
	Metadata            types.Metadata        `json:"metadata,omitempty"`
	Input               any                   `json:"input,omitempty"`
	Output              any                   `json:"output,omitempty"`
	ParentObservationID string                `json:"parentObservationId,omitempty"`
}

// SpanBody is the body of a span-create envelope. Children are sent as
// their own envelopes and are not nested here.
type SpanBody struct {
	ObservationBody
}

// GenerationBody is the body of a generation-create envelope.
// ModelParameters is omitted entirely when empty.
type GenerationBody struct {
	ObservationBody
	Model               string                 `json:"model,omitempty"`
	ModelParameters     types.ModelParameters  `json:"modelParameters,omitempty"`
	UsageDetails        map[string]int         `json:"usageDetails,omitempty"`
	CostDetails         map[string]float64     `json:"costDetails,omitempty"`
	CompletionStartTime types.Time             `json:"completionStartTime"`
	Level               types.ObservationLevel `json:"level,omitempty"`
	StatusMessage       string                 `json:"statusMessage,omitempty"`
}

// EventBody is the body of an event-create envelope.
type EventBody struct {
	ObservationBody
	Level         types.ObservationLevel `json:"level"`
	StatusMessage string                 `json:"statusMessage,omitempty"`
}
