package langfuse

import (
	"time"

	"github.com/curacel/langfuse-go/pkg/ingestion"
	"github.com/curacel/langfuse-go/pkg/types"
)

// Observation is a node of a trace tree: a *Span, *Generation or *Event.
// The set is closed; other packages cannot implement it.
//
// Observations are owned by their parent and are not safe for concurrent
// mutation. Hand a subtree to one goroutine at a time.
type Observation interface {
	ID() string
	TraceID() string

	// ParentObservationID is the ID of the enclosing span, or "" for
	// observations created directly on a trace.
	ParentObservationID() string

	Type() types.ObservationType
	Name() string
	StartTime() time.Time

	// EndTime is zero until the observation is ended.
	EndTime() time.Time

	Metadata() types.Metadata
	Input() any
	Output() any

	// Update applies data without ending the observation.
	Update(data UpdateData)

	// End ends the observation now. Ending twice keeps the first end time.
	End()
	EndWith(data UpdateData)
	EndAt(t time.Time)

	// Children returns the direct children in creation order. Only spans
	// have children.
	Children() []Observation

	// Envelope returns the "-create" ingestion envelope for this node alone.
	Envelope() ingestion.Event

	sealed()
}

// UpdateData carries the fields Update and EndWith may change. Input and
// Output replace the current values when non-nil and Metadata is merged
// key by key, skipping values that are not scalars or nil. UsageDetails and CostDetails are only read by generations,
// which replace theirs wholesale when non-nil.
type UpdateData struct {
	Input        any
	Output       any
	Metadata     types.Metadata
	UsageDetails map[string]int
	CostDetails  map[string]float64
}

// treeEnv is shared by a trace and every node below it.
type treeEnv struct {
	now   func() time.Time
	newID func() string
}

// core holds the fields common to every observation kind.
type core struct {
	env *treeEnv

	id                  string
	traceID             string
	parentObservationID string
	kind                types.ObservationType
	name                string
	startTime           time.Time
	endTime             time.Time
	metadata            types.Metadata
	input               any
	output              any
}

func newCore(env *treeEnv, kind types.ObservationType, traceID, parentID, name string, o *observationOptions) core {
	c := core{
		env:                 env,
		id:                  o.id,
		traceID:             traceID,
		parentObservationID: parentID,
		kind:                kind,
		name:                name,
		startTime:           o.startTime,
		metadata:            o.metadata,
		input:               o.input,
	}
	if c.id == "" {
		c.id = env.newID()
	}
	if c.startTime.IsZero() {
		c.startTime = env.now()
	}
	return c
}

// ID returns the observation ID.
func (c *core) ID() string { return c.id }

// TraceID returns the ID of the owning trace.
func (c *core) TraceID() string { return c.traceID }

// ParentObservationID returns the enclosing span's ID, or "".
func (c *core) ParentObservationID() string { return c.parentObservationID }

// Type returns the observation kind.
func (c *core) Type() types.ObservationType { return c.kind }

// Name returns the observation name.
func (c *core) Name() string { return c.name }

// StartTime returns when the observation was created.
func (c *core) StartTime() time.Time { return c.startTime }

// EndTime returns the end time, zero while the observation is running.
func (c *core) EndTime() time.Time { return c.endTime }

// Metadata returns the current metadata.
func (c *core) Metadata() types.Metadata { return c.metadata }

// Input returns the current input.
func (c *core) Input() any { return c.input }

// Output returns the current output.
func (c *core) Output() any { return c.output }

func (c *core) sealed() {}

func (c *core) applyUpdate(data UpdateData) {
	if data.Input != nil {
		c.input = data.Input
	}
	if data.Output != nil {
		c.output = data.Output
	}
	if data.Metadata != nil {
		md, _ := data.Metadata.Scalars()
		c.metadata = c.metadata.Merge(md)
	}
}

// markEnded sets the end time once. It never precedes the start time.
func (c *core) markEnded(t time.Time) {
	if !c.endTime.IsZero() {
		return
	}
	if t.Before(c.startTime) {
		t = c.startTime
	}
	c.endTime = t
}

// extendTo raises the end time to t. It never lowers it.
func (c *core) extendTo(t time.Time) {
	if t.After(c.endTime) {
		c.endTime = t
	}
}

func (c *core) body() ingestion.ObservationBody {
	return ingestion.ObservationBody{
		ID:                  c.id,
		TraceID:             c.traceID,
		Type:                c.kind,
		Name:                c.name,
		StartTime:           types.NewTime(c.startTime),
		EndTime:             types.NewTime(c.endTime),
		Metadata:            c.metadata,
		Input:               c.input,
		Output:              c.output,
		ParentObservationID: c.parentObservationID,
	}
}

func (c *core) envelope(body any) ingestion.Event {
	return ingestion.NewEvent(c.id, types.NewTime(c.startTime), ingestion.CreateEventType(c.kind), body)
}

// ============================================================================
// Observation Options
// ============================================================================

// ObservationOption configures a span, generation or event at creation.
type ObservationOption func(*observationOptions)

type observationOptions struct {
	id              string
	startTime       time.Time
	metadata        types.Metadata
	input           any
	modelParameters types.ModelParameters
	level           types.ObservationLevel
	statusMessage   string
}

func buildObservationOptions(opts []ObservationOption) *observationOptions {
	o := &observationOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithObservationID overrides the generated ID.
func WithObservationID(id string) ObservationOption {
	return func(o *observationOptions) {
		o.id = id
	}
}

// WithStartTime overrides the creation time.
func WithStartTime(t time.Time) ObservationOption {
	return func(o *observationOptions) {
		o.startTime = t
	}
}

// WithMetadata sets the initial metadata. The map is copied and values
// that are not scalars or nil are dropped.
func WithMetadata(md types.Metadata) ObservationOption {
	return func(o *observationOptions) {
		o.metadata, _ = md.Scalars()
	}
}

// WithInput sets the initial input.
func WithInput(input any) ObservationOption {
	return func(o *observationOptions) {
		o.input = input
	}
}

// WithModelParameters sets a generation's model parameters. Unsupported
// values are dropped. Other kinds ignore it.
func WithModelParameters(params map[string]any) ObservationOption {
	return func(o *observationOptions) {
		o.modelParameters = types.ModelParametersFrom(params)
	}
}

// WithLevel sets the level of a generation or event.
func WithLevel(level types.ObservationLevel) ObservationOption {
	return func(o *observationOptions) {
		o.level = level
	}
}

// WithStatusMessage sets the status message of a generation or event.
func WithStatusMessage(msg string) ObservationOption {
	return func(o *observationOptions) {
		o.statusMessage = msg
	}
}
