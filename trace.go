package langfuse

import (
	"time"

	"github.com/curacel/langfuse-go/pkg/ingestion"
	"github.com/curacel/langfuse-go/pkg/types"
)

// TraceConfig describes a trace to create. Build it with NewTraceConfig to
// get validated metadata and normalised tags, or fill the struct directly.
type TraceConfig struct {
	// ID overrides the generated trace ID.
	ID        string
	Name      string
	UserID    string
	SessionID string
	Metadata  types.Metadata
	Tags      types.Tags
	Version   string
	Release   string
	Input     any
	Output    any
}

// TraceConfigOption configures NewTraceConfig.
type TraceConfigOption func(*TraceConfig)

// NewTraceConfig builds a TraceConfig named name. It fails with a
// *errors.ValidationError when metadata holds a non-scalar value.
func NewTraceConfig(name string, opts ...TraceConfigOption) (TraceConfig, error) {
	cfg := TraceConfig{Name: name}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Tags = types.NewTags(cfg.Tags...)
	if err := cfg.Metadata.Validate(); err != nil {
		return TraceConfig{}, err
	}
	return cfg, nil
}

// WithTraceID sets the trace ID.
func WithTraceID(id string) TraceConfigOption {
	return func(c *TraceConfig) { c.ID = id }
}

// WithUserID sets the ID of the user that triggered the execution.
func WithUserID(id string) TraceConfigOption {
	return func(c *TraceConfig) { c.UserID = id }
}

// WithSessionID groups related traces.
func WithSessionID(id string) TraceConfigOption {
	return func(c *TraceConfig) { c.SessionID = id }
}

// WithTraceMetadata sets the trace metadata.
func WithTraceMetadata(md types.Metadata) TraceConfigOption {
	return func(c *TraceConfig) { c.Metadata = md.Clone() }
}

// WithTags adds tags.
func WithTags(tags ...string) TraceConfigOption {
	return func(c *TraceConfig) { c.Tags = append(c.Tags, tags...) }
}

// WithVersion sets the version.
func WithVersion(v string) TraceConfigOption {
	return func(c *TraceConfig) { c.Version = v }
}

// WithRelease sets the release.
func WithRelease(r string) TraceConfigOption {
	return func(c *TraceConfig) { c.Release = r }
}

// WithTraceInput sets the trace input.
func WithTraceInput(input any) TraceConfigOption {
	return func(c *TraceConfig) { c.Input = input }
}

// Merge returns a copy of c with the non-empty fields of other laid over
// it. Input and Output are kept from c.
func (c TraceConfig) Merge(other TraceConfig) TraceConfig {
	out := c
	if other.ID != "" {
		out.ID = other.ID
	}
	if other.Name != "" {
		out.Name = other.Name
	}
	if other.UserID != "" {
		out.UserID = other.UserID
	}
	if other.SessionID != "" {
		out.SessionID = other.SessionID
	}
	if other.Metadata != nil {
		out.Metadata = other.Metadata.Clone()
	}
	if other.Tags != nil {
		out.Tags = types.NewTags(other.Tags...)
	}
	if other.Version != "" {
		out.Version = other.Version
	}
	if other.Release != "" {
		out.Release = other.Release
	}
	return out
}

// ============================================================================
// Trace
// ============================================================================

// Trace is the root of one execution flow. It owns its root observations
// and its scores, and accumulates them until the collector flushes.
type Trace struct {
	env *treeEnv

	id        string
	name      string
	userID    string
	sessionID string
	metadata  types.Metadata
	tags      types.Tags
	version   string
	release   string
	input     any
	output    any
	startTime time.Time
	endTime   time.Time

	observations []Observation
	scores       []types.Score
}

func newTrace(env *treeEnv, cfg TraceConfig) *Trace {
	t := &Trace{
		env:       env,
		id:        cfg.ID,
		name:      cfg.Name,
		userID:    cfg.UserID,
		sessionID: cfg.SessionID,
		metadata:  cfg.Metadata.Clone(),
		tags:      types.NewTags(cfg.Tags...),
		version:   cfg.Version,
		release:   cfg.Release,
		input:     cfg.Input,
		output:    cfg.Output,
		startTime: env.now(),
	}
	if t.id == "" {
		t.id = env.newID()
	}
	return t
}

// ID returns the trace ID.
func (t *Trace) ID() string { return t.id }

// Name returns the trace name.
func (t *Trace) Name() string { return t.name }

// UserID returns the user ID.
func (t *Trace) UserID() string { return t.userID }

// SessionID returns the session ID.
func (t *Trace) SessionID() string { return t.sessionID }

// Metadata returns the metadata.
func (t *Trace) Metadata() types.Metadata { return t.metadata }

// Tags returns the tags.
func (t *Trace) Tags() types.Tags { return t.tags }

// Version returns the version.
func (t *Trace) Version() string { return t.version }

// Release returns the release.
func (t *Trace) Release() string { return t.release }

// Input returns the input.
func (t *Trace) Input() any { return t.input }

// Output returns the output.
func (t *Trace) Output() any { return t.output }

// StartTime returns when the trace was created.
func (t *Trace) StartTime() time.Time { return t.startTime }

// EndTime returns the end time, zero while the trace is running.
func (t *Trace) EndTime() time.Time { return t.endTime }

// Observations returns the root observations in creation order.
func (t *Trace) Observations() []Observation { return t.observations }

// Scores returns the recorded scores in creation order.
func (t *Trace) Scores() []types.Score { return t.scores }

// Span creates a root span.
func (t *Trace) Span(name string, opts ...ObservationOption) *Span {
	s := newSpan(t.env, t.id, "", name, opts)
	t.observations = append(t.observations, s)
	return s
}

// Generation creates a root generation.
func (t *Trace) Generation(name, model string, opts ...ObservationOption) *Generation {
	g := newGeneration(t.env, t.id, "", name, model, opts)
	t.observations = append(t.observations, g)
	return g
}

// Event creates a root event.
func (t *Trace) Event(name string, opts ...ObservationOption) *Event {
	e := newEvent(t.env, t.id, "", name, opts)
	t.observations = append(t.observations, e)
	return e
}

// ScoreOption configures a score.
type ScoreOption func(*types.Score)

// WithComment attaches a comment to a score.
func WithComment(comment string) ScoreOption {
	return func(s *types.Score) { s.Comment = comment }
}

// ForObservation attaches a score to an observation of the trace.
func ForObservation(o Observation) ScoreOption {
	return func(s *types.Score) {
		if o != nil {
			s.ObservationID = o.ID()
		}
	}
}

// Score records a score on the trace and returns it.
func (t *Trace) Score(name string, value float64, opts ...ScoreOption) types.Score {
	score := types.Score{
		ID:        t.env.newID(),
		TraceID:   t.id,
		Name:      name,
		Value:     value,
		Timestamp: types.NewTime(t.env.now()),
	}
	for _, opt := range opts {
		opt(&score)
	}
	t.scores = append(t.scores, score)
	return score
}

// Update replaces Input and Output when non-nil and merges Metadata.
func (t *Trace) Update(data UpdateData) {
	if data.Input != nil {
		t.input = data.Input
	}
	if data.Output != nil {
		t.output = data.Output
	}
	if data.Metadata != nil {
		t.MergeMetadata(data.Metadata)
	}
}

// MergeMetadata lays md over the current metadata. Values that are not
// scalars or nil are dropped.
func (t *Trace) MergeMetadata(md types.Metadata) {
	scalars, _ := md.Scalars()
	t.metadata = t.metadata.Merge(scalars)
}

// End ends the trace now. See EndAt.
func (t *Trace) End() {
	t.EndAt(t.env.now())
}

// EndWith applies data, then ends the trace now.
func (t *Trace) EndWith(data UpdateData) {
	t.Update(data)
	t.EndAt(t.env.now())
}

// EndAt sets the end time to t unless one is already set, ends every
// unended root observation at t, then raises the trace's end time to the
// latest root observation end time.
func (t *Trace) EndAt(at time.Time) {
	if t.endTime.IsZero() {
		if at.Before(t.startTime) {
			at = t.startTime
		}
		t.endTime = at
	}
	for _, o := range t.observations {
		if o.EndTime().IsZero() {
			o.EndAt(at)
		}
		if end := o.EndTime(); end.After(t.endTime) {
			t.endTime = end
		}
	}
}

// Envelopes flattens the trace: the trace-create envelope, then every
// observation in pre-order, then the scores. environment is sent on the
// trace body. The tree is not modified.
func (t *Trace) Envelopes(environment string) []ingestion.Event {
	events := make([]ingestion.Event, 0, 1+len(t.observations)+len(t.scores))
	events = append(events, ingestion.NewEvent(t.id, types.NewTime(t.startTime), ingestion.EventTypeTraceCreate,
		ingestion.TraceBody{
			ID:          t.id,
			Name:        t.name,
			UserID:      t.userID,
			SessionID:   t.sessionID,
			Input:       t.input,
			Output:      t.output,
			Metadata:    t.metadata,
			Tags:        t.tags,
			Version:     t.version,
			Release:     t.release,
			Environment: environment,
			StartTime:   types.NewTime(t.startTime),
			EndTime:     types.NewTime(t.endTime),
		}))

	ingestion.Walk(t.observations, Observation.Children, func(o Observation) {
		events = append(events, o.Envelope())
	})

	for _, s := range t.scores {
		events = append(events, ingestion.NewEvent(s.ID, s.Timestamp, ingestion.EventTypeScoreCreate, s))
	}
	return events
}
