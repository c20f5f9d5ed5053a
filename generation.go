package langfuse

import (
	"time"

	"github.com/curacel/langfuse-go/pkg/ingestion"
	"github.com/curacel/langfuse-go/pkg/types"
)

// Generation records one model call: the model, its parameters, usage and
// cost. Generations have no children.
type Generation struct {
	core

	model               string
	modelParameters     types.ModelParameters
	usageDetails        map[string]int
	costDetails         map[string]float64
	completionStartTime time.Time
	level               types.ObservationLevel
	statusMessage       string
}

func newGeneration(env *treeEnv, traceID, parentID, name, model string, opts []ObservationOption) *Generation {
	o := buildObservationOptions(opts)
	g := &Generation{
		core:            newCore(env, types.ObservationTypeGeneration, traceID, parentID, name, o),
		model:           model,
		modelParameters: o.modelParameters,
		level:           o.level,
		statusMessage:   o.statusMessage,
	}
	if !g.level.Valid() {
		g.level = types.ObservationLevelDefault
	}
	return g
}

// Model returns the model name.
func (g *Generation) Model() string { return g.model }

// ModelParameters returns the model parameters, possibly empty.
func (g *Generation) ModelParameters() types.ModelParameters { return g.modelParameters }

// UsageDetails returns the usage counts.
func (g *Generation) UsageDetails() map[string]int { return g.usageDetails }

// CostDetails returns the costs.
func (g *Generation) CostDetails() map[string]float64 { return g.costDetails }

// CompletionStartTime returns when the first token arrived, zero if unknown.
func (g *Generation) CompletionStartTime() time.Time { return g.completionStartTime }

// Level returns the level.
func (g *Generation) Level() types.ObservationLevel { return g.level }

// StatusMessage returns the status message.
func (g *Generation) StatusMessage() string { return g.statusMessage }

// StartCompletion marks now as the moment the model started streaming its
// completion.
func (g *Generation) StartCompletion() *Generation {
	g.completionStartTime = g.env.now()
	return g
}

// WithUsageDetails replaces the usage counts.
func (g *Generation) WithUsageDetails(usage map[string]int) *Generation {
	g.usageDetails = usage
	return g
}

// WithCostDetails replaces the costs.
func (g *Generation) WithCostDetails(costs map[string]float64) *Generation {
	g.costDetails = costs
	return g
}

// Children always returns nil.
func (g *Generation) Children() []Observation { return nil }

// Update applies data. Usage and cost details are replaced, not merged.
func (g *Generation) Update(data UpdateData) {
	g.applyUpdate(data)
	if data.UsageDetails != nil {
		g.usageDetails = data.UsageDetails
	}
	if data.CostDetails != nil {
		g.costDetails = data.CostDetails
	}
}

// End ends the generation now.
func (g *Generation) End() {
	g.EndAt(g.env.now())
}

// EndWith applies data, then ends the generation now.
func (g *Generation) EndWith(data UpdateData) {
	g.Update(data)
	g.EndAt(g.env.now())
}

// EndAt sets the end time to t unless one is already set.
func (g *Generation) EndAt(t time.Time) {
	g.markEnded(t)
}

// Envelope returns the generation-create envelope. modelParameters is
// omitted when empty.
func (g *Generation) Envelope() ingestion.Event {
	body := ingestion.GenerationBody{
		ObservationBody:     g.body(),
		Model:               g.model,
		UsageDetails:        g.usageDetails,
		CostDetails:         g.costDetails,
		CompletionStartTime: types.NewTime(g.completionStartTime),
		Level:               g.level,
		StatusMessage:       g.statusMessage,
	}
	if !g.modelParameters.IsEmpty() {
		body.ModelParameters = g.modelParameters
	}
	return g.envelope(body)
}

var _ Observation = (*Generation)(nil)
