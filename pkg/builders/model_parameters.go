package builders

import (
	"github.com/curacel/langfuse-go/pkg/types"
)

// ModelParametersBuilder builds types.ModelParameters. The first rejected
// value is reported by Build.
type ModelParametersBuilder struct {
	params types.ModelParameters
	err    error
}

// NewModelParameters creates a new ModelParametersBuilder.
func NewModelParameters() *ModelParametersBuilder {
	return &ModelParametersBuilder{params: make(types.ModelParameters)}
}

// Temperature sets the temperature parameter.
func (m *ModelParametersBuilder) Temperature(temp float64) *ModelParametersBuilder {
	return m.Set("temperature", temp)
}

// MaxTokens sets the max_tokens parameter.
func (m *ModelParametersBuilder) MaxTokens(tokens int) *ModelParametersBuilder {
	return m.Set("max_tokens", tokens)
}

// TopP sets the top_p parameter.
func (m *ModelParametersBuilder) TopP(p float64) *ModelParametersBuilder {
	return m.Set("top_p", p)
}

// FrequencyPenalty sets the frequency_penalty parameter.
func (m *ModelParametersBuilder) FrequencyPenalty(penalty float64) *ModelParametersBuilder {
	return m.Set("frequency_penalty", penalty)
}

// PresencePenalty sets the presence_penalty parameter.
func (m *ModelParametersBuilder) PresencePenalty(penalty float64) *ModelParametersBuilder {
	return m.Set("presence_penalty", penalty)
}

// Stop sets the stop sequences.
func (m *ModelParametersBuilder) Stop(sequences ...string) *ModelParametersBuilder {
	return m.Set("stop", sequences)
}

// Seed sets the seed for deterministic outputs.
func (m *ModelParametersBuilder) Seed(seed int) *ModelParametersBuilder {
	return m.Set("seed", seed)
}

// Set sets an arbitrary parameter. Values must be scalars or string slices.
func (m *ModelParametersBuilder) Set(key string, value any) *ModelParametersBuilder {
	if m.err != nil {
		return m
	}
	m.err = m.params.Set(key, value)
	return m
}

// Build returns the parameters, or the first error recorded by Set.
func (m *ModelParametersBuilder) Build() BuildResult[types.ModelParameters] {
	if m.err != nil {
		return BuildResultError[types.ModelParameters](m.err)
	}
	return BuildResultOk(m.params)
}
