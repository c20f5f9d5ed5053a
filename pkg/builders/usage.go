package builders

import (
	"fmt"
	"math"

	"github.com/curacel/langfuse-go/pkg/errors"
)

// Usage detail keys understood by Langfuse.
const (
	UsageInput  = "input"
	UsageOutput = "output"
	UsageTotal  = "total"
)

// UsageBuilder builds the usage details of a generation.
//
// Example:
//
//	usage := builders.NewUsage().Tokens(120, 48).Set("cache_read", 64).Build()
//	gen.EndWith(langfuse.UpdateData{Output: answer, UsageDetails: usage})
type UsageBuilder struct {
	usage       map[string]int
	totalForced bool
}

// NewUsage creates a new UsageBuilder.
func NewUsage() *UsageBuilder {
	return &UsageBuilder{usage: make(map[string]int)}
}

// Input sets the input unit count.
func (u *UsageBuilder) Input(n int) *UsageBuilder {
	u.usage[UsageInput] = n
	return u
}

// Output sets the output unit count.
func (u *UsageBuilder) Output(n int) *UsageBuilder {
	u.usage[UsageOutput] = n
	return u
}

// Tokens sets input and output together.
func (u *UsageBuilder) Tokens(input, output int) *UsageBuilder {
	return u.Input(input).Output(output)
}

// Total sets the total explicitly. Without it Build derives input+output.
func (u *UsageBuilder) Total(n int) *UsageBuilder {
	u.usage[UsageTotal] = n
	u.totalForced = true
	return u
}

// Set records a provider-specific count such as "cache_read".
func (u *UsageBuilder) Set(key string, n int) *UsageBuilder {
	u.usage[key] = n
	return u
}

// Build returns a copy of the usage details.
func (u *UsageBuilder) Build() map[string]int {
	out := make(map[string]int, len(u.usage)+1)
	for k, v := range u.usage {
		out[k] = v
	}
	if !u.totalForced {
		in, hasIn := out[UsageInput]
		outN, hasOut := out[UsageOutput]
		if hasIn || hasOut {
			out[UsageTotal] = in + outN
		}
	}
	return out
}

// CostBuilder builds the cost details of a generation.
type CostBuilder struct {
	costs map[string]float64
	err   error
}

// NewCost creates a new CostBuilder.
func NewCost() *CostBuilder {
	return &CostBuilder{costs: make(map[string]float64)}
}

// Input sets the input cost.
func (c *CostBuilder) Input(cost float64) *CostBuilder {
	return c.Set(UsageInput, cost)
}

// Output sets the output cost.
func (c *CostBuilder) Output(cost float64) *CostBuilder {
	return c.Set(UsageOutput, cost)
}

// Set records a cost. NaN and infinite values are rejected.
func (c *CostBuilder) Set(key string, cost float64) *CostBuilder {
	if c.err != nil {
		return c
	}
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		c.err = errors.NewValidationError("costDetails."+key, fmt.Sprintf("cost must be a finite number, got %v", cost))
		return c
	}
	c.costs[key] = cost
	return c
}

// Build returns the cost details with a derived total, or the first error.
func (c *CostBuilder) Build() BuildResult[map[string]float64] {
	if c.err != nil {
		return BuildResultError[map[string]float64](c.err)
	}
	out := make(map[string]float64, len(c.costs)+1)
	var total float64
	for k, v := range c.costs {
		out[k] = v
		if k != UsageTotal {
			total += v
		}
	}
	if _, ok := out[UsageTotal]; !ok && len(out) > 0 {
		out[UsageTotal] = total
	}
	return BuildResultOk(out)
}
