package builders

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curacel/langfuse-go/pkg/errors"
	"github.com/curacel/langfuse-go/pkg/types"
)

func TestMetadataBuilder(t *testing.T) {
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	md := BuildMetadata().
		String("tier", "gold").
		Int("attempt", 2).
		Bool("cached", true).
		Null("coupon").
		Time("at", at).
		DurationMs("wait", 1500*time.Millisecond).
		Build()

	assert.Equal(t, "gold", md["tier"])
	assert.Equal(t, 2, md["attempt"])
	assert.Equal(t, "2024-05-01T08:00:00.000Z", md["at"])
	assert.Equal(t, int64(1500), md["wait"])
	assert.Contains(t, md, "coupon")
	assert.NoError(t, md.Validate())
}

func TestMetadataBuilder_BuildChecked(t *testing.T) {
	_, err := BuildMetadata().
		Merge(types.Metadata{"nested": map[string]any{"a": 1}}).
		BuildChecked().
		Unwrap()

	var vErr *errors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "metadata.nested", vErr.Field)
}

func TestModelParametersBuilder(t *testing.T) {
	params, err := NewModelParameters().
		Temperature(0.7).
		MaxTokens(256).
		Stop("\n\n", "END").
		Build().
		Unwrap()
	require.NoError(t, err)
	assert.Equal(t, 0.7, params["temperature"])
	assert.Equal(t, []string{"\n\n", "END"}, params["stop"])

	result := NewModelParameters().Set("tools", map[string]any{"a": 1}).Temperature(1).Build()
	assert.False(t, result.Ok())
	assert.Error(t, result.Err())
	assert.Panics(t, func() { result.Must() })
}

func TestTagsBuilder(t *testing.T) {
	tags := NewTags().
		Add(" api ", "checkout", "api").
		AddIf(false, "skipped").
		AddIf(true, "retry").
		Environment("prod").
		Version("").
		Build()
	assert.Equal(t, types.Tags{"api", "checkout", "retry", "env:prod"}, tags)
}

func TestUsageBuilder(t *testing.T) {
	assert.Equal(t, map[string]int{"input": 120, "output": 48, "total": 168}, NewUsage().Tokens(120, 48).Build())
	assert.Equal(t, map[string]int{"input": 1, "total": 10}, NewUsage().Input(1).Total(10).Build())
	assert.Equal(t, map[string]int{"images": 2}, NewUsage().Set("images", 2).Build())
}

func TestCostBuilder(t *testing.T) {
	costs := NewCost().Input(0.25).Output(0.5).Build().Must()
	assert.Equal(t, map[string]float64{"input": 0.25, "output": 0.5, "total": 0.75}, costs)

	_, err := NewCost().Set("input", math.NaN()).Output(1).Build().Unwrap()
	assert.Error(t, err)
	assert.Empty(t, NewCost().Build().Value())
}
