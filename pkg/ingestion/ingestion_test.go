package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/curacel/langfuse-go/pkg/errors"
	"github.com/curacel/langfuse-go/pkg/types"
)

type node struct {
	name     string
	children []*node
}

func childrenOf(n *node) []*node { return n.children }

func TestFlatten_PreOrder(t *testing.T) {
	// Span(Generation, Span(Event))
	tree := &node{name: "span", children: []*node{
		{name: "generation"},
		{name: "nested-span", children: []*node{{name: "event"}}},
	}}
	second := &node{name: "second-root"}

	var names []string
	for _, n := range Flatten([]*node{tree, second}, childrenOf) {
		names = append(names, n.name)
	}
	assert.Equal(t, []string{"span", "generation", "nested-span", "event", "second-root"}, names)
	assert.Len(t, tree.children, 2, "flatten does not modify the tree")
}

func TestFlatten_Empty(t *testing.T) {
	assert.Empty(t, Flatten(nil, childrenOf))
}

func TestWalk_Deep(t *testing.T) {
	root := &node{name: "0"}
	cur := root
	for i := 1; i < 50; i++ {
		next := &node{name: "n"}
		cur.children = []*node{next}
		cur = next
	}
	count := 0
	Walk([]*node{root}, childrenOf, func(*node) { count++ })
	assert.Equal(t, 50, count)
}

func TestCreateEventType(t *testing.T) {
	assert.Equal(t, EventTypeSpanCreate, CreateEventType(types.ObservationTypeSpan))
	assert.Equal(t, EventTypeGenerationCreate, CreateEventType(types.ObservationTypeGeneration))
	assert.Equal(t, EventTypeEventCreate, CreateEventType(types.ObservationTypeEvent))
	assert.True(t, EventTypeScoreCreate.Valid())
	assert.False(t, EventType("sdk-log").Valid())
}

func TestEvent_JSON(t *testing.T) {
	ts := types.NewTime(time.Date(2024, 3, 1, 10, 20, 30, 456_000_000, time.UTC))
	batch := Batch{Batch: []Event{
		NewEvent("trace-1", ts, EventTypeTraceCreate, TraceBody{
			ID:          "trace-1",
			Name:        "checkout",
			Tags:        types.NewTags("a", " a ", "b"),
			Environment: "staging",
			StartTime:   ts,
		}),
	}}

	data, err := json.Marshal(batch)
	require.NoError(t, err)

	var decoded map[string][]map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded["batch"], 1)

	env := decoded["batch"][0]
	assert.Equal(t, "trace-1", env["id"])
	assert.Equal(t, "2024-03-01T10:20:30.456Z", env["timestamp"])
	assert.Equal(t, "trace-create", env["type"])

	body := env["body"].(map[string]any)
	assert.Equal(t, "staging", body["environment"])
	assert.Equal(t, []any{"a", "b"}, body["tags"])
	assert.Nil(t, body["endTime"])
	assert.Contains(t, body, "endTime", "unset end time is sent as null")

	assert.Equal(t, []string{"trace-1"}, batch.IDs())
	assert.Equal(t, 1, batch.Len())
}

func TestGenerationBody_ModelParameters(t *testing.T) {
	base := ObservationBody{ID: "g", TraceID: "t", Type: types.ObservationTypeGeneration, Name: "llm"}

	with, err := json.Marshal(GenerationBody{
		ObservationBody: base,
		Model:           "gpt-4o",
		ModelParameters: types.ModelParametersFrom(map[string]any{"temperature": 0.7}),
	})
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(with, &got))
	assert.Equal(t, map[string]any{"temperature": 0.7}, got["modelParameters"])
	assert.Equal(t, "GENERATION", got["type"])
	assert.Equal(t, "t", got["traceId"])

	without, err := json.Marshal(GenerationBody{ObservationBody: base, Model: "gpt-4o"})
	require.NoError(t, err)
	got = nil
	require.NoError(t, json.Unmarshal(without, &got))
	assert.NotContains(t, got, "modelParameters")
	assert.NotContains(t, got, "parentObservationId")
}

func TestResult(t *testing.T) {
	var ok Result
	require.NoError(t, json.Unmarshal([]byte(`{"successes":[{"id":"a","status":201}],"errors":[]}`), &ok))
	assert.False(t, ok.HasErrors())
	assert.NoError(t, ok.Err())

	var partial Result
	require.NoError(t, json.Unmarshal([]byte(`{
		"successes":[{"id":"a","status":201}],
		"errors":[{"id":"b","status":400,"message":"invalid body"}]
	}`), &partial))
	require.True(t, partial.HasErrors())

	err := partial.Err()
	var ingErr *pkgerrors.IngestionError
	require.ErrorAs(t, err, &ingErr)
	assert.True(t, ingErr.IsPartial())
	assert.Equal(t, []string{"b"}, ingErr.FailedIDs())
	assert.Contains(t, err.Error(), "invalid body")
}
