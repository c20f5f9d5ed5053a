package id

import (
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingSource() (uuid.UUID, error) {
	return uuid.Nil, errors.New("entropy exhausted")
}

type warnRecorder struct{ msgs []string }

func (w *warnRecorder) Warn(msg string, args ...any) { w.msgs = append(w.msgs, msg) }

func TestGenerate_UUIDv7(t *testing.T) {
	gen := NewIDGenerator(nil)
	id, err := gen.Generate()
	require.NoError(t, err)

	u, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), u.Version())
	assert.False(t, IsFallbackID(id))
}

func TestGenerate_TimeOrdered(t *testing.T) {
	gen := NewIDGenerator(nil)
	ids := make([]string, 200)
	for i := range ids {
		ids[i] = gen.MustGenerate()
	}
	assert.True(t, sort.StringsAreSorted(ids))
}

func TestGenerate_Modes(t *testing.T) {
	t.Run("fallback", func(t *testing.T) {
		logger := &warnRecorder{}
		gen := NewIDGenerator(&IDGeneratorConfig{Source: failingSource, Logger: logger})

		first, err := gen.Generate()
		require.NoError(t, err)
		second, err := gen.Generate()
		require.NoError(t, err)

		assert.True(t, IsFallbackID(first))
		assert.NotEqual(t, first, second)
		assert.Equal(t, int64(2), gen.FailureCount())
		assert.Len(t, logger.msgs, 1, "warn only on first failure")
	})

	t.Run("strict", func(t *testing.T) {
		gen := NewIDGenerator(&IDGeneratorConfig{Mode: IDModeStrict, Source: failingSource})
		_, err := gen.Generate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "entropy exhausted")
		assert.Panics(t, func() { gen.MustGenerate() })
	})
}

func TestIDGenerationMode_String(t *testing.T) {
	assert.Equal(t, "fallback", IDModeFallback.String())
	assert.Equal(t, "strict", IDModeStrict.String())
	assert.Equal(t, "unknown", IDGenerationMode(9).String())
}

func TestNew(t *testing.T) {
	assert.NotEqual(t, New(), New())
}
