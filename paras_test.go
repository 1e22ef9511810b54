// FILE: trempy/initfile/paras_test.go
package initfile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadParas(t *testing.T, content string) (*Paras, *EventRecorder) {
	t.Helper()
	d, err := Load(writeInitFile(t, content))
	require.NoError(t, err)
	events := NewEventRecorder(nil)
	p, err := NewParas(d, events)
	require.NoError(t, err)
	return p, events
}

func TestParasOrder(t *testing.T) {
	p, _ := loadParas(t, archimedeanInit)

	assert.Equal(t, []string{"r_self", "r_other", "delta", "self", "other", "1", "2", "13"}, p.Labels())
	assert.Equal(t, 5, p.NumEcon())

	all, err := p.Values(PerspectiveEcon, SelectAll)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5, 0.2, 0.5, 0.3, 0.3, 0.4, 0.2}, all)

	free, err := p.Values(PerspectiveEcon, SelectFree)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.2, 0.5, 0.3, 0.2}, free)
}

func TestParasAbsentHeldFixed(t *testing.T) {
	p, _ := loadParas(t, nonstationaryInit)

	assert.Equal(t, 16, p.NumEcon())
	assert.Len(t, p.Labels(), 17)

	para, err := p.Get("unrestricted_weights_3")
	require.NoError(t, err)
	assert.True(t, para.Absent)
	assert.True(t, math.IsNaN(para.Value))

	free, err := p.Values(PerspectiveOptim, SelectFree)
	require.NoError(t, err)
	assert.Len(t, free, 10)
	for _, v := range free {
		assert.False(t, math.IsNaN(v))
	}

	all, err := p.Values(PerspectiveOptim, SelectAll)
	require.NoError(t, err)
	require.NoError(t, p.SetValues(PerspectiveOptim, SelectAll, all))

	para, _ = p.Get("unrestricted_weights_3")
	assert.True(t, para.Absent)
}

func TestParasOptimRoundTrip(t *testing.T) {
	p, events := loadParas(t, archimedeanInit)

	before, err := p.Values(PerspectiveEcon, SelectFree)
	require.NoError(t, err)

	optim, err := p.Values(PerspectiveOptim, SelectFree)
	require.NoError(t, err)
	require.NoError(t, p.SetValues(PerspectiveOptim, SelectFree, optim))

	after, err := p.Values(PerspectiveEcon, SelectFree)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.InDelta(t, before[i], after[i], 1e-9)
	}
	assert.Empty(t, events.Events())
}

func TestParasTransformEvents(t *testing.T) {
	t.Run("value on bound", func(t *testing.T) {
		p, events := loadParas(t, archimedeanInit)
		require.NoError(t, p.SetValues(PerspectiveEcon, SelectFree, []float64{0.01, 0.2, 0.5, 0.3, 0.2}))

		optim, err := p.Values(PerspectiveOptim, SelectFree)
		require.NoError(t, err)
		assert.False(t, math.IsInf(optim[0], 0))
		assert.Contains(t, events.Events(), EventBoundsAdjusted)
	})

	t.Run("overflow", func(t *testing.T) {
		p, events := loadParas(t, archimedeanInit)
		require.NoError(t, p.SetValues(PerspectiveOptim, SelectFree, []float64{-1000, 0, 0, 0, 0}))

		para, _ := p.Get("r_self")
		assert.InDelta(t, 0.01, para.Value, 1e-12)
		assert.Contains(t, events.Events(), EventIntervalOverflow)
	})
}

func TestParasErrors(t *testing.T) {
	p, _ := loadParas(t, archimedeanInit)

	_, err := p.Get("kappa")
	assert.ErrorIs(t, err, ErrUnknownParameter)

	_, err = p.Values("other", SelectAll)
	assert.Error(t, err)
	_, err = p.Values(PerspectiveEcon, "some")
	assert.Error(t, err)

	assert.Error(t, p.SetValues(PerspectiveEcon, SelectFree, []float64{0.5}))
	assert.Error(t, p.SetValues(PerspectiveEcon, SelectFree, make([]float64, 6)))

	err = p.SetValues(PerspectiveEcon, SelectFree, []float64{9, 0.2, 0.5, 0.3, 0.2})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestNewParasMissingParameter(t *testing.T) {
	d, err := Load(writeInitFile(t, "VERSION\nversion scaled_archimedean\nMULTIATTRIBUTE COPULA\ndelta 0.2\n"))
	require.NoError(t, err)

	_, err = NewParas(d, nil)
	assert.ErrorIs(t, err, ErrMissingParameter)
}
