// FILE: trempy/initfile/model_test.go
package initfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelArchimedean(t *testing.T) {
	d, err := Load(writeInitFile(t, archimedeanInit))
	require.NoError(t, err)

	m, err := NewModel(d, nil)
	require.NoError(t, err)

	assert.Equal(t, VariantScaledArchimedean, m.Variant)
	assert.Equal(t, [2]string{"power", "exponential"}, m.Marginals)
	assert.Equal(t, [2]int{100, 100}, m.Upper)
	assert.Equal(t, []int{1, 2, 13}, m.Questions)
	assert.Equal(t, "SCIPY-BFGS", m.Estimation.Optimizer)
	assert.Equal(t, 123, m.Simulation.Seed)
	assert.Equal(t, 1e-05, m.BFGS.Gtol)
	assert.Len(t, m.Cutoffs, 15)
	assert.NotNil(t, m.Events)
}

func TestNewModelNonstationary(t *testing.T) {
	d, err := Load(writeInitFile(t, nonstationaryInit))
	require.NoError(t, err)

	m, err := NewModel(d, nil)
	require.NoError(t, err)
	assert.Equal(t, StartAuto, m.Estimation.Start)
	assert.Equal(t, [2]string{}, m.Marginals)
	assert.Equal(t, []int{7}, m.Questions)
}

func TestNewModelIntegrity(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr error
	}{
		{
			name: "question outside range",
			mutate: func(s string) string {
				return strings.Replace(s, "13 0.2 (0.1,None)", "16 0.2 (0.1,100)", 1)
			},
			wantErr: ErrIntegrity,
		},
		{
			name: "invalid start",
			mutate: func(s string) string {
				return strings.Replace(s, "start init", "start random", 1)
			},
			wantErr: ErrIntegrity,
		},
		{
			name: "no questions",
			mutate: func(s string) string {
				return strings.Replace(s, "QUESTIONS\n1 0.3\n2 0.4 !\n13 0.2 (0.1,None)\n", "", 1)
			},
			wantErr: ErrIntegrity,
		},
		{
			name: "unknown optimizer",
			mutate: func(s string) string {
				return strings.Replace(s, "optimizer SCIPY-BFGS", "optimizer NELDER-MEAD", 1)
			},
			wantErr: ErrIntegrity,
		},
		{
			name: "negative agents",
			mutate: func(s string) string {
				return strings.Replace(s, "agents 1000\nseed", "agents -1\nseed", 1)
			},
			wantErr: ErrIntegrity,
		},
		{
			name: "negative tolerance",
			mutate: func(s string) string {
				return strings.Replace(s, "xtol 0.0001", "xtol -0.1", 1)
			},
			wantErr: ErrIntegrity,
		},
		{
			name: "value out of bounds",
			mutate: func(s string) string {
				return strings.Replace(s, "delta 0.2", "delta 7.0", 1)
			},
			wantErr: ErrOutOfBounds,
		},
		{
			name: "missing parameter",
			mutate: func(s string) string {
				return strings.Replace(s, "self 0.5\n", "", 1)
			},
			wantErr: ErrMissingParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := tt.mutate(archimedeanInit)
			require.NotEqual(t, archimedeanInit, content)

			d, err := Load(writeInitFile(t, content))
			require.NoError(t, err)

			_, err = NewModel(d, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestModelUpdateAndSnapshot(t *testing.T) {
	d, err := Load(writeInitFile(t, archimedeanInit))
	require.NoError(t, err)
	m, err := NewModel(d, nil)
	require.NoError(t, err)

	require.NoError(t, m.Update(PerspectiveEcon, SelectFree, []float64{1.5, 0.7, 0.6, 2.0, 3.0}))
	assert.ErrorIs(t, m.Update(PerspectiveEcon, SelectFree, []float64{1.5, 0.7, 0.6, 2.0, 300}), ErrOutOfBounds)
	require.NoError(t, m.Update(PerspectiveEcon, SelectFree, []float64{1.5, 0.7, 0.6, 2.0, 3.0}))

	snap := m.Snapshot()

	self, _ := snap.Group(GroupUniattributeSelf)
	c, _ := self.Coefficient("r_self")
	assert.Equal(t, FloatValue(1.5), c.Value)
	f, _ := self.Field("r_self")
	assert.Equal(t, FloatValue(1.5), f.Value)
	assert.Equal(t, "r", f.Flag)

	assert.Equal(t, FloatValue(3.0), snap.Questions[13].Value)
	assert.Equal(t, FloatValue(0.4), snap.Questions[2].Value)

	// The parsed input is left untouched
	orig, _ := d.Group(GroupUniattributeSelf)
	c, _ = orig.Coefficient("r_self")
	assert.Equal(t, FloatValue(0.5), c.Value)

	var buf bytes.Buffer
	require.NoError(t, WriteInit(&buf, snap))
	reread, err := Read(&buf, DefaultOptions())
	require.NoError(t, err)
	m2, err := NewModel(reread, nil)
	require.NoError(t, err)

	free, err := m2.Paras.Values(PerspectiveEcon, SelectFree)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 0.7, 0.6, 2.0, 3.0}, free)
}

func TestValidateSectionMessage(t *testing.T) {
	err := validateSection(GroupEstimation, Estimation{Agents: -5, Optimizer: "NEWTON"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIntegrity)
	assert.Contains(t, err.Error(), "agents fails gte=0")
	assert.Contains(t, err.Error(), "optimizer fails oneof")

	assert.NoError(t, validateSection(GroupEstimation, Estimation{}))
}
