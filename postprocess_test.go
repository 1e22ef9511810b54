// FILE: trempy/initfile/postprocess_test.go
package initfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillCutoffs(t *testing.T) {
	raw := map[int]RawCutoff{
		2:  {FloatValue(-1), Absent()},
		3:  {Absent(), FloatValue(4)},
		99: {FloatValue(0), FloatValue(1)},
	}

	filled := FillCutoffs(raw, QuestionsAll)

	assert.Len(t, filled, 16)
	assert.Equal(t, Cutoff{-1, HugeFloat}, filled[2])
	assert.Equal(t, Cutoff{-HugeFloat, 4}, filled[3])
	assert.Equal(t, Cutoff{0, 1}, filled[99])
	assert.Equal(t, Cutoff{-HugeFloat, HugeFloat}, filled[1])
}

func TestFillCutoffsEmpty(t *testing.T) {
	filled := FillCutoffs(nil, QuestionsAll)
	assert.Len(t, filled, len(QuestionsAll))

	for _, c := range filled {
		assert.True(t, IsUnbounded(c.Lower))
		assert.True(t, IsUnbounded(c.Upper))
		assert.Less(t, c.Lower, 0.0)
		assert.Greater(t, c.Upper, 0.0)
	}
}
