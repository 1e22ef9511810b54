// FILE: trempy/initfile/value_test.go
package initfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueAccessors(t *testing.T) {
	var zero Value
	assert.True(t, zero.IsAbsent())
	assert.Nil(t, zero.Native())
	assert.Equal(t, "None", zero.String())

	i := IntValue(7)
	n, ok := i.Int()
	assert.True(t, ok)
	assert.Equal(t, int64(7), n)
	f, ok := i.Float()
	assert.True(t, ok)
	assert.Equal(t, 7.0, f)
	_, ok = i.Str()
	assert.False(t, ok)

	b := BoolValue(true)
	assert.Equal(t, "True", b.String())
	assert.Equal(t, KindBool, b.Kind())
	_, ok = b.Float()
	assert.False(t, ok)

	s := StringValue("power")
	assert.Equal(t, "power", s.Native())

	assert.Equal(t, "1e-05", FloatValue(1e-05).String())
	assert.Equal(t, "float", KindFloat.String())
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{0.01, 0.99}
	assert.True(t, b.Contains(0.01))
	assert.True(t, b.Contains(0.99))
	assert.False(t, b.Contains(1))
}
