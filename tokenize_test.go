// FILE: trempy/initfile/tokenize_test.go
package initfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		kind   LineKind
		tokens []string
	}{
		{"empty", "", LineEmpty, nil},
		{"whitespace only", "   \t  ", LineEmpty, nil},
		{"comment", "# a comment", LineComment, nil},
		{"upper-case comment", "#COMMENT LINE", LineComment, nil},
		{"group", "SIMULATION", LineGroup, []string{"SIMULATION"}},
		{"group with space", "UNIATTRIBUTE SELF", LineGroup, []string{"UNIATTRIBUTE", "SELF"}},
		{"group with hyphen", "SCIPY-BFGS", LineGroup, []string{"SCIPY-BFGS"}},
		{"data", "agents 1000", LineData, []string{"agents", "1000"}},
		{"numeric flag", "15 0.3 !", LineData, []string{"15", "0.3", "!"}},
		{"quoted value", `file "my data.pkl"`, LineData, []string{"file", "my data.pkl"}},
		{"quoted comment", `"#x" 1`, LineComment, []string{"#x", "1"}},
		{"indented comment", "   # note", LineComment, []string{"#", "note"}},
		{"hash after first token", "agents 1000 # comment", LineData, []string{"agents", "1000", "#", "comment"}},
		{"hash-prefixed value", "file #out.pkl", LineData, []string{"file", "#out.pkl"}},
		{"bounds token", "r 0.5 ! (0.01,5.0)", LineData, []string{"r", "0.5", "!", "(0.01,5.0)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := Tokenize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, line.Kind)
			if tt.tokens != nil {
				assert.Equal(t, tt.tokens, line.Tokens)
			}
		})
	}
}

func TestTokenizeUnterminatedQuote(t *testing.T) {
	_, err := Tokenize(`file "unterminated`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenize)
}

func TestGroupName(t *testing.T) {
	line, err := Tokenize("  MULTIATTRIBUTE    COPULA  ")
	require.NoError(t, err)
	assert.Equal(t, LineGroup, line.Kind)
	assert.Equal(t, GroupMultiattributeCopula, line.GroupName())
}

func TestIsUpper(t *testing.T) {
	assert.True(t, isUpper("VERSION"))
	assert.True(t, isUpper("SCIPY-BFGS"))
	assert.True(t, isUpper("Ä"))
	assert.False(t, isUpper("15"))
	assert.False(t, isUpper("Version"))
	assert.False(t, isUpper("-"))
	assert.False(t, isUpper("ǅ"))
}
