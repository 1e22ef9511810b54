// FILE: trempy/initfile/io_test.go
package initfile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteInitRoundTrip(t *testing.T) {
	for name, content := range map[string]string{
		"scaled_archimedean": archimedeanInit,
		"nonstationary":      nonstationaryInit,
		"unknown group":      "VERSION\nversion scaled_archimedean\nEXTRA\nx 1\n",
		"quoted string":      "SIMULATION\nfile \"my data.pkl\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			original, err := Read(strings.NewReader(content), DefaultOptions())
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, WriteInit(&buf, original))

			reread, err := Read(bytes.NewReader(buf.Bytes()), DefaultOptions())
			require.NoError(t, err, buf.String())

			if diff := cmp.Diff(original, reread, initCmpOpts); diff != "" {
				t.Errorf("write/read changed content (-original +reread):\n%s", diff)
			}
		})
	}
}

func TestWriteInitFormat(t *testing.T) {
	d, err := Read(strings.NewReader(archimedeanInit), DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteInit(&buf, d))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "VERSION\n"))
	assert.Contains(t, out, "\nUNIATTRIBUTE OTHER\n")
	assert.Regexp(t, `(?m)^r\s+0\.5 ! \(0\.01,5\)$`, out)
	assert.Regexp(t, `(?m)^delta\s+0\.2 \(0\.01,5\)$`, out)
	assert.Regexp(t, `(?m)^1\s+-5 None$`, out)
	assert.Regexp(t, `(?m)^15\s+None None$`, out)
	assert.Regexp(t, `(?m)^detailed\s+False$`, out)

	// Groups appear in canonical order
	assert.Less(t, strings.Index(out, "SIMULATION"), strings.Index(out, "ESTIMATION"))
	assert.Less(t, strings.Index(out, "QUESTIONS"), strings.Index(out, "UNIATTRIBUTE SELF"))
}

func TestSaveInit(t *testing.T) {
	d, err := Read(strings.NewReader(nonstationaryInit), DefaultOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "out.ini")
	require.NoError(t, SaveInit(path, d))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")

	reread, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(d, reread, initCmpOpts); diff != "" {
		t.Errorf("saved file differs (-want +got):\n%s", diff)
	}
}

func TestToMap(t *testing.T) {
	d, err := Read(strings.NewReader(nonstationaryInit), DefaultOptions())
	require.NoError(t, err)

	m := d.ToMap()

	version := m[GroupVersion].(map[string]any)
	assert.Equal(t, "nonstationary", version["version"])

	est := m[GroupEstimation].(map[string]any)
	assert.Equal(t, int64(500), est["agents"])

	temporal := m[GroupTemporalParameters].(map[string]any)
	weights := temporal["unrestricted_weights_0"].(map[string]any)
	assert.Equal(t, "None", weights["value"])
	assert.Equal(t, false, weights["fixed"])
	assert.Equal(t, []float64{0.01, 10}, weights["bounds"])

	cutoffs := m[GroupCutoffs].(map[string]any)
	assert.Len(t, cutoffs, 15)
	assert.Equal(t, []float64{-HugeFloat, HugeFloat}, cutoffs["3"])

	questions := m[GroupQuestions].(map[string]any)
	assert.Contains(t, questions, "7")
}

func TestExport(t *testing.T) {
	d, err := Read(strings.NewReader(archimedeanInit), DefaultOptions())
	require.NoError(t, err)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, d, FormatJSON))

		var out map[string]map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "scaled_archimedean", out[GroupVersion]["version"])
		assert.Equal(t, float64(1000), out[GroupSimulation]["agents"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, d, FormatYAML))

		var out map[string]map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "power", out[GroupUniattributeSelf]["marginal"])
		assert.Equal(t, 123, out[GroupSimulation]["seed"])
	})

	t.Run("toml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, d, FormatTOML))

		var out map[string]map[string]any
		_, err := toml.Decode(buf.String(), &out)
		require.NoError(t, err)
		assert.Equal(t, "SCIPY-BFGS", out[GroupEstimation]["optimizer"])
		copula := out[GroupMultiattributeCopula]["other"].(map[string]any)
		assert.Equal(t, true, copula["fixed"])
	})

	t.Run("ini", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, d, "INI"))
		assert.True(t, strings.HasPrefix(buf.String(), "VERSION\n"))
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, Export(&bytes.Buffer{}, d, "xml"))
	})
}

func TestQuoteToken(t *testing.T) {
	assert.Equal(t, "plain", quoteToken("plain"))
	assert.Equal(t, `"two words"`, quoteToken("two words"))
	assert.Equal(t, `""`, quoteToken(""))
	assert.Equal(t, `"a\"b"`, quoteToken(`a"b`))
}
