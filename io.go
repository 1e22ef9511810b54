// File: trempy/initfile/io.go
package initfile

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Export formats understood by Export.
const (
	FormatInit = "ini"
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// flagWidth pads flags so values line up in written files.
const flagWidth = 25

// WriteInit renders d in the init-file format. Reading the output back yields
// a structure equal to d.
func WriteInit(w io.Writer, d *InitDict) error {
	bw := bufio.NewWriter(w)

	first := true
	header := func(name string) {
		if !first {
			fmt.Fprintln(bw)
		}
		first = false
		fmt.Fprintln(bw, name)
	}

	for _, name := range groupOrder(d) {
		switch name {
		case GroupQuestions:
			if len(d.Questions) == 0 {
				continue
			}
			header(name)
			for _, q := range sortedQuestions(d.Questions) {
				writeCoefficient(bw, strconv.Itoa(q), d.Questions[q])
			}
		case GroupCutoffs:
			if len(d.Cutoffs) == 0 {
				continue
			}
			header(name)
			for _, q := range sortedQuestions(d.Cutoffs) {
				c := d.Cutoffs[q]
				fmt.Fprintf(bw, "%-*s %s %s\n", flagWidth, strconv.Itoa(q), formatFloat(c.Lower), formatFloat(c.Upper))
			}
		default:
			g, ok := d.Groups[name]
			if !ok {
				continue
			}
			header(name)
			for _, key := range g.order {
				f := g.fields[key]
				if f.Coefficient != nil {
					writeCoefficient(bw, f.Flag, *f.Coefficient)
					continue
				}
				fmt.Fprintf(bw, "%-*s %s\n", flagWidth, f.Flag, quoteToken(f.Value.String()))
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write init file: %w", err)
	}
	return nil
}

// writeCoefficient always writes explicit bounds so the output does not
// depend on the registry it is read back with.
func writeCoefficient(w io.Writer, flag string, c Coefficient) {
	bounds := "(" + strconv.FormatFloat(c.Bounds.Lower, 'g', -1, 64) + "," +
		strconv.FormatFloat(c.Bounds.Upper, 'g', -1, 64) + ")"
	if c.Fixed {
		fmt.Fprintf(w, "%-*s %s %s %s\n", flagWidth, flag, c.Value.String(), fixedMarker, bounds)
		return
	}
	fmt.Fprintf(w, "%-*s %s %s\n", flagWidth, flag, c.Value.String(), bounds)
}

// quoteToken quotes a string value when the tokenizer would otherwise split
// or drop it.
func quoteToken(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\"'\\#") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

// SaveInit writes d to path atomically.
func SaveInit(path string, d *InitDict) error {
	var buf bytes.Buffer
	if err := WriteInit(&buf, d); err != nil {
		return err
	}
	return atomicWriteFile(path, buf.Bytes())
}

// ToMap converts d to nested maps of plain values for encoders.
// Absent values are rendered as "None", coefficients as value/fixed/bounds tables.
func (d *InitDict) ToMap() map[string]any {
	out := make(map[string]any, len(d.Groups)+2)

	for name, g := range d.Groups {
		m := make(map[string]any, len(g.fields))
		for key, f := range g.fields {
			if f.Coefficient != nil {
				m[key] = coefficientMap(*f.Coefficient)
				continue
			}
			m[key] = nativeOrNone(f.Value)
		}
		out[name] = m
	}

	questions := make(map[string]any, len(d.Questions))
	for q, c := range d.Questions {
		questions[strconv.Itoa(q)] = coefficientMap(c)
	}
	out[GroupQuestions] = questions

	cutoffs := make(map[string]any, len(d.Cutoffs))
	for q, c := range d.Cutoffs {
		cutoffs[strconv.Itoa(q)] = []float64{c.Lower, c.Upper}
	}
	out[GroupCutoffs] = cutoffs

	return out
}

func coefficientMap(c Coefficient) map[string]any {
	return map[string]any{
		"value":  nativeOrNone(c.Value),
		"fixed":  c.Fixed,
		"bounds": []float64{c.Bounds.Lower, c.Bounds.Upper},
	}
}

func nativeOrNone(v Value) any {
	if v.IsAbsent() {
		return noneLiteral
	}
	return v.Native()
}

// Export writes d to w in the given format.
func Export(w io.Writer, d *InitDict, format string) error {
	switch strings.ToLower(format) {
	case FormatInit, "":
		return WriteInit(w, d)
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(d.ToMap()); err != nil {
			return fmt.Errorf("failed to marshal init data to TOML: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d.ToMap()); err != nil {
			return fmt.Errorf("failed to marshal init data to YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d.ToMap()); err != nil {
			return fmt.Errorf("failed to marshal init data to JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
	return nil
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
