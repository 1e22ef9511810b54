// FILE: trempy/initfile/decode.go
package initfile

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// decodeTagName is the struct tag naming the flag a field is decoded from.
const decodeTagName = "flag"

// Simulation holds the SIMULATION group.
type Simulation struct {
	Agents int    `flag:"agents" validate:"gte=0"`
	Seed   int    `flag:"seed"`
	File   string `flag:"file"`
}

// Estimation holds the ESTIMATION group.
type Estimation struct {
	Agents    int    `flag:"agents" validate:"gte=0"`
	Detailed  bool   `flag:"detailed"`
	File      string `flag:"file"`
	Maxfun    int    `flag:"maxfun" validate:"gte=0"`
	Optimizer string `flag:"optimizer" validate:"omitempty,oneof=SCIPY-BFGS SCIPY-POWELL"`
	Start     string `flag:"start"`
	Skip      int    `flag:"skip" validate:"gte=0"`
}

// BFGSOptions holds the SCIPY-BFGS group.
type BFGSOptions struct {
	Gtol float64 `flag:"gtol" validate:"gte=0"`
	Eps  float64 `flag:"eps" validate:"gte=0"`
}

// PowellOptions holds the SCIPY-POWELL group.
type PowellOptions struct {
	Xtol float64 `flag:"xtol" validate:"gte=0"`
	Ftol float64 `flag:"ftol" validate:"gte=0"`
}

// Uniattribute holds the plain flags of a UNIATTRIBUTE group.
type Uniattribute struct {
	Marginal string `flag:"marginal"`
	Max      int    `flag:"max" validate:"gte=0"`
}

var coefficientType = reflect.TypeOf(Coefficient{})

// toMap exposes a group to decoders: plain fields as native values,
// coefficients as Coefficient records.
func (g *Group) toMap() map[string]any {
	m := make(map[string]any, len(g.fields))
	for key, f := range g.fields {
		if f.Coefficient != nil {
			m[key] = *f.Coefficient
			continue
		}
		m[key] = f.Value.Native()
	}
	return m
}

// Decode decodes the named group into target, a non-nil struct pointer whose
// fields carry `flag:"..."` tags. A missing group decodes as empty.
// Coefficient fields decode either into a Coefficient or into their value.
func (d *InitDict) Decode(group string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("decode target must be non-nil pointer, got %T", target)
	}
	// Flags missing from the group leave their fields zero
	rv.Elem().Set(reflect.Zero(rv.Elem().Type()))

	data := make(map[string]any)
	if g, ok := d.Groups[group]; ok {
		data = g.toMap()
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          decodeTagName,
		WeaklyTypedInput: true,
		ZeroFields:       true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			coefficientValueHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("decode failed for group %q: %w", group, err)
	}
	return nil
}

// coefficientValueHookFunc unwraps a Coefficient to its value unless the
// target wants the whole record.
func coefficientValueHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f != coefficientType || t == coefficientType {
			return data, nil
		}
		coeff := data.(Coefficient)
		return coeff.Value.Native(), nil
	}
}
