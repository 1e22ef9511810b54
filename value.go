// File: trempy/initfile/value.go
package initfile

import (
	"fmt"
	"strconv"
)

// Kind tags the shape held by a Value.
type Kind int

const (
	// KindAbsent marks an explicitly missing value ("None" in the file)
	KindAbsent Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a typed scalar read from an init file.
// The zero Value is absent.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
}

// Absent returns the explicit absent-value marker.
func Absent() Value { return Value{kind: KindAbsent} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// IntValue wraps an integer.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue wraps a float.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind reports the tag of the value.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value is the absent marker.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Str returns the string payload. ok is false for non-string values.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Int returns the integer payload. ok is false for non-integer values.
func (v Value) Int() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// Float returns the value as float64.
// Integers are widened; every other kind reports ok=false.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Bool returns the boolean payload. ok is false for non-boolean values.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Native returns the payload as a plain Go value (nil for absent).
// Used when handing values to decoders and encoders.
func (v Value) Native() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// String renders the value the way it is written in an init file.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	case KindAbsent:
		return noneLiteral
	default:
		return fmt.Sprintf("<%s>", v.kind)
	}
}

// Bounds is the admissible interval of a coefficient.
type Bounds struct {
	Lower float64
	Upper float64
}

// Contains reports whether x lies inside the closed interval.
func (b Bounds) Contains(x float64) bool {
	return b.Lower <= x && x <= b.Upper
}

// Coefficient is a parameter record: a value, whether it is held fixed during
// estimation, and its bounds.
type Coefficient struct {
	// Label is the internal label ("r_self", "alpha", "7", ...)
	Label  string
	Value  Value
	Fixed  bool
	Bounds Bounds
}

// Cutoff is a per-question truncation interval after default filling.
type Cutoff struct {
	Lower float64
	Upper float64
}

// RawCutoff holds the bounds of a cutoff line as read: each side is a float
// or absent.
type RawCutoff [2]Value
