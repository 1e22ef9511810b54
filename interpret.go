// FILE: trempy/initfile/interpret.go
package initfile

import (
	"fmt"
	"strconv"
	"strings"
)

const fixedMarker = "!"

// InterpretCutoff decodes "question lower upper" into a raw cutoff.
// Each side is a float literal or None.
func InterpretCutoff(tokens []string) (RawCutoff, error) {
	var raw RawCutoff
	if len(tokens) < 3 {
		return raw, fmt.Errorf("%w: expected question, lower and upper bound, got %d tokens", ErrMalformedCutoff, len(tokens))
	}

	for i := 0; i < 2; i++ {
		tok := tokens[i+1]
		if tok == noneLiteral {
			raw[i] = Absent()
			continue
		}
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return raw, fmt.Errorf("%w: cutoff bound %q", ErrInvalidNumber, tok)
		}
		raw[i] = FloatValue(f)
	}
	return raw, nil
}

// InternalLabel derives the label a coefficient is registered under.
// The risk-aversion flag r is shared by both parties and is told apart by the
// group it appears in.
func InternalLabel(group, flag string) string {
	if flag != "r" {
		return flag
	}
	switch {
	case strings.Contains(group, "SELF"):
		return "r_self"
	case strings.Contains(group, "OTHER"):
		return "r_other"
	default:
		return flag
	}
}

// coefficientLabel is the key a coefficient line is stored under.
func coefficientLabel(group, flag string) string {
	if idx, err := strconv.Atoi(flag); err == nil {
		// Question indices are normalized ("07" -> "7")
		flag = strconv.Itoa(idx)
	}
	return InternalLabel(group, flag)
}

// InterpretCoefficient decodes a coefficient line whose value has already been
// coerced. Token counts:
//
//	flag value                 free, default bounds
//	flag value !               fixed, default bounds
//	flag value (lo,hi)         free, explicit bounds
//	flag value ! (lo,hi)       fixed, explicit bounds
func InterpretCoefficient(group string, tokens []string, value Value, registry *BoundsRegistry) (Coefficient, error) {
	if len(tokens) < 2 || len(tokens) > 4 {
		return Coefficient{}, fmt.Errorf("%w: expected 2 to 4 tokens, got %d", ErrMalformedCoefficientLine, len(tokens))
	}

	label := coefficientLabel(group, tokens[0])
	coeff := Coefficient{Label: label, Value: value}

	var err error
	switch len(tokens) {
	case 2:
		coeff.Bounds, err = registry.Lookup(label)
	case 3:
		coeff.Fixed = tokens[2] == fixedMarker
		if coeff.Fixed {
			coeff.Bounds, err = registry.Lookup(label)
		} else {
			coeff.Bounds, err = ParseBounds(tokens[2], label, registry)
		}
	case 4:
		// Explicit bounds override defaults even for fixed parameters.
		coeff.Fixed = true
		coeff.Bounds, err = ParseBounds(tokens[3], label, registry)
	}
	if err != nil {
		return Coefficient{}, err
	}
	return coeff, nil
}

// ParseBounds decodes a bound expression "(lo,hi)". A None side takes the
// registered default of label for that side.
func ParseBounds(expr, label string, registry *BoundsRegistry) (Bounds, error) {
	stripped := strings.NewReplacer("(", "", ")", "").Replace(expr)
	parts := strings.Split(stripped, ",")
	if len(parts) != 2 {
		return Bounds{}, fmt.Errorf("%w: %q", ErrMalformedBounds, expr)
	}

	var sides [2]float64
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == noneLiteral {
			def, err := registry.Lookup(label)
			if err != nil {
				return Bounds{}, err
			}
			if i == 0 {
				sides[i] = def.Lower
			} else {
				sides[i] = def.Upper
			}
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return Bounds{}, fmt.Errorf("%w: bound %q in %q", ErrMalformedBounds, part, expr)
		}
		sides[i] = f
	}
	return Bounds{Lower: sides[0], Upper: sides[1]}, nil
}
