// FILE: trempy/initfile/coerce.go
package initfile

import (
	"fmt"
	"strconv"
	"strings"
)

// Variant names the utility-function family an init file configures.
type Variant string

const (
	VariantScaledArchimedean Variant = "scaled_archimedean"
	VariantNonstationary     Variant = "nonstationary"
)

const noneLiteral = "None"

// Group names with fixed meaning in every file.
const (
	GroupVersion     = "VERSION"
	GroupSimulation  = "SIMULATION"
	GroupEstimation  = "ESTIMATION"
	GroupScipyBFGS   = "SCIPY-BFGS"
	GroupScipyPowell = "SCIPY-POWELL"
	GroupCutoffs     = "CUTOFFS"
	GroupQuestions   = "QUESTIONS"
)

// Variant-specific group names.
const (
	GroupUniattributeSelf     = "UNIATTRIBUTE SELF"
	GroupUniattributeOther    = "UNIATTRIBUTE OTHER"
	GroupMultiattributeCopula = "MULTIATTRIBUTE COPULA"
	GroupAtemporalParameters  = "ATEMPORAL PARAMETERS"
	GroupTemporalParameters   = "TEMPORAL PARAMETERS"
	unrestrictedWeightsPrefix = "unrestricted_weights_"
)

// BasicGroups are processed for every variant, in canonical order.
var BasicGroups = []string{
	GroupVersion, GroupSimulation, GroupEstimation, GroupScipyBFGS, GroupScipyPowell,
	GroupCutoffs, GroupQuestions,
}

var basicGroupSet = func() map[string]bool {
	m := make(map[string]bool, len(BasicGroups))
	for _, g := range BasicGroups {
		m[g] = true
	}
	return m
}()

// flagKinds fixes the type of flags whose meaning does not depend on the variant.
var flagKinds = map[string]Kind{
	"seed":      KindInt,
	"agents":    KindInt,
	"maxfun":    KindInt,
	"max":       KindInt,
	"skip":      KindInt,
	"version":   KindString,
	"file":      KindString,
	"optimizer": KindString,
	"start":     KindString,
	"marginal":  KindString,
	"detailed":  KindBool,
}

// variantSpec collects everything that differs between utility-function families.
type variantSpec struct {
	// groups legal in addition to BasicGroups, in canonical order
	groups []string
	// plainFlags are stored as scalars inside variant groups
	plainFlags map[string]bool
	// coerce handles flags missing from flagKinds
	coerce func(flag, raw string) (Value, error)
	// required lists the internal labels a model of this variant needs
	required []string
}

var variants = map[Variant]variantSpec{
	VariantScaledArchimedean: {
		groups:     []string{GroupUniattributeSelf, GroupUniattributeOther, GroupMultiattributeCopula},
		plainFlags: map[string]bool{"max": true, "marginal": true},
		coerce: func(flag, raw string) (Value, error) {
			return parseFloat(raw)
		},
		required: []string{"r_self", "r_other", "delta", "self", "other"},
	},
	VariantNonstationary: {
		groups:     []string{GroupAtemporalParameters, GroupTemporalParameters},
		plainFlags: map[string]bool{},
		coerce: func(flag, raw string) (Value, error) {
			// Unrestricted weights are optional.
			if strings.HasPrefix(flag, unrestrictedWeightsPrefix) && raw == noneLiteral {
				return Absent(), nil
			}
			return parseFloat(raw)
		},
		required: append([]string{"alpha", "beta", "gamma", "y_scale"},
			horizonLabels("discount_factors_", unrestrictedWeightsPrefix)...),
	},
}

// horizonLabels expands label prefixes over the discounting horizons.
func horizonLabels(prefixes ...string) []string {
	var labels []string
	for _, prefix := range prefixes {
		for _, t := range temporalHorizons {
			labels = append(labels, prefix+strconv.Itoa(t))
		}
	}
	return labels
}

// ParseVariant validates a variant name against the closed set.
func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	if _, ok := variants[v]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedVariant, s)
	}
	return v, nil
}

// Variants lists the supported variants.
func Variants() []Variant {
	return []Variant{VariantScaledArchimedean, VariantNonstationary}
}

// Groups returns the variant-specific groups of v in canonical order.
func (v Variant) Groups() []string {
	return variants[v].groups
}

// IsGroup reports whether name is a variant-specific group of v.
func (v Variant) IsGroup(name string) bool {
	for _, g := range variants[v].groups {
		if g == name {
			return true
		}
	}
	return false
}

// Coerce converts a raw string to the type dictated by the flag name and,
// for flags without a fixed type, by the variant.
func Coerce(variant Variant, flag, raw string) (Value, error) {
	if kind, ok := flagKinds[flag]; ok {
		switch kind {
		case KindInt:
			i, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return Value{}, fmt.Errorf("%w: %s = %q", ErrInvalidInteger, flag, raw)
			}
			return IntValue(i), nil
		case KindBool:
			switch strings.ToUpper(raw) {
			case "TRUE":
				return BoolValue(true), nil
			case "FALSE":
				return BoolValue(false), nil
			default:
				return Value{}, fmt.Errorf("%w: %s = %q", ErrInvalidBoolean, flag, raw)
			}
		default:
			return StringValue(raw), nil
		}
	}

	vs, ok := variants[variant]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q (flag %s)", ErrUnsupportedVariant, string(variant), flag)
	}
	v, err := vs.coerce(flag, raw)
	if err != nil {
		return Value{}, fmt.Errorf("%s: %w", flag, err)
	}
	return v, nil
}

func parseFloat(raw string) (Value, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	return FloatValue(f), nil
}
