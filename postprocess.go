// FILE: trempy/initfile/postprocess.go
package initfile

// FillCutoffs completes the cutoff table over universe. Missing questions get
// [-HugeFloat, HugeFloat]; an absent side becomes the sentinel whose sign is
// fixed by position (lower negative, upper positive). Declared questions
// outside the universe are kept.
func FillCutoffs(raw map[int]RawCutoff, universe []int) map[int]Cutoff {
	filled := make(map[int]Cutoff, len(universe)+len(raw))

	for q, rc := range raw {
		filled[q] = Cutoff{
			Lower: sideOrSentinel(rc[0], -HugeFloat),
			Upper: sideOrSentinel(rc[1], HugeFloat),
		}
	}

	for _, q := range universe {
		if _, ok := filled[q]; !ok {
			filled[q] = Cutoff{Lower: -HugeFloat, Upper: HugeFloat}
		}
	}
	return filled
}

func sideOrSentinel(v Value, sentinel float64) float64 {
	if f, ok := v.Float(); ok {
		return f
	}
	return sentinel
}

// IsUnbounded reports whether a cutoff side carries a sentinel.
func IsUnbounded(x float64) bool {
	return x <= -HugeFloat || x >= HugeFloat
}
