// File: trempy/initfile/helper.go
package initfile

import (
	"sort"
	"strconv"
)

// sortedQuestions returns the keys of a question-indexed map in ascending order.
func sortedQuestions[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for q := range m {
		keys = append(keys, q)
	}
	sort.Ints(keys)
	return keys
}

// formatFloat renders a float the way init files write it.
// Sentinel magnitudes are written as None.
func formatFloat(f float64) string {
	if IsUnbounded(f) {
		return noneLiteral
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// groupOrder lists the groups of d in canonical write order: basic groups,
// then the variant groups, then any remaining groups sorted by name.
func groupOrder(d *InitDict) []string {
	seen := make(map[string]bool)
	var order []string

	add := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		order = append(order, name)
	}

	for _, name := range BasicGroups {
		add(name)
	}
	for _, name := range d.Variant.Groups() {
		add(name)
	}

	var rest []string
	for name := range d.Groups {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		add(name)
	}
	return order
}
