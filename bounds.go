// FILE: trempy/initfile/bounds.go
package initfile

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"
)

// HugeFloat replaces unbounded limits so downstream arithmetic stays finite.
const HugeFloat = 10e+20

// QuestionsAll is the universe of valid question indices.
var QuestionsAll = func() []int {
	qs := make([]int, 0, 15)
	for q := 1; q <= 15; q++ {
		qs = append(qs, q)
	}
	return qs
}()

// defaultBounds are the admissible intervals shipped with the package.
var defaultBounds = map[string]Bounds{
	// Preference parameters
	"alpha": {0.01, 0.99},
	"beta":  {0.01, 5.00},
	"eta":   {0.01, 0.99},
	"gamma": {0.01, 5.00},

	// scaled_archimedean
	"r_self":  {0.01, 5.00},
	"r_other": {0.01, 5.00},
	"delta":   {0.01, 5.00},
	"self":    {0.01, 0.99},
	"other":   {0.01, 0.99},

	// nonstationary
	"y_scale": {0.01, 10.00},
}

// Discounting horizons in months used by the temporal parameters.
var temporalHorizons = []int{0, 1, 3, 6, 12, 24}

func init() {
	for _, t := range temporalHorizons {
		defaultBounds["discount_factors_"+strconv.Itoa(t)] = Bounds{0.01, 1.00}
		defaultBounds[unrestrictedWeightsPrefix+strconv.Itoa(t)] = Bounds{0.01, 10.00}
	}
	// Standard deviations of the per-question response errors.
	for _, q := range QuestionsAll {
		defaultBounds[strconv.Itoa(q)] = Bounds{0.01, 100.00}
	}
}

// BoundsRegistry maps internal labels to their default bounds.
// It is safe for concurrent reads and writes.
type BoundsRegistry struct {
	mu     sync.RWMutex
	bounds map[string]Bounds
}

// NewBoundsRegistry returns a registry holding the package defaults.
func NewBoundsRegistry() *BoundsRegistry {
	r := &BoundsRegistry{bounds: make(map[string]Bounds, len(defaultBounds))}
	for label, b := range defaultBounds {
		r.bounds[label] = b
	}
	return r
}

// Register sets the default bounds of a label, replacing any previous entry.
func (r *BoundsRegistry) Register(label string, b Bounds) error {
	if label == "" {
		return errors.New("bounds label cannot be empty")
	}
	if b.Lower > b.Upper {
		return fmt.Errorf("%w: lower %g exceeds upper %g for %s", ErrMalformedBounds, b.Lower, b.Upper, label)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bounds[label] = b
	return nil
}

// Lookup returns the default bounds of a label.
func (r *BoundsRegistry) Lookup(label string) (Bounds, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bounds[label]
	if !ok {
		return Bounds{}, fmt.Errorf("%w: %s", ErrNoDefaultBounds, label)
	}
	return b, nil
}

// Labels returns all registered labels, sorted.
func (r *BoundsRegistry) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	labels := make([]string, 0, len(r.bounds))
	for label := range r.bounds {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// LoadBoundsFile merges bounds from a TOML file into the registry.
// The file is a flat table of two-element arrays:
//
//	alpha = [0.05, 0.95]
//	r_self = [0.01, 3.0]
func (r *BoundsRegistry) LoadBoundsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to read bounds file '%s': %w", path, err)
	}

	raw := make(map[string][]float64)
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return fmt.Errorf("failed to parse TOML bounds file '%s': %w", path, err)
	}

	for label, pair := range raw {
		if len(pair) != 2 {
			return fmt.Errorf("%w: %s needs exactly two entries, got %d", ErrMalformedBounds, label, len(pair))
		}
		if err := r.Register(label, Bounds{Lower: pair[0], Upper: pair[1]}); err != nil {
			return err
		}
	}
	return nil
}
