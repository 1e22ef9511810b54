// FILE: trempy/initfile/paras.go
package initfile

import (
	"fmt"
	"math"
	"strconv"
)

// SmallFloat nudges values off their bounds before mapping to the real line.
const SmallFloat = 10e-10

// Perspective selects the scale parameter values are expressed on.
type Perspective string

const (
	// PerspectiveEcon is the economic (bounded) scale
	PerspectiveEcon Perspective = "econ"
	// PerspectiveOptim is the unbounded scale the optimizer works on
	PerspectiveOptim Perspective = "optim"
)

// Selection picks which parameters take part in a get or set.
type Selection string

const (
	SelectAll  Selection = "all"
	SelectFree Selection = "free"
)

// Para is a single estimation parameter.
type Para struct {
	Label  string
	Value  float64
	Absent bool
	Fixed  bool
	Bounds Bounds
}

// Check verifies the parameter is inside its bounds.
func (p Para) Check() error {
	if p.Bounds.Lower > p.Bounds.Upper {
		return fmt.Errorf("%w: %s has inverted bounds (%g,%g)", ErrOutOfBounds, p.Label, p.Bounds.Lower, p.Bounds.Upper)
	}
	if p.Absent {
		return nil
	}
	if !p.Bounds.Contains(p.Value) {
		return fmt.Errorf("%w: %s = %g not in (%g,%g)", ErrOutOfBounds, p.Label, p.Value, p.Bounds.Lower, p.Bounds.Upper)
	}
	return nil
}

func (p Para) free() bool {
	return !p.Fixed && !p.Absent
}

// Paras is the ordered parameter collection of a model: the economic
// parameters of the variant groups followed by the questions in ascending order.
type Paras struct {
	paras   []Para
	index   map[string]int
	numEcon int
	events  *EventRecorder
}

// NewParas builds the parameter collection from a parsed init file.
func NewParas(d *InitDict, events *EventRecorder) (*Paras, error) {
	vs, ok := variants[d.Variant]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVariant, string(d.Variant))
	}
	if events == nil {
		events = NewEventRecorder(nil)
	}

	p := &Paras{index: make(map[string]int), events: events}

	for _, name := range vs.groups {
		g, ok := d.Groups[name]
		if !ok {
			continue
		}
		for _, key := range g.order {
			if coeff := g.fields[key].Coefficient; coeff != nil {
				p.add(paraFromCoefficient(*coeff))
			}
		}
	}
	p.numEcon = len(p.paras)

	for _, label := range vs.required {
		if _, ok := p.index[label]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingParameter, label)
		}
	}

	for _, q := range sortedQuestions(d.Questions) {
		para := paraFromCoefficient(d.Questions[q])
		para.Label = strconv.Itoa(q)
		p.add(para)
	}

	if err := p.Check(); err != nil {
		return nil, err
	}
	return p, nil
}

func paraFromCoefficient(c Coefficient) Para {
	para := Para{Label: c.Label, Fixed: c.Fixed, Bounds: c.Bounds}
	if f, ok := c.Value.Float(); ok {
		para.Value = f
	} else {
		para.Absent = true
		para.Value = math.NaN()
	}
	return para
}

func (p *Paras) add(para Para) {
	p.index[para.Label] = len(p.paras)
	p.paras = append(p.paras, para)
}

// NumEcon returns the number of economic (non-question) parameters.
func (p *Paras) NumEcon() int {
	return p.numEcon
}

// Labels returns the parameter labels in collection order.
func (p *Paras) Labels() []string {
	labels := make([]string, len(p.paras))
	for i, para := range p.paras {
		labels[i] = para.Label
	}
	return labels
}

// Get returns a single parameter.
func (p *Paras) Get(label string) (Para, error) {
	i, ok := p.index[label]
	if !ok {
		return Para{}, fmt.Errorf("%w: %s", ErrUnknownParameter, label)
	}
	return p.paras[i], nil
}

// Values returns parameter values on the requested scale.
// Absent parameters report NaN.
func (p *Paras) Values(perspective Perspective, which Selection) ([]float64, error) {
	if err := validateRequest(perspective, which); err != nil {
		return nil, err
	}

	var values []float64
	for _, para := range p.paras {
		if which == SelectFree && !para.free() {
			continue
		}
		value := para.Value
		if perspective == PerspectiveOptim && !para.Absent {
			value = p.toReal(value, para.Bounds)
		}
		values = append(values, value)
	}
	return values, nil
}

// SetValues assigns values, in collection order, to the selected parameters.
func (p *Paras) SetValues(perspective Perspective, which Selection, values []float64) error {
	if err := validateRequest(perspective, which); err != nil {
		return err
	}

	count := 0
	for i := range p.paras {
		para := &p.paras[i]
		if which == SelectFree && !para.free() {
			continue
		}
		if count >= len(values) {
			return fmt.Errorf("misspecified request: %d values for more parameters", len(values))
		}

		value := values[count]
		if perspective == PerspectiveOptim && !math.IsNaN(value) {
			value = p.toInterval(value, para.Bounds)
		}
		para.Value = value
		para.Absent = math.IsNaN(value)

		if err := para.Check(); err != nil {
			return err
		}
		count++
	}

	if count != len(values) {
		return fmt.Errorf("misspecified request: %d values for %d parameters", len(values), count)
	}
	return nil
}

// Check verifies every parameter.
func (p *Paras) Check() error {
	for _, para := range p.paras {
		if err := para.Check(); err != nil {
			return err
		}
	}
	return nil
}

func validateRequest(perspective Perspective, which Selection) error {
	if which != SelectAll && which != SelectFree {
		return fmt.Errorf("misspecified request: selection %q", which)
	}
	if perspective != PerspectiveEcon && perspective != PerspectiveOptim {
		return fmt.Errorf("misspecified request: perspective %q", perspective)
	}
	return nil
}

// toInterval maps any real value into the bounded interval.
func (p *Paras) toInterval(val float64, b Bounds) float64 {
	exponential := math.Exp(-val)
	if math.IsInf(exponential, 0) || math.IsNaN(exponential) {
		exponential = HugeFloat
		p.events.Record(EventIntervalOverflow)
	}
	return b.Lower + (b.Upper-b.Lower)/(1+exponential)
}

// toReal maps a bounded value back to the real line.
func (p *Paras) toReal(value float64, b Bounds) float64 {
	if isClose(value, b.Lower) {
		value += SmallFloat
		p.events.Record(EventBoundsAdjusted)
	} else if isClose(value, b.Upper) {
		value -= SmallFloat
		p.events.Record(EventBoundsAdjusted)
	}

	transform := (value - b.Lower) / (b.Upper - b.Lower)
	return math.Log(transform / (1.0 - transform))
}

// isClose compares with an absolute tolerance of 1e-8 and a relative one of 1e-5.
func isClose(a, b float64) bool {
	return math.Abs(a-b) <= 1e-08+1e-05*math.Abs(b)
}
