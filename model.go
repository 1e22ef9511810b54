// FILE: trempy/initfile/model.go
package initfile

import (
	"fmt"
	"strconv"
)

// Starting values accepted in ESTIMATION.
const (
	StartInit = "init"
	StartAuto = "auto"
)

// Model is the estimation-ready view of an init file: typed settings plus the
// mutable parameter collection.
type Model struct {
	Variant Variant

	Simulation Simulation
	Estimation Estimation
	BFGS       BFGSOptions
	Powell     PowellOptions

	// Marginals and Upper hold the self and other entries of the
	// UNIATTRIBUTE groups (scaled_archimedean only)
	Marginals [2]string
	Upper     [2]int

	Questions []int
	Cutoffs   map[int]Cutoff

	Paras  *Paras
	Events *EventRecorder

	dict *InitDict
}

// NewModel builds a model from a parsed init file and checks its integrity.
func NewModel(d *InitDict, events *EventRecorder) (*Model, error) {
	if events == nil {
		events = NewEventRecorder(nil)
	}

	m := &Model{
		Variant:   d.Variant,
		Questions: sortedQuestions(d.Questions),
		Cutoffs:   d.Cutoffs,
		Events:    events,
		dict:      d,
	}

	sections := []struct {
		group  string
		target any
	}{
		{GroupSimulation, &m.Simulation},
		{GroupEstimation, &m.Estimation},
		{GroupScipyBFGS, &m.BFGS},
		{GroupScipyPowell, &m.Powell},
	}
	for _, s := range sections {
		if err := d.Decode(s.group, s.target); err != nil {
			return nil, err
		}
	}

	if d.Variant == VariantScaledArchimedean {
		for i, group := range []string{GroupUniattributeSelf, GroupUniattributeOther} {
			var u Uniattribute
			if err := d.Decode(group, &u); err != nil {
				return nil, err
			}
			m.Marginals[i] = u.Marginal
			m.Upper[i] = u.Max
		}
	}

	paras, err := NewParas(d, events)
	if err != nil {
		return nil, err
	}
	m.Paras = paras

	if err := m.Check(); err != nil {
		return nil, err
	}
	return m, nil
}

// Check verifies the model invariants and the parameter bounds.
func (m *Model) Check() error {
	if len(m.Questions) == 0 {
		return fmt.Errorf("%w: no questions specified", ErrIntegrity)
	}
	for _, q := range m.Questions {
		if q < QuestionsAll[0] || q > QuestionsAll[len(QuestionsAll)-1] {
			return fmt.Errorf("%w: question %d outside %d..%d", ErrIntegrity, q,
				QuestionsAll[0], QuestionsAll[len(QuestionsAll)-1])
		}
	}
	if _, ok := m.dict.Groups[GroupEstimation]; ok {
		if m.Estimation.Start != StartInit && m.Estimation.Start != StartAuto {
			return fmt.Errorf("%w: start must be %q or %q, got %q", ErrIntegrity,
				StartInit, StartAuto, m.Estimation.Start)
		}
	}

	sections := []struct {
		group   string
		section any
	}{
		{GroupSimulation, m.Simulation},
		{GroupEstimation, m.Estimation},
		{GroupScipyBFGS, m.BFGS},
		{GroupScipyPowell, m.Powell},
	}
	for _, s := range sections {
		if err := validateSection(s.group, s.section); err != nil {
			return err
		}
	}
	for i, group := range []string{GroupUniattributeSelf, GroupUniattributeOther} {
		u := Uniattribute{Marginal: m.Marginals[i], Max: m.Upper[i]}
		if err := validateSection(group, u); err != nil {
			return err
		}
	}

	return m.Paras.Check()
}

// Update sets parameter values and re-checks the model.
func (m *Model) Update(perspective Perspective, which Selection, values []float64) error {
	if err := m.Paras.SetValues(perspective, which, values); err != nil {
		return err
	}
	return m.Check()
}

// Snapshot returns a copy of the underlying init file carrying the current
// parameter values.
func (m *Model) Snapshot() *InitDict {
	out := &InitDict{
		Variant:   m.dict.Variant,
		Groups:    make(map[string]*Group, len(m.dict.Groups)),
		Questions: make(map[int]Coefficient, len(m.dict.Questions)),
		Cutoffs:   make(map[int]Cutoff, len(m.dict.Cutoffs)),
	}

	for name, g := range m.dict.Groups {
		clone := newGroup(name)
		for _, key := range g.order {
			f := g.fields[key]
			if f.Coefficient != nil {
				coeff := m.current(*f.Coefficient, f.Coefficient.Label)
				f.Coefficient = &coeff
				f.Value = coeff.Value
			}
			clone.set(key, f)
		}
		out.Groups[name] = clone
	}
	for q, c := range m.dict.Questions {
		out.Questions[q] = m.current(c, strconv.Itoa(q))
	}
	for q, c := range m.dict.Cutoffs {
		out.Cutoffs[q] = c
	}
	return out
}

// current overlays the collection's value for label onto c.
func (m *Model) current(c Coefficient, label string) Coefficient {
	para, err := m.Paras.Get(label)
	if err != nil {
		return c
	}
	if para.Absent {
		c.Value = Absent()
	} else {
		c.Value = FloatValue(para.Value)
	}
	return c
}
