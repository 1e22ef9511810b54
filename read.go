// FILE: trempy/initfile/read.go
package initfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"
)

// maxLineSize bounds a single init-file line.
const maxLineSize = 1 << 20

// Options configures how init files are read.
type Options struct {
	// Bounds supplies default coefficient bounds (nil = package defaults)
	Bounds *BoundsRegistry

	// Questions is the universe of question indices the cutoff table must cover
	// Default: 1..15
	Questions []int

	// Logger receives the version announcement and debug output (nil = no-op)
	Logger *zap.Logger
}

// DefaultOptions returns the standard read options.
func DefaultOptions() Options {
	return Options{
		Bounds:    NewBoundsRegistry(),
		Questions: QuestionsAll,
		Logger:    zap.NewNop(),
	}
}

func (o Options) withDefaults() Options {
	if o.Bounds == nil {
		o.Bounds = NewBoundsRegistry()
	}
	if o.Questions == nil {
		o.Questions = QuestionsAll
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Field is one record of a group: either a plain value or a coefficient.
type Field struct {
	// Flag is the flag as written in the file
	Flag string
	// Value is the coerced value (also the coefficient's value)
	Value Value
	// Coefficient is nil for plain fields
	Coefficient *Coefficient
}

// IsCoefficient reports whether the field carries fixed/bounds information.
func (f Field) IsCoefficient() bool {
	return f.Coefficient != nil
}

// Group is the bucket of fields declared under one group header.
type Group struct {
	Name   string
	fields map[string]Field
	order  []string
}

func newGroup(name string) *Group {
	return &Group{Name: name, fields: make(map[string]Field)}
}

func (g *Group) has(key string) bool {
	_, ok := g.fields[key]
	return ok
}

func (g *Group) set(key string, f Field) {
	if !g.has(key) {
		g.order = append(g.order, key)
	}
	g.fields[key] = f
}

// Field returns the record stored under key. Coefficients are keyed by their
// internal label, plain fields by their flag.
func (g *Group) Field(key string) (Field, bool) {
	f, ok := g.fields[key]
	return f, ok
}

// Keys returns the field keys in declaration order.
func (g *Group) Keys() []string {
	return append([]string(nil), g.order...)
}

// Len returns the number of fields.
func (g *Group) Len() int {
	return len(g.fields)
}

// Value returns the value of a field regardless of its shape.
func (g *Group) Value(key string) (Value, bool) {
	f, ok := g.fields[key]
	if !ok {
		return Value{}, false
	}
	return f.Value, true
}

// Coefficient returns the coefficient stored under an internal label.
func (g *Group) Coefficient(label string) (Coefficient, bool) {
	f, ok := g.fields[label]
	if !ok || f.Coefficient == nil {
		return Coefficient{}, false
	}
	return *f.Coefficient, true
}

// InitDict is the validated, default-filled content of an init file.
type InitDict struct {
	// Variant is the utility-function family declared in VERSION
	Variant Variant
	// Groups holds every group except QUESTIONS and CUTOFFS, including empty
	// buckets for groups that were skipped
	Groups map[string]*Group
	// Questions maps question indices to their coefficient
	Questions map[int]Coefficient
	// Cutoffs covers every index of the question universe
	Cutoffs map[int]Cutoff
}

// Group returns a group by name.
func (d *InitDict) Group(name string) (*Group, bool) {
	g, ok := d.Groups[name]
	return g, ok
}

// scanState is the state threaded through one linear scan.
type scanState struct {
	opts    Options
	file    string
	line    int
	group   string
	inGroup bool
	variant Variant

	groups     map[string]*Group
	questions  map[int]Coefficient
	rawCutoffs map[int]RawCutoff
}

// Load reads an init file with default options.
func Load(path string) (*InitDict, error) {
	return ReadFile(path, DefaultOptions())
}

// ReadFile reads and validates the init file at path.
func ReadFile(path string, opts Options) (*InitDict, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat init file '%s': %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open init file '%s': %w", path, err)
	}
	defer file.Close()

	return read(path, file, opts)
}

// Read parses an init file from r.
func Read(r io.Reader, opts Options) (*InitDict, error) {
	return read("", r, opts)
}

func read(name string, r io.Reader, opts Options) (*InitDict, error) {
	st := &scanState{
		opts:       opts.withDefaults(),
		file:       name,
		groups:     make(map[string]*Group),
		questions:  make(map[int]Coefficient),
		rawCutoffs: make(map[int]RawCutoff),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	for scanner.Scan() {
		st.line++
		if err := st.processLine(scanner.Text()); err != nil {
			return nil, &ParseError{File: st.file, Line: st.line, Group: st.group, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read init file '%s': %w", name, err)
	}

	return &InitDict{
		Variant:   st.variant,
		Groups:    st.groups,
		Questions: st.questions,
		Cutoffs:   FillCutoffs(st.rawCutoffs, st.opts.Questions),
	}, nil
}

func (st *scanState) processLine(raw string) error {
	line, err := Tokenize(raw)
	if err != nil {
		return err
	}

	switch line.Kind {
	case LineEmpty, LineComment:
		return nil
	case LineGroup:
		st.openGroup(line.GroupName())
		return nil
	}

	if !st.inGroup {
		return ErrDataBeforeGroup
	}

	tokens := line.Tokens
	flag := tokens[0]

	switch {
	case st.group == GroupCutoffs:
		return st.addCutoff(flag, tokens)
	case st.group == GroupQuestions:
		return st.addQuestion(flag, tokens)
	case basicGroupSet[st.group]:
		return st.addPlain(flag, tokens)
	}

	vs, ok := variants[st.variant]
	if !ok {
		return fmt.Errorf("%w: no version declared before group %q", ErrUnsupportedVariant, st.group)
	}
	if !st.variant.IsGroup(st.group) {
		st.opts.Logger.Debug("skipping line in unrecognized group",
			zap.String("group", st.group), zap.String("flag", flag), zap.Int("line", st.line))
		return nil
	}
	if vs.plainFlags[flag] {
		return st.addPlain(flag, tokens)
	}
	return st.addCoefficient(flag, tokens)
}

// openGroup registers a fresh bucket; reopening a group replaces its content.
func (st *scanState) openGroup(name string) {
	st.group = name
	st.inGroup = true

	switch name {
	case GroupQuestions:
		st.questions = make(map[int]Coefficient)
	case GroupCutoffs:
		st.rawCutoffs = make(map[int]RawCutoff)
	default:
		if _, exists := st.groups[name]; exists {
			st.opts.Logger.Debug("group reopened", zap.String("group", name), zap.Int("line", st.line))
		}
		st.groups[name] = newGroup(name)
	}
}

func (st *scanState) addPlain(flag string, tokens []string) error {
	if len(tokens) < 2 {
		return fmt.Errorf("%w: %s", ErrMissingValue, flag)
	}
	bucket := st.groups[st.group]
	if bucket.has(flag) {
		return fmt.Errorf("%w: %s", ErrDuplicateField, flag)
	}

	if st.group == GroupVersion && flag == "version" {
		v, err := ParseVariant(tokens[1])
		if err != nil {
			return err
		}
		st.variant = v
		st.opts.Logger.Info("model version", zap.String("version", string(v)))
	}

	value, err := Coerce(st.variant, flag, tokens[1])
	if err != nil {
		return err
	}
	bucket.set(flag, Field{Flag: flag, Value: value})
	return nil
}

// coefficientValue coerces the value token of a coefficient line. Short
// lines yield a zero value and are rejected by InterpretCoefficient.
func (st *scanState) coefficientValue(flag string, tokens []string) (Value, error) {
	if len(tokens) < 2 {
		return Value{}, nil
	}
	return Coerce(st.variant, flag, tokens[1])
}

func (st *scanState) addCoefficient(flag string, tokens []string) error {
	bucket := st.groups[st.group]
	label := coefficientLabel(st.group, flag)
	if bucket.has(label) {
		return fmt.Errorf("%w: %s", ErrDuplicateField, flag)
	}

	value, err := st.coefficientValue(flag, tokens)
	if err != nil {
		return err
	}
	coeff, err := InterpretCoefficient(st.group, tokens, value, st.opts.Bounds)
	if err != nil {
		return err
	}
	bucket.set(coeff.Label, Field{Flag: flag, Value: value, Coefficient: &coeff})
	return nil
}

func (st *scanState) addQuestion(flag string, tokens []string) error {
	q, err := questionIndex(flag)
	if err != nil {
		return err
	}
	if _, exists := st.questions[q]; exists {
		return fmt.Errorf("%w: question %d", ErrDuplicateField, q)
	}

	value, err := st.coefficientValue(flag, tokens)
	if err != nil {
		return err
	}
	coeff, err := InterpretCoefficient(st.group, tokens, value, st.opts.Bounds)
	if err != nil {
		return err
	}
	st.questions[q] = coeff
	return nil
}

func (st *scanState) addCutoff(flag string, tokens []string) error {
	q, err := questionIndex(flag)
	if err != nil {
		return err
	}
	if _, exists := st.rawCutoffs[q]; exists {
		return fmt.Errorf("%w: cutoff %d", ErrDuplicateField, q)
	}
	raw, err := InterpretCutoff(tokens)
	if err != nil {
		return err
	}
	st.rawCutoffs[q] = raw
	return nil
}

func questionIndex(flag string) (int, error) {
	q, err := strconv.Atoi(flag)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuestion, flag)
	}
	return q, nil
}
