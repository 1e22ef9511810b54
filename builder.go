// File: trempy/initfile/builder.go
package initfile

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// ValidatorFunc validates a parsed init file.
// It receives the fully read *InitDict and should return an error if validation fails.
type ValidatorFunc func(d *InitDict) error

// Builder provides a fluent interface for reading init files
type Builder struct {
	opts       Options
	file       string
	args       []string
	err        error
	validators []ValidatorFunc
}

// NewBuilder creates a new init-file builder
func NewBuilder() *Builder {
	return &Builder{
		opts:       DefaultOptions(),
		args:       os.Args[1:],
		validators: make([]ValidatorFunc, 0),
	}
}

// WithFile sets the init file path
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithArgs sets the command-line arguments consulted by WithDiscovery
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithBounds replaces the default-bounds registry
func (b *Builder) WithBounds(registry *BoundsRegistry) *Builder {
	if registry != nil {
		b.opts.Bounds = registry
	}
	return b
}

// WithBoundsFile overrides registered defaults from a TOML sidecar file
func (b *Builder) WithBoundsFile(path string) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.opts.Bounds.LoadBoundsFile(path); err != nil {
		b.err = err
	}
	return b
}

// WithQuestions sets the question universe the cutoff table covers
func (b *Builder) WithQuestions(questions ...int) *Builder {
	b.opts.Questions = append([]int(nil), questions...)
	return b
}

// WithLogger sets the logger used while reading
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.opts.Logger = logger
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build reads the init file with all specified options
func (b *Builder) Build() (*InitDict, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.file == "" {
		return nil, fmt.Errorf("%w: no path configured", ErrFileNotFound)
	}

	d, err := ReadFile(b.file, b.opts)
	if err != nil {
		return nil, err
	}

	for _, validator := range b.validators {
		if err := validator(d); err != nil {
			return nil, fmt.Errorf("init file validation failed: %w", err)
		}
	}
	return d, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *InitDict {
	d, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("init file build failed: %v", err))
	}
	return d
}

// BuildModel builds and turns the result into a checked Model
func (b *Builder) BuildModel() (*Model, error) {
	d, err := b.Build()
	if err != nil {
		return nil, err
	}
	return NewModel(d, NewEventRecorder(b.opts.Logger))
}

// Path returns the init file the builder will read.
func (b *Builder) Path() string {
	return b.file
}
