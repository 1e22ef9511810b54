// FILE: trempy/initfile/errors.go
package initfile

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped) by the parser.
var (
	ErrFileNotFound             = errors.New("init file not found")
	ErrTokenize                 = errors.New("cannot tokenize line")
	ErrDataBeforeGroup          = errors.New("data line before first group")
	ErrMissingValue             = errors.New("data line without value")
	ErrDuplicateField           = errors.New("duplicated information")
	ErrMalformedCoefficientLine = errors.New("malformed coefficient line")
	ErrMalformedCutoff          = errors.New("malformed cutoff line")
	ErrMalformedBounds          = errors.New("malformed bounds expression")
	ErrInvalidBoolean           = errors.New("invalid boolean")
	ErrInvalidNumber            = errors.New("invalid number")
	ErrInvalidInteger           = errors.New("invalid integer")
	ErrInvalidQuestion          = errors.New("invalid question index")
	ErrUnsupportedVariant       = errors.New("version not implemented")
	ErrNoDefaultBounds          = errors.New("no default bounds registered")
)

// Sentinel errors returned by the model layer.
var (
	ErrMissingParameter = errors.New("required parameter missing")
	ErrUnknownParameter = errors.New("parameter not available")
	ErrOutOfBounds      = errors.New("parameter outside its bounds")
	ErrIntegrity        = errors.New("model integrity violated")
	ErrUnknownEvent     = errors.New("unknown event code")
)

// ParseError locates a failure inside an init file.
type ParseError struct {
	File  string
	Line  int
	Group string
	Err   error
}

func (e *ParseError) Error() string {
	loc := fmt.Sprintf("line %d", e.Line)
	if e.File != "" {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if e.Group != "" {
		return fmt.Sprintf("%s [%s]: %v", loc, e.Group, e.Err)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
