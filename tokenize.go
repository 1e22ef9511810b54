// FILE: trempy/initfile/tokenize.go
package initfile

import (
	"fmt"
	"strings"
	"unicode"

	shellquote "github.com/kballard/go-shellquote"
)

// LineKind classifies a tokenized line.
type LineKind int

const (
	LineEmpty LineKind = iota
	LineComment
	LineGroup
	LineData
)

// Line is one tokenized line of an init file.
type Line struct {
	Kind   LineKind
	Tokens []string
}

// GroupName returns the name opened by a group header line.
// Multi-token headers are joined with single spaces.
func (l Line) GroupName() string {
	return strings.Join(l.Tokens, " ")
}

// Tokenize splits a raw line using shell quoting rules and classifies it.
// A line is a comment when its first token starts with '#'; a '#' anywhere
// else is ordinary text. Comment lines win over group headers.
func Tokenize(raw string) (Line, error) {
	tokens, err := shellquote.Split(raw)
	if err != nil {
		return Line{}, fmt.Errorf("%w: %v", ErrTokenize, err)
	}

	switch {
	case len(tokens) == 0:
		return Line{Kind: LineEmpty}, nil
	case strings.HasPrefix(tokens[0], "#"):
		return Line{Kind: LineComment, Tokens: tokens}, nil
	case isUpper(tokens[0]):
		return Line{Kind: LineGroup, Tokens: tokens}, nil
	default:
		return Line{Kind: LineData, Tokens: tokens}, nil
	}
}

// isUpper reports whether s has at least one cased letter and no lower-case ones.
// Digits and punctuation are ignored, so "SCIPY-BFGS" is upper but "15" is not.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
