package fieldmapper

import (
	"fmt"
	"strings"
)

// safeSeparator marks a safe-navigation step, as in "source&.tube&.barcode".
const safeSeparator = "&."

// Path is a parsed accessor chain.
type Path struct {
	Segments []string

	// Safe is set when the chain was written with safe-navigation separators.
	// Resolution stops at the first nil instead of looking further.
	Safe bool
}

// ParsePath parses "a.b.c" or "a&.b&.c" into a Path.
func ParsePath(s string) (Path, error) {
	if strings.TrimSpace(s) == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	safe := strings.Contains(s, safeSeparator)
	normalized := strings.ReplaceAll(s, safeSeparator, ".")

	segments := strings.Split(normalized, ".")
	for _, seg := range segments {
		if seg == "" {
			return Path{}, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, s)
		}
		if strings.ContainsAny(seg, " \t\n&") {
			return Path{}, fmt.Errorf("%w: %q has an invalid segment %q", ErrInvalidPath, s, seg)
		}
	}

	return Path{Segments: segments, Safe: safe}, nil
}

// MustParsePath is ParsePath for paths known at compile time.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders the path back in its source form.
func (p Path) String() string {
	sep := "."
	if p.Safe {
		sep = safeSeparator
	}
	return strings.Join(p.Segments, sep)
}
