package loader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports a missing directory, an empty match, or no usable data.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument reports a bad request or a malformed file name.
	ErrInvalidArgument = errors.New("invalid argument")
)

// LoadError wraps a failure to read or write a data file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// checkSymbol rejects symbols that are empty or would name a path outside
// their own directory.
func checkSymbol(s string) error {
	switch {
	case s == "":
		return invalid("symbol is required")
	case s == "." || s == ".." || strings.ContainsAny(s, `/\`):
		return invalid("symbol %q is not a plain name", s)
	}
	return nil
}
