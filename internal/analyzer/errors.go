package analyzer

import (
	"errors"
	"fmt"
)

// ErrInvalidURL is returned when the input cannot be parsed as a URL
var ErrInvalidURL = errors.New("invalid URL")

// ErrorKind classifies a ParseError
type ErrorKind int

const (
	// InvalidURL marks input that could not be parsed as a URL
	InvalidURL ErrorKind = iota + 1
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidURL:
		return "InvalidUrl"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseError describes analyzer input that could not be parsed
type ParseError struct {
	Kind  ErrorKind
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %q: %v", e.Kind, e.Input, e.Err)
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Input)
}

// Unwrap lets errors.Is match both ErrInvalidURL and the underlying cause
func (e *ParseError) Unwrap() []error {
	errs := []error{}
	if e.Kind == InvalidURL {
		errs = append(errs, ErrInvalidURL)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
