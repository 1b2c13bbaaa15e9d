package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a named component does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotLoaded is returned when an optional collection (tokens) was never loaded.
	ErrNotLoaded = errors.New("not loaded")
	// ErrMissingArgument is returned when a required argument is absent.
	ErrMissingArgument = errors.New("missing required argument")
	// ErrInvalidArgument is returned when an argument has the wrong type or shape.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownResource is returned for resource URIs with no matching scheme.
	ErrUnknownResource = errors.New("unknown resource")
	// ErrUnknownOperation is returned for operation names that are not registered.
	ErrUnknownOperation = errors.New("unknown operation")
)

// SourceError describes one catalog source that failed to load.
type SourceError struct {
	Source string
	Path   string
	Err    error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Source, e.Path, e.Err)
}

func (e SourceError) Unwrap() error { return e.Err }

// LoadError is returned when one or more sources fail to parse or validate.
// Nothing is applied to the store when a LoadError is returned.
type LoadError struct {
	Sources []SourceError
}

func (e *LoadError) Error() string {
	parts := make([]string, 0, len(e.Sources))
	for _, s := range e.Sources {
		parts = append(parts, s.Error())
	}
	return "catalog load failed: " + strings.Join(parts, "; ")
}

func (e *LoadError) Unwrap() []error {
	errs := make([]error, 0, len(e.Sources))
	for _, s := range e.Sources {
		errs = append(errs, s)
	}
	return errs
}
