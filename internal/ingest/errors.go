package ingest

import (
	"errors"
	"fmt"
)

// ErrNoResult means a source answered and parsed cleanly but carries no draw
// for the target date yet. Not a failure: results publish some time after
// the draw.
var ErrNoResult = errors.New("no draw result published for target date")

// FetchError wraps a transport-level failure against one source.
type FetchError struct {
	Source string
	URL    string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s (%s): %v", e.Source, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps a response that came back but could not be read as a
// draw result.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
