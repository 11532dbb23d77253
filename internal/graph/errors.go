package graph

import (
	"errors"
	"fmt"

	"github.com/inodb/annograph/internal/ident"
)

// Structural errors. Every one of them aborts the load of the current
// collection.
var (
	ErrMalformedIdentifier        = ident.ErrMalformedIdentifier
	ErrMissingIdentifier          = errors.New("missing ID attribute")
	ErrUnknownFeatureType         = errors.New("unknown feature type")
	ErrUnresolvedParent           = errors.New("unresolved parent")
	ErrUnrecognizedSequenceRegion = errors.New("unrecognized sequence region")
	ErrMalformedRecord            = errors.New("malformed record")
	ErrRegionConflict             = errors.New("feature located on more than one sequence region")
	ErrFinalized                  = errors.New("registry already finalized")
)

// RecordError attaches the offending input line to an error.
type RecordError struct {
	File string
	Line int
	Text string
	Err  error
}

func (e *RecordError) Error() string {
	msg := fmt.Sprintf("line %d: %v", e.Line, e.Err)
	if e.File != "" {
		msg = fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	if e.Text != "" {
		msg += fmt.Sprintf(": %q", e.Text)
	}
	return msg
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
