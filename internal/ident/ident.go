// Package ident parses and composes hierarchical datastore identifiers.
//
// Identifiers look like species.strain.assembly[.annotation].localname, e.g.
// "glyma.Wm82.gnm2.ann1.Glyma.01G000100.1". The local name may itself contain
// dots, so everything after the fixed prefix belongs to it.
package ident

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedIdentifier reports an identifier that does not have the expected
// dot-separated shape or does not belong to the active collection.
var ErrMalformedIdentifier = errors.New("malformed identifier")

const (
	// assemblyParts is the number of prefix components before the local name
	// of an assembly-level identifier (species, strain, assembly).
	assemblyParts = 3
	// annotationParts adds the annotation version.
	annotationParts = 4
)

// Parts holds the components of a decomposed identifier.
type Parts struct {
	Species    string
	Strain     string
	Assembly   string
	Annotation string // empty for assembly-level identifiers
	LocalName  string
}

// String recomposes the identifier.
func (p Parts) String() string {
	fields := []string{p.Species, p.Strain, p.Assembly}
	if p.Annotation != "" {
		fields = append(fields, p.Annotation)
	}
	return strings.Join(append(fields, p.LocalName), ".")
}

// Parse splits id into its components without checking them against a
// collection. annotated selects whether an annotation version is expected.
func Parse(id string, annotated bool) (Parts, error) {
	n := prefixLen(annotated)
	fields := strings.Split(id, ".")
	if len(fields) < n+1 {
		return Parts{}, fmt.Errorf("%w: %q has %d components, want at least %d",
			ErrMalformedIdentifier, id, len(fields), n+1)
	}
	for i, f := range fields[:n] {
		if f == "" {
			return Parts{}, fmt.Errorf("%w: %q has empty component %d", ErrMalformedIdentifier, id, i)
		}
	}

	p := Parts{
		Species:   fields[0],
		Strain:    fields[1],
		Assembly:  fields[2],
		LocalName: strings.Join(fields[n:], "."),
	}
	if annotated {
		p.Annotation = fields[3]
	}
	if p.LocalName == "" {
		return Parts{}, fmt.Errorf("%w: %q has an empty local name", ErrMalformedIdentifier, id)
	}
	return p, nil
}

// SecondaryIdentifier returns the local-name suffix of id.
func SecondaryIdentifier(id string, annotated bool) (string, error) {
	p, err := Parse(id, annotated)
	if err != nil {
		return "", err
	}
	return p.LocalName, nil
}

// MatchesCollection reports whether id lives under the given collection prefix.
func MatchesCollection(id, prefix string) bool {
	return prefix != "" && strings.HasPrefix(id, prefix+".")
}

func prefixLen(annotated bool) int {
	if annotated {
		return annotationParts
	}
	return assemblyParts
}
