package ident

import (
	"fmt"
	"strings"
)

// Context is the identifier scope of the collection currently being loaded.
type Context struct {
	Species    string
	Strain     string
	Assembly   string
	Annotation string // empty for genome-only collections
	Key        string // collection key, e.g. "FGFB"
}

// ParseCollection derives a Context from a collection identifier such as
// "glyma.Wm82.gnm2.ann1.FGFB" or "glyma.Wm82.gnm2.DTC4".
func ParseCollection(identifier string) (Context, error) {
	fields := strings.Split(identifier, ".")
	switch len(fields) {
	case 4:
		return Context{Species: fields[0], Strain: fields[1], Assembly: fields[2], Key: fields[3]}, nil
	case 5:
		return Context{
			Species:    fields[0],
			Strain:     fields[1],
			Assembly:   fields[2],
			Annotation: fields[3],
			Key:        fields[4],
		}, nil
	}
	return Context{}, fmt.Errorf("%w: collection %q has %d components, want 4 or 5",
		ErrMalformedIdentifier, identifier, len(fields))
}

// Annotated reports whether identifiers in this collection carry an
// annotation version.
func (c Context) Annotated() bool {
	return c.Annotation != ""
}

// Prefix returns the identifier prefix shared by all features of the collection.
func (c Context) Prefix() string {
	p := c.AssemblyPrefix()
	if c.Annotation != "" {
		p += "." + c.Annotation
	}
	return p
}

// AssemblyPrefix returns species.strain.assembly.
func (c Context) AssemblyPrefix() string {
	return c.Species + "." + c.Strain + "." + c.Assembly
}

// Decompose parses id and checks that its leading components match c.
func (c Context) Decompose(id string) (Parts, error) {
	p, err := Parse(id, c.Annotated())
	if err != nil {
		return Parts{}, err
	}
	if p.Species != c.Species || p.Strain != c.Strain || p.Assembly != c.Assembly || p.Annotation != c.Annotation {
		return Parts{}, fmt.Errorf("%w: %q does not belong to collection %s",
			ErrMalformedIdentifier, id, c.Prefix())
	}
	return p, nil
}

// Secondary returns the local name of id within this collection.
func (c Context) Secondary(id string) (string, error) {
	p, err := c.Decompose(id)
	if err != nil {
		return "", err
	}
	return p.LocalName, nil
}

// Matches reports whether id belongs to this collection.
func (c Context) Matches(id string) bool {
	return MatchesCollection(id, c.Prefix())
}

// Identifier returns the full collection identifier.
func (c Context) Identifier() string {
	return c.Prefix() + "." + c.Key
}
