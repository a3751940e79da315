// Package rdf provides the triple and term model used by the semtrace
// pipeline. Terms are small comparable value types so graphs can be
// inspected directly in tests.
package rdf

import "fmt"

// Term is an RDF term: an IRI reference, a literal, or a blank node.
type Term interface {
	// String returns the lexical form of the term.
	String() string

	term()
}

// IRI is a reference to a resource, fully qualified or relative.
type IRI struct {
	Value string
}

func (i IRI) String() string { return i.Value }
func (IRI) term()            {}

// Literal is a textual value with an optional datatype IRI string.
// A Literal with an empty Datatype is a plain literal; plain literals
// parsed from JSON-LD may actually be prefixed references (see
// postcondition.Normalize).
type Literal struct {
	Value    string
	Datatype string
}

func (l Literal) String() string {
	if l.Datatype == "" {
		return fmt.Sprintf("%q", l.Value)
	}
	return fmt.Sprintf("%q^^<%s>", l.Value, l.Datatype)
}
func (Literal) term() {}

// BlankNode is an opaque node identifier local to one graph.
type BlankNode struct {
	ID string
}

func (b BlankNode) String() string { return "_:" + b.ID }
func (BlankNode) term()            {}
