// Package postcondition walks the triple graph produced by parsing a
// preconditioned document, removes the embedded line numbers into a side
// table, and promotes ambiguous plain literals back into references.
package postcondition

import (
	"fmt"

	"github.com/c360studio/semtrace/linenum"
	"github.com/c360studio/semtrace/namespace"
	"github.com/c360studio/semtrace/rdf"
)

// LineTable maps a subject's lexical form to the 1-based source line its
// type declaration came from. At most one entry is kept per subject; a
// later triple for the same subject overwrites an earlier one.
type LineTable map[string]int

// Normalize builds a new graph from g with all line-number suffixes
// stripped and resolvable plain literals promoted to IRIs, and returns it
// with the recovered line table. Subjects and predicates pass through
// untouched; g itself is never modified.
//
// Per triple the object is handled in order:
//  1. A literal with a datatype has the suffix stripped from the datatype.
//  2. A plain literal that looks like "<prefix>:<name>" with a bound
//     prefix is promoted to the expanded IRI.
//  3. An IRI (original or just promoted) has the suffix stripped from its
//     value.
//  4. Blank nodes pass through unchanged.
func Normalize(g *rdf.Graph, ctx *namespace.Context) (*rdf.Graph, LineTable, error) {
	out := rdf.NewGraph()
	lines := make(LineTable)

	for _, t := range g.Triples() {
		obj := t.Object

		if lit, ok := obj.(rdf.Literal); ok && lit.Datatype != "" {
			stripped, line, err := linenum.Decode(lit.Datatype)
			if err != nil {
				return nil, nil, fmt.Errorf("normalize datatype of %s: %w", t.Subject, err)
			}
			if line > 0 {
				obj = rdf.Literal{Value: lit.Value, Datatype: stripped}
				lines[t.Subject.String()] = line
			}
		}

		if lit, ok := obj.(rdf.Literal); ok && lit.Datatype == "" {
			if promoted, ok := promoteLiteral(lit, ctx); ok {
				obj = promoted
			}
		}

		if iri, ok := obj.(rdf.IRI); ok {
			stripped, line, err := linenum.Decode(iri.Value)
			if err != nil {
				return nil, nil, fmt.Errorf("normalize object of %s: %w", t.Subject, err)
			}
			if line > 0 {
				obj = rdf.IRI{Value: stripped}
				lines[t.Subject.String()] = line
			}
		}

		out.Add(rdf.Triple{Subject: t.Subject, Predicate: t.Predicate, Object: obj})
	}

	return out, lines, nil
}

// promoteLiteral resolves an ambiguous plain literal into an IRI when its
// text splits on the first colon into a prefix bound in ctx. The second
// return reports whether promotion happened; a literal that stays a
// literal is not an error.
func promoteLiteral(lit rdf.Literal, ctx *namespace.Context) (rdf.IRI, bool) {
	qualifier, name, ok := ctx.SplitQName(lit.Value)
	if !ok {
		return rdf.IRI{}, false
	}
	return rdf.IRI{Value: ctx.Namespace(qualifier) + name}, true
}
