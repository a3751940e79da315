// Package precondition rewrites raw JSON-LD text before it is handed to
// the ingest collaborator. It performs two reversible substitutions:
//
//  1. The empty default namespace prefix (legal Turtle, not expressible in
//     JSON-LD) is replaced by a short placeholder prefix that provably does
//     not occur in the document.
//  2. Every "@type" declaration value is stamped with the 1-based line
//     number it appears on, using the linenum codec.
//
// Both substitutions operate on the text with documented line-shape
// assumptions rather than a structural parse; see Rewrite for the exact
// patterns. The postcondition package undoes them after parsing.
package precondition
