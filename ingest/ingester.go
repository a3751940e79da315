// Package ingest defines the collaborator boundary between the semtrace
// core and the JSON-LD parser, plus a flattened-document implementation.
// The core hands preconditioned text across this boundary and receives a
// triple graph and the parsed @context back; it never parses JSON itself.
package ingest

import (
	"github.com/c360studio/semtrace/namespace"
	"github.com/c360studio/semtrace/rdf"
)

// Ingester parses a JSON-LD document into a triple graph and the
// namespace context declared by its @context block. Parsing correctness
// is assumed by the pipeline; ingestion is treated as a side-effect-free
// function from text to graph.
type Ingester interface {
	Ingest(text string) (*rdf.Graph, *namespace.Context, error)
}
