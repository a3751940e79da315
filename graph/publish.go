// Package graph publishes cleaned document graphs to the knowledge graph.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/c360studio/semtrace/pipeline"
	"github.com/c360studio/semtrace/rdf"
	"github.com/google/uuid"
)

// GraphIngestSubject is the JetStream subject for graph ingestion.
const GraphIngestSubject = "graph.ingest.entity"

// LinePredicate carries the recovered source line number for a subject.
const LinePredicate = "provenance.source.line"

// EntityTriples converts a pipeline output into per-subject triple
// batches. Line-table entries become provenance triples on their subject.
// All triples in one call share a batch correlation ID.
func EntityTriples(out *pipeline.Output, source string) map[string][]message.Triple {
	now := time.Now()
	batch := uuid.New().String()

	entities := make(map[string][]message.Triple)

	for _, t := range out.Graph.Triples() {
		subject := t.Subject.String()
		entities[subject] = append(entities[subject], message.Triple{
			Subject:    subject,
			Predicate:  predicateString(t.Predicate),
			Object:     objectValue(t.Object),
			Source:     source,
			Timestamp:  now,
			Confidence: 1.0,
			Context:    batch,
			Datatype:   objectDatatype(t.Object),
		})
	}

	for subject, line := range out.Lines {
		entities[subject] = append(entities[subject], message.Triple{
			Subject:    subject,
			Predicate:  LinePredicate,
			Object:     line,
			Source:     source,
			Timestamp:  now,
			Confidence: 1.0,
			Context:    batch,
		})
	}

	return entities
}

// PublishGraph publishes one entity ingest message per subject in the
// output. A nil NATS client is a no-op so callers can run without a
// broker.
func PublishGraph(ctx context.Context, nc *natsclient.Client, out *pipeline.Output, source string) error {
	if nc == nil {
		return nil // Skip publishing if no NATS client (graceful degradation)
	}

	entities := EntityTriples(out, source)

	subjects := make([]string, 0, len(entities))
	for subject := range entities {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	now := time.Now()
	for _, subject := range subjects {
		payload := &EntityPayload{
			Subject:    subject,
			TripleData: entities[subject],
			UpdatedAt:  now,
		}
		if err := payload.Validate(); err != nil {
			return fmt.Errorf("entity %s: %w", subject, err)
		}

		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal entity %s: %w", subject, err)
		}

		if err := nc.PublishToStream(ctx, GraphIngestSubject, data); err != nil {
			return fmt.Errorf("publish entity %s: %w", subject, err)
		}
	}

	return nil
}

// predicateString renders a predicate term for the wire format.
func predicateString(p rdf.Term) string {
	if iri, ok := p.(rdf.IRI); ok {
		return iri.Value
	}
	return p.String()
}

// objectValue renders an object term as a wire value: literals carry
// their text, references and blank nodes their identifier.
func objectValue(o rdf.Term) any {
	switch v := o.(type) {
	case rdf.Literal:
		return v.Value
	case rdf.IRI:
		return v.Value
	default:
		return o.String()
	}
}

// objectDatatype returns the datatype hint for typed literals.
func objectDatatype(o rdf.Term) string {
	if lit, ok := o.(rdf.Literal); ok {
		return lit.Datatype
	}
	return ""
}
