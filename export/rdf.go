// Package export serializes cleaned document graphs to RDF text formats.
package export

import (
	"fmt"
	"strings"

	"github.com/c360studio/semtrace/namespace"
	"github.com/c360studio/semtrace/rdf"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"
)

// ParseFormat validates a format name from config or flags.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTurtle, FormatNTriples:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Serialize renders the graph in the given format. The context supplies
// @prefix headers and qname compaction for Turtle output.
func Serialize(g *rdf.Graph, ctx *namespace.Context, format Format) (string, error) {
	return SerializeWithLines(g, ctx, format, nil)
}

// SerializeWithLines renders the graph with source-line provenance
// comments on each subject's first Turtle statement. The lines table maps
// subject lexical forms to line numbers; N-Triples output ignores it
// (comments are not part of that grammar's common usage here).
func SerializeWithLines(g *rdf.Graph, ctx *namespace.Context, format Format, lines map[string]int) (string, error) {
	switch format {
	case FormatTurtle:
		return toTurtle(g, ctx, lines), nil
	case FormatNTriples:
		return toNTriples(g), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// toTurtle serializes to Turtle format.
func toTurtle(g *rdf.Graph, ctx *namespace.Context, lines map[string]int) string {
	var sb strings.Builder

	written := make(map[string]bool)
	for _, b := range ctx.Bindings() {
		if b.Qualifier == "" || written[b.Qualifier] {
			continue
		}
		written[b.Qualifier] = true
		sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", b.Qualifier, ctx.Namespace(b.Qualifier)))
	}
	sb.WriteString("\n")

	commented := make(map[string]bool)
	for _, t := range g.Triples() {
		subject := t.Subject.String()
		sb.WriteString(fmt.Sprintf("%s %s %s .",
			formatTermTurtle(t.Subject, ctx),
			formatTermTurtle(t.Predicate, ctx),
			formatTermTurtle(t.Object, ctx)))

		if line, ok := lines[subject]; ok && !commented[subject] {
			commented[subject] = true
			sb.WriteString(fmt.Sprintf("  # line %d", line))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// toNTriples serializes to N-Triples format with fully expanded IRIs.
func toNTriples(g *rdf.Graph) string {
	var sb strings.Builder
	for _, t := range g.Triples() {
		sb.WriteString(fmt.Sprintf("%s %s %s .\n",
			formatTermNTriples(t.Subject),
			formatTermNTriples(t.Predicate),
			formatTermNTriples(t.Object)))
	}
	return sb.String()
}

// formatTermTurtle renders a term with qname compaction where possible.
func formatTermTurtle(term rdf.Term, ctx *namespace.Context) string {
	switch v := term.(type) {
	case rdf.IRI:
		if qname, ok := ctx.QName(v.Value); ok {
			return qname
		}
		return "<" + v.Value + ">"
	case rdf.Literal:
		if v.Datatype == "" {
			return fmt.Sprintf("\"%s\"", escapeString(v.Value))
		}
		if qname, ok := ctx.QName(v.Datatype); ok {
			return fmt.Sprintf("\"%s\"^^%s", escapeString(v.Value), qname)
		}
		return fmt.Sprintf("\"%s\"^^<%s>", escapeString(v.Value), v.Datatype)
	default:
		return term.String()
	}
}

// formatTermNTriples renders a term without compaction.
func formatTermNTriples(term rdf.Term) string {
	switch v := term.(type) {
	case rdf.IRI:
		return "<" + v.Value + ">"
	case rdf.Literal:
		if v.Datatype == "" {
			return fmt.Sprintf("\"%s\"", escapeString(v.Value))
		}
		return fmt.Sprintf("\"%s\"^^<%s>", escapeString(v.Value), v.Datatype)
	default:
		return term.String()
	}
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
