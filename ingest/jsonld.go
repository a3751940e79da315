package ingest

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/c360studio/semtrace/namespace"
	"github.com/c360studio/semtrace/rdf"
)

// RDFType is the expanded rdf:type predicate IRI.
const RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

const (
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDouble  = "http://www.w3.org/2001/XMLSchema#double"
	xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
)

// JSONLD reads flattened JSON-LD documents: a top-level @context object
// and either a @graph node array or a single node object. Node properties
// may be strings, numbers, booleans, {"@value", "@type"} value objects,
// {"@id"} reference objects, nested node objects, or arrays of these.
//
// This is deliberately not a general JSON-LD processor; it covers the
// document shapes the precondition rewriter is specified against.
type JSONLD struct{}

// NewJSONLD returns a flattened JSON-LD ingester.
func NewJSONLD() *JSONLD {
	return &JSONLD{}
}

// Ingest parses text into a triple graph and the declared context.
func (j *JSONLD) Ingest(text string) (*rdf.Graph, *namespace.Context, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, nil, fmt.Errorf("ingest: parse document: %w", err)
	}

	ctx := namespace.New()
	if rawCtx, ok := doc["@context"].(map[string]any); ok {
		// Bind in sorted key order so inverse-mapping conflicts resolve
		// deterministically.
		keys := make([]string, 0, len(rawCtx))
		for k := range rawCtx {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if ns, ok := rawCtx[k].(string); ok {
				ctx.Bind(k, ns)
			}
		}
	}

	g := rdf.NewGraph()
	r := &reader{ctx: ctx}

	if rawGraph, ok := doc["@graph"].([]any); ok {
		for _, rawNode := range rawGraph {
			node, ok := rawNode.(map[string]any)
			if !ok {
				return nil, nil, fmt.Errorf("ingest: @graph entry is not a node object")
			}
			if _, err := r.addNode(g, node); err != nil {
				return nil, nil, err
			}
		}
	} else {
		if _, err := r.addNode(g, doc); err != nil {
			return nil, nil, err
		}
	}

	return g, ctx, nil
}

// reader tracks blank node allocation across one document.
type reader struct {
	ctx    *namespace.Context
	bnodes int
}

// addNode emits triples for one node object and returns the node's
// subject term.
func (r *reader) addNode(g *rdf.Graph, node map[string]any) (rdf.Term, error) {
	subject := r.subjectTerm(node)

	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch key {
		case "@context", "@id":
			continue
		case "@type":
			for _, v := range asSlice(node[key]) {
				typeValue, ok := v.(string)
				if !ok {
					return nil, fmt.Errorf("ingest: non-string @type on %s", subject)
				}
				g.Add(rdf.Triple{
					Subject:   subject,
					Predicate: rdf.IRI{Value: RDFType},
					Object:    rdf.IRI{Value: r.expand(typeValue)},
				})
			}
		default:
			predicate := rdf.IRI{Value: r.expand(key)}
			for _, v := range asSlice(node[key]) {
				object, err := r.objectTerm(g, subject, v)
				if err != nil {
					return nil, err
				}
				g.Add(rdf.Triple{Subject: subject, Predicate: predicate, Object: object})
			}
		}
	}

	return subject, nil
}

// subjectTerm resolves a node's @id into a term, allocating a blank node
// when the node has none.
func (r *reader) subjectTerm(node map[string]any) rdf.Term {
	id, ok := node["@id"].(string)
	if !ok {
		return r.newBlankNode()
	}
	return r.referenceTerm(id)
}

// objectTerm converts one property value into a term, recursing into
// nested node objects.
func (r *reader) objectTerm(g *rdf.Graph, subject rdf.Term, v any) (rdf.Term, error) {
	switch value := v.(type) {
	case string:
		// Plain literal; may actually be a prefixed reference. The
		// normalizer decides after parsing.
		return rdf.Literal{Value: value}, nil
	case bool:
		return rdf.Literal{Value: strconv.FormatBool(value), Datatype: xsdBoolean}, nil
	case float64:
		if value == float64(int64(value)) {
			return rdf.Literal{Value: strconv.FormatInt(int64(value), 10), Datatype: xsdInteger}, nil
		}
		return rdf.Literal{Value: strconv.FormatFloat(value, 'g', -1, 64), Datatype: xsdDouble}, nil
	case map[string]any:
		if raw, ok := value["@value"]; ok {
			return r.valueObjectTerm(raw, value)
		}
		if id, ok := value["@id"].(string); ok && len(value) == 1 {
			return r.referenceTerm(id), nil
		}
		// Nested node object: emit its triples and reference it.
		return r.addNode(g, value)
	default:
		return nil, fmt.Errorf("ingest: unsupported value %T on %s", v, subject)
	}
}

// valueObjectTerm converts an expanded {"@value": ..., "@type": ...}
// object into a typed literal.
func (r *reader) valueObjectTerm(raw any, value map[string]any) (rdf.Term, error) {
	lit := rdf.Literal{}

	switch v := raw.(type) {
	case string:
		lit.Value = v
	case bool:
		lit.Value = strconv.FormatBool(v)
	case float64:
		if v == float64(int64(v)) {
			lit.Value = strconv.FormatInt(int64(v), 10)
		} else {
			lit.Value = strconv.FormatFloat(v, 'g', -1, 64)
		}
	default:
		return nil, fmt.Errorf("ingest: unsupported @value %T", raw)
	}

	if dt, ok := value["@type"].(string); ok {
		lit.Datatype = r.expand(dt)
	}

	return lit, nil
}

// referenceTerm converts an identifier string into a blank node or IRI,
// expanding qnames against the context.
func (r *reader) referenceTerm(id string) rdf.Term {
	if len(id) >= 2 && id[0] == '_' && id[1] == ':' {
		return rdf.BlankNode{ID: id[2:]}
	}
	return rdf.IRI{Value: r.expand(id)}
}

// expand resolves "<prefix>:<name>" against the context, returning s
// unchanged when the prefix is unbound or absent.
func (r *reader) expand(s string) string {
	if qualifier, name, ok := r.ctx.SplitQName(s); ok {
		return r.ctx.Namespace(qualifier) + name
	}
	return s
}

func (r *reader) newBlankNode() rdf.BlankNode {
	b := rdf.BlankNode{ID: "b" + strconv.Itoa(r.bnodes)}
	r.bnodes++
	return b
}

// asSlice normalizes single values and arrays to a slice.
func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return []any{v}
}
