package rdf

// Triple is a single subject-predicate-object statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// Graph is an ordered collection of triples. Iteration order is
// insertion order; no deduplication is performed.
type Graph struct {
	triples []Triple
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Add appends a triple to the graph.
func (g *Graph) Add(t Triple) {
	g.triples = append(g.triples, t)
}

// Triples returns the triples in insertion order. The returned slice is
// the graph's backing store; callers must not modify it.
func (g *Graph) Triples() []Triple {
	return g.triples
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	return len(g.triples)
}

// SPO groups the graph's triples as {subject: {predicate: {objects}}},
// keyed by term lexical form. Predicates map to sets of objects.
func (g *Graph) SPO() map[string]map[string]map[Term]struct{} {
	spo := make(map[string]map[string]map[Term]struct{})
	for _, t := range g.triples {
		s := t.Subject.String()
		p := t.Predicate.String()
		if spo[s] == nil {
			spo[s] = make(map[string]map[Term]struct{})
		}
		if spo[s][p] == nil {
			spo[s][p] = make(map[Term]struct{})
		}
		spo[s][p][t.Object] = struct{}{}
	}
	return spo
}
