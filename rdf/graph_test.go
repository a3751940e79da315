package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphPreservesInsertionOrder(t *testing.T) {
	g := NewGraph()
	first := Triple{IRI{"s"}, IRI{"p"}, Literal{Value: "one"}}
	second := Triple{IRI{"s"}, IRI{"p"}, Literal{Value: "two"}}
	g.Add(first)
	g.Add(second)

	require.Equal(t, 2, g.Len())
	triples := g.Triples()
	assert.Equal(t, first, triples[0])
	assert.Equal(t, second, triples[1])
}

func TestSPOGroupsBySubjectAndPredicate(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{IRI{"s1"}, IRI{"p1"}, Literal{Value: "a"}})
	g.Add(Triple{IRI{"s1"}, IRI{"p1"}, Literal{Value: "b"}})
	g.Add(Triple{IRI{"s1"}, IRI{"p2"}, IRI{"o"}})
	g.Add(Triple{BlankNode{"n0"}, IRI{"p1"}, Literal{Value: "c"}})

	spo := g.SPO()
	require.Len(t, spo, 2)
	assert.Len(t, spo["s1"], 2)
	assert.Len(t, spo["s1"]["p1"], 2)
	assert.Contains(t, spo["s1"]["p1"], Term(Literal{Value: "a"}))
	assert.Contains(t, spo["_:n0"]["p1"], Term(Literal{Value: "c"}))
}

func TestTermStrings(t *testing.T) {
	assert.Equal(t, "http://example.org/x", IRI{"http://example.org/x"}.String())
	assert.Equal(t, "_:b0", BlankNode{"b0"}.String())
	assert.Equal(t, `"hi"`, Literal{Value: "hi"}.String())
	assert.Equal(t, `"5"^^<http://www.w3.org/2001/XMLSchema#integer>`,
		Literal{Value: "5", Datatype: "http://www.w3.org/2001/XMLSchema#integer"}.String())
}
