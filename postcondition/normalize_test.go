package postcondition

import (
	"testing"

	"github.com/c360studio/semtrace/linenum"
	"github.com/c360studio/semtrace/namespace"
	"github.com/c360studio/semtrace/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() *namespace.Context {
	return namespace.New().Bind("foo", "http://example.org/")
}

func TestNormalizeStripsTypeObjectSuffix(t *testing.T) {
	g := rdf.NewGraph()
	g.Add(rdf.Triple{
		Subject:   rdf.IRI{Value: "http://example.org/bob"},
		Predicate: rdf.IRI{Value: "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"},
		Object:    rdf.IRI{Value: "http://example.org/Person_LINE_5"},
	})

	out, lines, err := Normalize(g, testContext())
	require.NoError(t, err)

	require.Equal(t, 1, out.Len())
	assert.Equal(t, rdf.IRI{Value: "http://example.org/Person"}, out.Triples()[0].Object)
	assert.Equal(t, LineTable{"http://example.org/bob": 5}, lines)
}

func TestNormalizeStripsDatatypeSuffix(t *testing.T) {
	g := rdf.NewGraph()
	g.Add(rdf.Triple{
		Subject:   rdf.IRI{Value: "http://example.org/bob"},
		Predicate: rdf.IRI{Value: "http://example.org/age"},
		Object:    rdf.Literal{Value: "42", Datatype: "http://www.w3.org/2001/XMLSchema#integer_LINE_9"},
	})

	out, lines, err := Normalize(g, testContext())
	require.NoError(t, err)

	assert.Equal(t,
		rdf.Literal{Value: "42", Datatype: "http://www.w3.org/2001/XMLSchema#integer"},
		out.Triples()[0].Object)
	assert.Equal(t, 9, lines["http://example.org/bob"])
}

func TestNormalizePromotesResolvableLiteral(t *testing.T) {
	g := rdf.NewGraph()
	g.Add(rdf.Triple{
		Subject:   rdf.IRI{Value: "http://example.org/bob"},
		Predicate: rdf.IRI{Value: "http://example.org/knows"},
		Object:    rdf.Literal{Value: "foo:alice"},
	})

	out, lines, err := Normalize(g, testContext())
	require.NoError(t, err)

	assert.Equal(t, rdf.IRI{Value: "http://example.org/alice"}, out.Triples()[0].Object)
	assert.Empty(t, lines)
}

func TestNormalizePromotionThenStrip(t *testing.T) {
	// A promoted literal can itself carry a line suffix; both transforms
	// apply in order.
	g := rdf.NewGraph()
	g.Add(rdf.Triple{
		Subject:   rdf.IRI{Value: "http://example.org/bob"},
		Predicate: rdf.IRI{Value: "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"},
		Object:    rdf.Literal{Value: linenum.Encode("foo:Person", 7)},
	})

	out, lines, err := Normalize(g, testContext())
	require.NoError(t, err)

	assert.Equal(t, rdf.IRI{Value: "http://example.org/Person"}, out.Triples()[0].Object)
	assert.Equal(t, 7, lines["http://example.org/bob"])
}

func TestNormalizeLeavesUnresolvableLiteral(t *testing.T) {
	g := rdf.NewGraph()
	g.Add(rdf.Triple{
		Subject:   rdf.IRI{Value: "http://example.org/bob"},
		Predicate: rdf.IRI{Value: "http://example.org/name"},
		Object:    rdf.Literal{Value: "Bob"},
	})
	g.Add(rdf.Triple{
		Subject:   rdf.IRI{Value: "http://example.org/bob"},
		Predicate: rdf.IRI{Value: "http://example.org/note"},
		Object:    rdf.Literal{Value: "unbound:thing"},
	})

	out, lines, err := Normalize(g, testContext())
	require.NoError(t, err)

	assert.Equal(t, rdf.Literal{Value: "Bob"}, out.Triples()[0].Object)
	assert.Equal(t, rdf.Literal{Value: "unbound:thing"}, out.Triples()[1].Object)
	assert.Empty(t, lines)
}

func TestNormalizeBlankNodePassthrough(t *testing.T) {
	g := rdf.NewGraph()
	g.Add(rdf.Triple{
		Subject:   rdf.BlankNode{ID: "b0"},
		Predicate: rdf.IRI{Value: "http://example.org/knows"},
		Object:    rdf.BlankNode{ID: "b1"},
	})

	out, lines, err := Normalize(g, testContext())
	require.NoError(t, err)

	assert.Equal(t, rdf.BlankNode{ID: "b1"}, out.Triples()[0].Object)
	assert.Empty(t, lines)
}

func TestNormalizeLastWriteWins(t *testing.T) {
	g := rdf.NewGraph()
	g.Add(rdf.Triple{
		Subject:   rdf.IRI{Value: "http://example.org/bob"},
		Predicate: rdf.IRI{Value: "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"},
		Object:    rdf.IRI{Value: "http://example.org/Person_LINE_5"},
	})
	g.Add(rdf.Triple{
		Subject:   rdf.IRI{Value: "http://example.org/bob"},
		Predicate: rdf.IRI{Value: "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"},
		Object:    rdf.IRI{Value: "http://example.org/Agent_LINE_8"},
	})

	_, lines, err := Normalize(g, testContext())
	require.NoError(t, err)
	assert.Equal(t, 8, lines["http://example.org/bob"])
}

func TestNormalizeMalformedSuffix(t *testing.T) {
	g := rdf.NewGraph()
	g.Add(rdf.Triple{
		Subject:   rdf.IRI{Value: "http://example.org/bob"},
		Predicate: rdf.IRI{Value: "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"},
		Object:    rdf.IRI{Value: "http://example.org/Person_LINE_xyz"},
	})

	_, _, err := Normalize(g, testContext())
	require.Error(t, err)
	assert.ErrorIs(t, err, linenum.ErrMalformedSuffix)
}

func TestNormalizeDoesNotModifyInput(t *testing.T) {
	g := rdf.NewGraph()
	original := rdf.Triple{
		Subject:   rdf.IRI{Value: "http://example.org/bob"},
		Predicate: rdf.IRI{Value: "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"},
		Object:    rdf.IRI{Value: "http://example.org/Person_LINE_5"},
	}
	g.Add(original)

	_, _, err := Normalize(g, testContext())
	require.NoError(t, err)
	assert.Equal(t, original, g.Triples()[0])
}
