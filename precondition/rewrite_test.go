package precondition

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "@context": {
    "": "http://example.org/ns#"
  },
  "@type": "Person",
  "name": ":Bob"
}`

func TestRewriteFullDocument(t *testing.T) {
	res, err := Rewrite(sampleDocument, "", Config{})
	require.NoError(t, err)

	assert.Equal(t, "aaa", res.Prefix)
	assert.True(t, res.EmptyPrefixReplaced)
	assert.Equal(t, 1, res.TokensRewritten)
	assert.Equal(t, 1, res.TypeLinesStamped)

	assert.Contains(t, res.Text, `"aaa": "http://example.org/ns#"`)
	assert.Contains(t, res.Text, `"name": "aaa:Bob"`)
	assert.Contains(t, res.Text, `  "@type": "Person_LINE_5",`)
	assert.NotContains(t, res.Text, `"":`)
}

func TestRewriteExplicitPrefix(t *testing.T) {
	res, err := Rewrite(sampleDocument, "zzz", Config{})
	require.NoError(t, err)

	assert.Equal(t, "zzz", res.Prefix)
	assert.Contains(t, res.Text, `"zzz": "http://example.org/ns#"`)
	assert.Contains(t, res.Text, `"name": "zzz:Bob"`)
}

func TestRewriteNoEmptyDeclaration(t *testing.T) {
	doc := `{
  "@context": {
    "foo": "http://example.org/ns#"
  },
  "@type": "foo:Person",
  "name": ":Bob"
}`
	res, err := Rewrite(doc, "", Config{})
	require.NoError(t, err)

	// Without a declaration the bare token is left alone, but line
	// embedding still runs.
	assert.False(t, res.EmptyPrefixReplaced)
	assert.Equal(t, 0, res.TokensRewritten)
	assert.Equal(t, 1, res.TypeLinesStamped)
	assert.Contains(t, res.Text, `"name": ":Bob"`)
	assert.Contains(t, res.Text, `"@type": "foo:Person_LINE_5",`)
}

func TestRewriteMultipleEmptyDeclarations(t *testing.T) {
	doc := `{
  "@context": {
    "": "http://example.org/a#",
    "": "http://example.org/b#"
  }
}`
	_, err := Rewrite(doc, "", Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMultipleEmptyPrefixes)
}

func TestRewriteSchemesAccepted(t *testing.T) {
	for _, scheme := range []string{"http", "https", "file"} {
		doc := `{"@context": {"": "` + scheme + `://example.org/"}, "name": ":x"}`
		res, err := Rewrite(doc, "qqq", Config{})
		require.NoError(t, err)
		assert.True(t, res.EmptyPrefixReplaced, scheme)
	}

	// An unaccepted scheme is not a declaration.
	doc := `{"@context": {"": "urn:example:ns"}, "name": ":x"}`
	res, err := Rewrite(doc, "qqq", Config{})
	require.NoError(t, err)
	assert.False(t, res.EmptyPrefixReplaced)
}

func TestEmbedLineNumbersPreservesTrailingBytes(t *testing.T) {
	text, stamped := embedLineNumbers(`  "@type": "Person", "age": 42`)
	assert.Equal(t, 1, stamped)
	assert.Equal(t, `  "@type": "Person_LINE_1", "age": 42`, text)
}

func TestEmbedLineNumbersSkipsNonMatchingLines(t *testing.T) {
	doc := strings.Join([]string{
		`{`,
		`  "@type": "Person",`,
		`  "@type": "multi word",`,
		`  "type": "Person",`,
		`}`,
	}, "\n")

	text, stamped := embedLineNumbers(doc)
	assert.Equal(t, 1, stamped)
	assert.Contains(t, text, `"@type": "Person_LINE_2",`)
	assert.Contains(t, text, `"@type": "multi word",`)
	assert.Contains(t, text, `"type": "Person",`)
}

func TestTokenPatternDoesNotMatchKeyValuePairs(t *testing.T) {
	doc := `{"@context": {"": "http://example.org/"}, "key": "value", "a":"b"}`
	res, err := Rewrite(doc, "ppp", Config{})
	require.NoError(t, err)

	assert.Equal(t, 0, res.TokensRewritten)
	assert.Contains(t, res.Text, `"key": "value"`)
	assert.Contains(t, res.Text, `"a":"b"`)
}

func TestPreconditionWrapper(t *testing.T) {
	text, err := Precondition(sampleDocument, "")
	require.NoError(t, err)
	assert.Contains(t, text, "Person_LINE_5")
}
