// Package namespace provides the qualifier/namespace context consumed by
// the postcondition normalizer and the RDF exporter. A Context holds a set
// of bindings between short qualifiers (e.g. "xsd") and namespace strings
// (e.g. "http://www.w3.org/2001/XMLSchema#") and converts identifiers
// between qname and URI form.
package namespace

import (
	"fmt"
	"strings"
)

// Binding associates a qualifier with a namespace string.
type Binding struct {
	Qualifier string
	Namespace string
}

// DefaultBindings are the well-known namespaces every new Context starts
// with.
var DefaultBindings = []Binding{
	{"rdf", "http://www.w3.org/1999/02/22-rdf-syntax-ns#"},
	{"rdfs", "http://www.w3.org/2000/01/rdf-schema#"},
	{"xsd", "http://www.w3.org/2001/XMLSchema#"},
	{"owl", "http://www.w3.org/2002/07/owl#"},
	{"sh", "http://www.w3.org/ns/shacl#"},
	{"olo", "http://purl.org/ontology/olo/core#"},
}

// Context is a set of namespace bindings with forward (qualifier →
// namespace) and inverse (namespace → qualifier) lookup.
type Context struct {
	forward  map[string]string
	inverse  map[string]string
	bindings []Binding
}

// New returns a Context populated with DefaultBindings.
func New() *Context {
	c := &Context{
		forward: make(map[string]string),
		inverse: make(map[string]string),
	}
	c.Populate(DefaultBindings)
	return c
}

// Bind adds a binding to the Context and returns the Context for chaining.
//
// The forward mapping is last-one-wins. The inverse mapping prefers
// "clean" qualifiers: an empty qualifier never displaces an existing one,
// and a qualifier ending in a digit (parser-generated names like "ns1")
// loses to one that does not.
func (c *Context) Bind(qualifier, namespace string) *Context {
	c.bindings = append(c.bindings, Binding{qualifier, namespace})
	c.forward[qualifier] = namespace

	existing, bound := c.inverse[namespace]
	switch {
	case !bound || existing == "":
		c.inverse[namespace] = qualifier
	case qualifier == "":
		// keep existing
	case endsWithDigit(existing):
		c.inverse[namespace] = qualifier
	case endsWithDigit(qualifier):
		// keep existing
	default:
		c.inverse[namespace] = qualifier
	}

	return c
}

// Populate applies bindings in order.
func (c *Context) Populate(bindings []Binding) *Context {
	for _, b := range bindings {
		c.Bind(b.Qualifier, b.Namespace)
	}
	return c
}

// Bindings returns all bindings in the order they were applied, including
// the defaults.
func (c *Context) Bindings() []Binding {
	return c.bindings
}

// Namespace returns the namespace string bound to qualifier, or "" if the
// qualifier is unknown.
func (c *Context) Namespace(qualifier string) string {
	return c.forward[qualifier]
}

// Qualifier returns the qualifier bound to namespace, or "" if the
// namespace is unknown.
func (c *Context) Qualifier(namespace string) string {
	return c.inverse[namespace]
}

// Has reports whether qualifier is bound in this Context.
func (c *Context) Has(qualifier string) bool {
	_, ok := c.forward[qualifier]
	return ok
}

// SplitQName splits identifier into (qualifier, name) if it has the form
// "<qualifier>:<name>" with a qualifier bound in this Context.
func (c *Context) SplitQName(identifier string) (string, string, bool) {
	qualifier, name, found := strings.Cut(identifier, ":")
	if !found {
		return "", "", false
	}
	if _, ok := c.forward[qualifier]; !ok {
		return "", "", false
	}
	return qualifier, name, true
}

// SplitURI splits identifier into (namespace, name) if it starts with a
// namespace bound in this Context.
func (c *Context) SplitURI(identifier string) (string, string, bool) {
	for namespace := range c.inverse {
		if namespace != "" && strings.HasPrefix(identifier, namespace) {
			return namespace, identifier[len(namespace):], true
		}
	}
	return "", "", false
}

// QName expresses identifier as a qname string if it is a qname already or
// a URI convertible through this Context.
func (c *Context) QName(identifier string) (string, bool) {
	if _, _, ok := c.SplitQName(identifier); ok {
		return identifier, true
	}
	if namespace, name, ok := c.SplitURI(identifier); ok {
		return c.inverse[namespace] + ":" + name, true
	}
	return "", false
}

// URIString expresses identifier as a URI string if it is a URI already or
// a qname expandable through this Context.
func (c *Context) URIString(identifier string) (string, bool) {
	if qualifier, name, ok := c.SplitQName(identifier); ok {
		return c.forward[qualifier] + name, true
	}
	if _, _, ok := c.SplitURI(identifier); ok {
		return identifier, true
	}
	return "", false
}

// Format renders identifiers as an angle-bracketed string, using qnames
// where possible. Useful for log and error messages.
func (c *Context) Format(identifiers ...string) string {
	pretty := make([]string, len(identifiers))
	for i, id := range identifiers {
		if qname, ok := c.QName(id); ok {
			pretty[i] = "<" + qname + ">"
		} else {
			pretty[i] = "<" + id + ">"
		}
	}
	if len(pretty) == 1 {
		return pretty[0]
	}
	return fmt.Sprintf("[%s]", strings.Join(pretty, ", "))
}

func endsWithDigit(s string) bool {
	return s != "" && s[len(s)-1] >= '0' && s[len(s)-1] <= '9'
}
