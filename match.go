// Flat-equality query matching.
//
// A query matches a document when every query field is structurally equal
// to the same field of the document. Equality is structural throughout:
// nested maps and sequences compare by content, never by identity. No type
// coercion is applied — both sides are JSON-normalized values, so 1 and
// 1.0 are the same float64, but "1" never equals 1. Fields the query does
// not name are ignored; an empty query matches every document. The id is
// matched like any other field.
package dossier

import "reflect"

// matches reports whether doc satisfies every field of query. Query values
// must already be normalized.
func matches(doc Document, query Query) bool {
	for field, want := range query {
		got, ok := doc[field]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// Find returns every document matching query, in ascending id order.
// Returned documents are deep copies; mutating them does not affect the
// collection.
func (c *Collection) Find(query Query) ([]Document, error) {
	norm, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClosed
	}

	var out []Document
	for _, id := range c.order {
		if doc := c.cache[id]; matches(doc, norm) {
			out = append(out, doc.clone())
		}
	}
	return out, nil
}

// FindOne returns the first document matching query in ascending id order,
// or nil if none match.
func (c *Collection) FindOne(query Query) (Document, error) {
	norm, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClosed
	}

	for _, id := range c.order {
		if doc := c.cache[id]; matches(doc, norm) {
			return doc.clone(), nil
		}
	}
	return nil, nil
}
