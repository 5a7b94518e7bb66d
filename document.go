// Schema-less document values.
//
// A Document maps field names to JSON-compatible values. Internally every
// cached document is normalized: values are round-tripped through the JSON
// codec so that numbers are float64, nested structs are map[string]any and
// sequences are []any. The cache must equal the decode of the on-disk file
// set at all times, and decode produces exactly these shapes — without
// normalization a freshly inserted int would stop matching its own document
// after a reopen.
package dossier

import json "github.com/goccy/go-json"

// IDField is the reserved field holding the document identifier. It is
// reattached from the filename at load time and never persisted.
const IDField = "id"

// Document is a schema-less record: field names mapped to JSON-compatible
// values plus the reserved string field "id".
type Document map[string]any

// Query selects documents by flat equality on its fields. An empty Query
// matches every document.
type Query map[string]any

// ID returns the document identifier, or "" if unset.
func (d Document) ID() string {
	id, _ := d[IDField].(string)
	return id
}

// body returns a shallow copy of the document without the id field. This
// is what gets persisted and what duplicate detection compares.
func (d Document) body() Document {
	b := make(Document, len(d))
	for field, value := range d {
		if field == IDField {
			continue
		}
		b[field] = value
	}
	return b
}

// clone deep-copies the document. Find and Insert hand out clones so that
// caller mutations never reach the cache behind the collection's back.
func (d Document) clone() Document {
	if d == nil {
		return nil
	}
	c := make(Document, len(d))
	for field, value := range d {
		c[field] = cloneValue(value)
	}
	return c
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return t
	}
}

// normalizeFields round-trips every value through the JSON codec. Applied
// to inserted documents, update patches and queries alike, so both sides
// of every comparison carry the same dynamic types.
func normalizeFields(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for field, value := range in {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		var norm any
		if err := json.Unmarshal(raw, &norm); err != nil {
			return nil, err
		}
		out[field] = norm
	}
	return out, nil
}

func normalizeDoc(d Document) (Document, error) {
	out, err := normalizeFields(d)
	return Document(out), err
}

func normalizeQuery(q Query) (Query, error) {
	out, err := normalizeFields(q)
	return Query(out), err
}
