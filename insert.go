// Document insertion with duplicate detection.
//
// Insert first checks whether the input duplicates an existing document:
// every non-id field of the input must be structurally equal to the same
// field of some cached document — the input may be a field subset of a
// larger document and still count. A duplicate triggers a reconciliation
// pass and the caller gets the input back unchanged: no id assigned,
// nothing persisted. The asymmetry is part of the contract — a successful
// insert returns a document carrying an id, a duplicate-flagged insert
// returns the bare input.
package dossier

import "fmt"

// Insert stores a document and returns the stored copy, id included. A
// caller-supplied non-empty id is reused verbatim; otherwise one is
// assigned. If the input duplicates an existing document the input is
// returned unchanged and nothing is persisted.
func (c *Collection) Insert(doc Document) (Document, error) {
	norm, err := normalizeDoc(doc)
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	if c.isDuplicate(norm) {
		if err := c.reconcile(); err != nil {
			return nil, fmt.Errorf("insert: %w", err)
		}
		return doc, nil
	}

	if norm.ID() == "" {
		norm[IDField] = newID()
	}
	if !validID(norm.ID()) {
		return nil, fmt.Errorf("insert %q: %w", norm.ID(), ErrInvalidID)
	}

	if err := c.save(norm); err != nil {
		return nil, err
	}
	return norm.clone(), nil
}

// isDuplicate reports whether some cached document agrees with every
// non-id field of doc. An input with no fields beyond its id duplicates
// any document at all. The lock must be held.
func (c *Collection) isDuplicate(doc Document) bool {
	probe := Query(doc.body())
	for _, id := range c.order {
		if matches(c.cache[id], probe) {
			return true
		}
	}
	return false
}
