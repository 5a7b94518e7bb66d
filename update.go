// Document updates with merge semantics.
//
// Update shallow-merges a patch onto every matching document: patch fields
// overwrite, every other field and the id are preserved. The matches are
// snapshotted before any write — a patch may change the very fields the
// query selected on, and re-evaluating mid-pass would make the result
// depend on iteration position.
package dossier

import "fmt"

// Update merges patch onto every document matching query and persists each
// result individually. The id cannot be patched. Reports whether any
// document matched.
func (c *Collection) Update(query Query, patch Document) (bool, error) {
	normQuery, err := normalizeQuery(query)
	if err != nil {
		return false, fmt.Errorf("update: %w", err)
	}
	normPatch, err := normalizeDoc(patch)
	if err != nil {
		return false, fmt.Errorf("update: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, ErrClosed
	}

	var snapshot []Document
	for _, id := range c.order {
		if doc := c.cache[id]; matches(doc, normQuery) {
			snapshot = append(snapshot, doc)
		}
	}

	for _, doc := range snapshot {
		merged := doc.clone()
		for field, value := range normPatch {
			if field == IDField {
				continue
			}
			merged[field] = value
		}
		if err := c.save(merged); err != nil {
			return false, err
		}
	}

	return len(snapshot) > 0, nil
}
