// Document removal.
package dossier

import "fmt"

// Remove deletes every document matching query, file and cache entry both.
// Reports whether any document matched.
func (c *Collection) Remove(query Query) (bool, error) {
	norm, err := normalizeQuery(query)
	if err != nil {
		return false, fmt.Errorf("remove: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, ErrClosed
	}

	// Snapshot first: delete mutates the order index being iterated.
	var snapshot []Document
	for _, id := range c.order {
		if doc := c.cache[id]; matches(doc, norm) {
			snapshot = append(snapshot, doc)
		}
	}

	for _, doc := range snapshot {
		if err := c.delete(doc); err != nil {
			return false, err
		}
	}

	return len(snapshot) > 0, nil
}
