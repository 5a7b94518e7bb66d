// Duplicate reconciliation.
//
// The pass walks the cache in ascending id order and fingerprints each
// document's canonical body. The first document producing a given
// fingerprint survives; every later one is deleted through the same
// primitive all mutations use, so disk and cache stay coherent. The pass
// runs on a fixed interval for the lifetime of the collection and
// synchronously whenever Insert flags a duplicate. With no intervening
// mutation a second consecutive pass removes nothing.
package dossier

import "fmt"

// Reconcile runs a duplicate reconciliation pass immediately, deleting
// every content-duplicate document and keeping the first occurrence in
// ascending id order.
func (c *Collection) Reconcile() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.reconcile()
}

// reconcile performs the pass. The write lock must be held.
func (c *Collection) reconcile() error {
	seen := make(map[string]string, len(c.order)) // fingerprint -> surviving id

	var duplicates []Document
	for _, id := range c.order {
		doc := c.cache[id]
		canon, err := canonical(doc)
		if err != nil {
			return fmt.Errorf("reconcile %s: %w", id, err)
		}
		fp := fingerprint(canon, c.config.FingerprintAlgorithm)
		if _, ok := seen[fp]; ok {
			duplicates = append(duplicates, doc)
			continue
		}
		seen[fp] = id
	}

	for _, doc := range duplicates {
		if err := c.delete(doc); err != nil {
			return err
		}
	}

	if len(duplicates) > 0 {
		c.log.Info("reconcile removed duplicates",
			"removed", len(duplicates),
			"remaining", len(c.cache),
		)
	} else {
		c.log.Debug("reconcile pass clean", "documents", len(c.cache))
	}
	return nil
}
