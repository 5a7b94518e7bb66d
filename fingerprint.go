// Content fingerprints for duplicate detection.
//
// Two documents are duplicates when their bodies (every field except id)
// have the same canonical serialization: compact JSON with object keys
// sorted, which the codec guarantees for map values. The serialization is
// hashed to 16 hex characters with the algorithm selected by
// Config.FingerprintAlgorithm, so a reconciliation pass keeps one small
// string per distinct body instead of the full serialization.
package dossier

import (
	"fmt"
	"hash/fnv"

	json "github.com/goccy/go-json"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// canonical returns the canonical serialization of the document body.
func canonical(doc Document) ([]byte, error) {
	raw, err := json.Marshal(doc.body())
	if err != nil {
		return nil, fmt.Errorf("canonical: %w", err)
	}
	return raw, nil
}

// fingerprint hashes a canonical body to 16 hex characters using the
// specified algorithm.
func fingerprint(canon []byte, alg int) string {
	switch alg {
	case AlgFNV1a:
		h := fnv.New64a()
		h.Write(canon)
		return fmt.Sprintf("%016x", h.Sum64())
	case AlgBlake2b:
		h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
		h.Write(canon)
		return fmt.Sprintf("%016x", h.Sum(nil))
	default:
		return fmt.Sprintf("%016x", xxh3.Hash(canon))
	}
}
