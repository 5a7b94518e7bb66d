// Runtime configuration.
//
// Config follows the zero-value-means-default convention: Open fills in
// every unset field, so Config{} is always valid.
package dossier

import (
	"io"
	"log/slog"
	"time"
)

// Fingerprint algorithm constants for duplicate detection.
const (
	AlgXXHash3 = 1 // Default, fastest
	AlgFNV1a   = 2 // No external dependencies
	AlgBlake2b = 3 // Best distribution
)

// Compression codec constants for document files.
const (
	CompZstd = 1 // Default
	CompLZ4  = 2
)

// DefaultReconcileInterval is how often the background duplicate
// reconciliation pass runs when Config.ReconcileInterval is unset.
const DefaultReconcileInterval = 30 * time.Second

// Config holds database configuration options.
type Config struct {
	FingerprintAlgorithm int           // 1=xxHash3, 2=FNV1a, 3=Blake2b
	Compression          int           // 1=Zstd, 2=LZ4
	ReconcileInterval    time.Duration // Periodic reconcile cadence; negative disables
	Logger               *slog.Logger  // Structured logging; nil discards
}

// withDefaults returns the config with every unset field filled in.
func (c Config) withDefaults() Config {
	if c.FingerprintAlgorithm == 0 {
		c.FingerprintAlgorithm = AlgXXHash3
	}
	if c.Compression == 0 {
		c.Compression = CompZstd
	}
	if c.ReconcileInterval == 0 {
		c.ReconcileInterval = DefaultReconcileInterval
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}
