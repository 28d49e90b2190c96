package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Store persists generated flyer payloads keyed by a prompt digest.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the cached bytes and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
}

// KeyFrom builds a cache key from a model (or endpoint) name and the prompt.
func KeyFrom(model string, prompt string) string {
	h := sha256.Sum256([]byte(model + "\n\n" + prompt))
	return hex.EncodeToString(h[:])
}
