// Package idgen produces short, URL-safe snippet identifiers.
package idgen

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	DefaultLength = 8
	MaxLength     = 32 // hex digits in a UUID
)

// Generator returns a new candidate identifier. Uniqueness is not promised:
// the store's key constraint decides, and the caller retries on collision.
type Generator func() (string, error)

// UUIDHex returns a Generator yielding the first n lowercase hex characters of
// a random version-4 UUID. Eight characters give 2^32 possible ids.
func UUIDHex(n int) (Generator, error) {
	if n < 1 || n > MaxLength {
		return nil, fmt.Errorf("idgen: length must be between 1 and %d, got %d", MaxLength, n)
	}
	return func() (string, error) {
		u, err := uuid.NewRandom()
		if err != nil {
			return "", fmt.Errorf("idgen: reading random bytes: %w", err)
		}
		return strings.ReplaceAll(u.String(), "-", "")[:n], nil
	}, nil
}

// Sequence returns a Generator that hands out ids in order and then fails.
// Tests use it to force collisions deterministically. Safe for concurrent use.
func Sequence(ids ...string) Generator {
	var (
		mu   sync.Mutex
		next int
	)
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if next >= len(ids) {
			return "", fmt.Errorf("idgen: sequence exhausted after %d ids", len(ids))
		}
		id := ids[next]
		next++
		return id, nil
	}
}
