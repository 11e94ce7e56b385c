// Package ticket mints confirmation tickets. A ticket is a bearer credential
// for activating one specific pending account, so it must be unguessable,
// not merely unique.
package ticket

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Size is the entropy of a ticket in bytes. 128 bits keeps accidental
// collisions out of reach; a collision is a correctness bug, not a condition
// to recover from.
const Size = 16

// New returns a fresh hex-encoded ticket. It fails only when the platform
// randomness source does; callers must treat that as fatal for the operation
// rather than fall back to anything predictable.
func New() (string, error) {
	buf := make([]byte, Size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
