package journal

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashArgv computes a deterministic short hash of an argv array. Elements
// are hashed in order with a NUL separator after each one, so element
// boundaries matter: ["ab", "c"] and ["a", "bc"] produce different hashes.
// Returns the first 16 hex characters (64 bits) of the SHA256 sum, which is
// plenty for distinguishing command lines in a local journal.
func HashArgv(argv []string) string {
	h := sha256.New()
	for _, s := range argv {
		h.Write([]byte(s)) // hash.Hash.Write never returns an error
		h.Write([]byte{0}) // separator prevents cross-element collisions
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
