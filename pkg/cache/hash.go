package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the SHA-256 digest of data as 64 hex characters.
// Target rasters are identified by the hash of their pixel buffer, so
// memoized scores survive re-rendering the same target.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashedKey builds "kind:digest" where the digest covers every component.
// Components are framed as a JSON array before hashing, so two string
// fields cannot collide by concatenation.
func hashedKey(kind string, components ...any) string {
	h := sha256.New()
	// Key options are flat structs of ints and strings; encoding them
	// cannot fail.
	_ = json.NewEncoder(h).Encode(components)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
