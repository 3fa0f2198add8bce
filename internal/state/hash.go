package state

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// HashSource returns the hex BLAKE3 digest used as the cache key of a source.
func HashSource(source string) string {
	h := blake3.New()
	_, _ = h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil))
}
