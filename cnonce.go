package httpauth

import (
	"crypto/rand"
	"fmt"
)

// newCnonce returns a fresh 32-character lowercase hex client nonce.
// The source implementation seeded a cnonce from stack garbage, the
// time of day, and the process/thread id when no CSPRNG was present;
// this rewrite drops that fallback entirely and requires
// crypto/rand, matching the teacher's own session.CNonce which already
// used crypto/rand rather than anything weaker.
func newCnonce() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("httpauth: generating cnonce: %w", err)
	}
	return fmt.Sprintf("%x", buf[:]), nil
}
