// internal/room/codes.go
package room

import (
	"crypto/rand"
	"math/big"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// newRoomCode returns a short human-shareable code, e.g. "K27PQZ". Codes are
// drawn from crypto/rand so concurrent creations can't race a predictable
// sequence; uniqueness is still checked against the registry by the caller.
func newRoomCode() string {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the process is in a bad way; the
			// zero index keeps the code well-formed regardless.
			n = big.NewInt(0)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf)
}
