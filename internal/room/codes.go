// internal/room/codes.go
package room

import (
	"crypto/rand"
	"strings"
)

// codeAlphabet omits 0/O, 1/I/L and lowercase so codes survive being read
// aloud or typed from a phone screen.
const (
	codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

// NewCode returns a random 6-character room code. Collisions are not
// tracked; creating a room under an existing code simply joins it.
func NewCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}

// NormalizeCode uppercases and trims a client-supplied room code and checks
// it is plausibly a code (1-12 alphanumeric characters).
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 12 {
		return "", ErrBadRoomCode
	}
	for _, c := range code {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return "", ErrBadRoomCode
		}
	}
	return code, nil
}
