package util

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string using crypto/rand entropy.
// IDs are sortable by creation time, which keeps list queries stable
// without an extra ordering column.
func NewULID() string {
	return ulid.MustNew(ulid.Now(), ulid.DefaultEntropy()).String()
}

// NewOTPCode returns a numeric one-time code of the given length.
func NewOTPCode(length int) (string, error) {
	const digits = "0123456789"
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = digits[int(buf[i])%len(digits)]
	}
	return string(buf), nil
}

// RandomCode returns a random code of the given length drawn from
// alphabet. Uses crypto/rand so codes are not guessable from each other.
func RandomCode(length int, alphabet string) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf), nil
}
