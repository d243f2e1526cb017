package keygen

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const base62Chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateKey returns prefix followed by 48 random base62 characters;
// used for object-storage keys.
func GenerateKey(prefix string) (string, error) {
	var sb strings.Builder
	sb.WriteString(prefix)

	for i := 0; i < 48; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(base62Chars))))
		if err != nil {
			return "", err
		}
		sb.WriteByte(base62Chars[num.Int64()])
	}
	return sb.String(), nil
}
