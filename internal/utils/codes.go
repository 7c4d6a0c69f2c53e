package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateCode returns a random alphanumeric code of the given length.
func GenerateCode(length int) string {
	var sb strings.Builder
	for i := 0; i < length; i++ {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		sb.WriteRune(rune(codeAlphabet[n.Int64()]))
	}
	return sb.String()
}
