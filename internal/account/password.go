package account

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. The salt is used in its hex form as KDF input, so
// stored hashes read "saltHex:keyHex".
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltSize     = 16
	hashSep      = ":"
)

// HashPassword derives a fresh random salt and returns "saltHex:keyHex".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)

	key, err := deriveKey(password, saltHex)
	if err != nil {
		return "", err
	}
	return saltHex + hashSep + hex.EncodeToString(key), nil
}

// VerifyPassword reports whether password matches encoded. Malformed
// encodings never match.
func VerifyPassword(password, encoded string) bool {
	saltHex, keyHex, ok := strings.Cut(encoded, hashSep)
	if !ok {
		return false
	}
	// Anything after a second separator is ignored.
	keyHex, _, _ = strings.Cut(keyHex, hashSep)

	expected, err := hex.DecodeString(keyHex)
	if err != nil || len(expected) == 0 {
		return false
	}

	actual, err := deriveKey(password, saltHex)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(actual, expected) == 1
}

func deriveKey(password, saltHex string) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}
