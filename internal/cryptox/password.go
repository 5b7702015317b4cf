// Package cryptox hashes and verifies account passwords.
//
// Hashes use the "hexhash.salt" textual form: the scrypt key of the password
// (N=16384, r=8, p=1, 64 bytes) hex-encoded, a dot, then the hex salt that was
// fed to scrypt as-is. Stored values without a dot are legacy plaintext.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/promptvault/internal/common"
	"golang.org/x/crypto/scrypt"
)

const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	keyLength    = 64
	saltByteSize = 16
)

var ErrMalformedHash = errors.New("malformed password hash")

// makeSalt is replaced in tests for deterministic output.
var makeSalt = func() (string, error) {
	return common.MakeRandHexString(saltByteSize)
}

// HashPassword returns the stored form of password with a fresh random salt.
func HashPassword(password string) (string, error) {
	salt, err := makeSalt()
	if err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}
	key, err := deriveKey(password, salt)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key) + "." + salt, nil
}

// IsHashed reports whether stored is in hash form rather than plaintext.
func IsHashed(stored string) bool {
	return strings.Contains(stored, ".")
}

// ComparePassword checks supplied against a stored hash or legacy plaintext.
func ComparePassword(stored, supplied string) (bool, error) {
	if !IsHashed(stored) {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1, nil
	}

	hashHex, salt, _ := strings.Cut(stored, ".")
	want, err := hex.DecodeString(hashHex)
	if err != nil || len(want) != keyLength || salt == "" {
		return false, ErrMalformedHash
	}

	got, err := deriveKey(supplied, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

func deriveKey(password, salt string) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return nil, fmt.Errorf("scrypt: %w", err)
	}
	return key, nil
}
