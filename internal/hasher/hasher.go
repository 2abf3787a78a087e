// Package hasher derives and verifies stored password hashes.
package hasher

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeHMAC   = "hmac-sha256"
	SchemeBcrypt = "bcrypt"
)

var ErrEmptyPepper = errors.New("password pepper must not be empty")

// Hasher turns a plaintext password into its stored form and checks candidates against it.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, stored string) bool
}

// New returns the hasher for scheme, keyed by pepper.
func New(scheme, pepper string) (Hasher, error) {
	if pepper == "" {
		return nil, ErrEmptyPepper
	}
	switch scheme {
	case "", SchemeHMAC:
		return &HMACHasher{pepper: []byte(pepper)}, nil
	case SchemeBcrypt:
		return &BcryptHasher{pepper: []byte(pepper), cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown hash scheme %q", scheme)
	}
}

func applyPepper(plaintext string, pepper []byte) []byte {
	mac := hmac.New(sha256.New, pepper)
	mac.Write([]byte(plaintext))
	return mac.Sum(nil)
}

// HMACHasher is deterministic: equal plaintexts under one pepper give equal hashes.
type HMACHasher struct {
	pepper []byte
}

var _ Hasher = (*HMACHasher)(nil)

func (h *HMACHasher) Hash(plaintext string) (string, error) {
	return hex.EncodeToString(applyPepper(plaintext, h.pepper)), nil
}

func (h *HMACHasher) Verify(plaintext, stored string) bool {
	want, err := hex.DecodeString(stored)
	if err != nil {
		return false
	}
	return hmac.Equal(applyPepper(plaintext, h.pepper), want)
}

// BcryptHasher peppers with HMAC-SHA256 and then bcrypts the digest, so a
// fixed 32-byte input always stays under the bcrypt length limit.
type BcryptHasher struct {
	pepper []byte
	cost   int
}

var _ Hasher = (*BcryptHasher)(nil)

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(applyPepper(plaintext, h.pepper), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(bytes), nil
}

func (h *BcryptHasher) Verify(plaintext, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), applyPepper(plaintext, h.pepper)) == nil
}
