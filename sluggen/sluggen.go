// Package sluggen generates random short IDs.
// Generators should be safe for concurrent use.
package sluggen

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// Encoding names accepted by New.
const (
	EncodingHex    = "hex"
	EncodingBase62 = "base62"
)

var errNonPositiveLength = errors.New("length must be positive")

// Generator generates short IDs of a requested length.
type Generator interface {
	Generate(length int) (string, error)
}

// New returns the generator for the named encoding.
func New(encoding string) (Generator, error) {
	switch encoding {
	case "", EncodingHex:
		return NewHex(), nil
	case EncodingBase62:
		return NewBase62(), nil
	default:
		return nil, fmt.Errorf("unknown short id encoding %q", encoding)
	}
}

type hexGenerator struct{}

// NewHex returns a generator that hex-encodes random bytes.
// An 8-character ID is backed by 4 random bytes.
func NewHex() Generator {
	return hexGenerator{}
}

func (hexGenerator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", errNonPositiveLength
	}

	b := make([]byte, (length+1)/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b)[:length], nil
}

type base62Generator struct{}

// NewBase62 returns a generator drawing from [0-9A-Za-z].
func NewBase62() Generator {
	return base62Generator{}
}

func (base62Generator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", errNonPositiveLength
	}

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	for i := range b {
		b[i] = base62Chars[int(b[i])%len(base62Chars)]
	}
	return string(b), nil
}
