package utils

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// TokenGenerator produces opaque, unpredictable secrets.
type TokenGenerator interface {
	Generate() (string, error)
}

// TokenGeneratorFunc adapts a plain function to TokenGenerator.
type TokenGeneratorFunc func() (string, error)

func (f TokenGeneratorFunc) Generate() (string, error) {
	return f()
}

// SessionKeyGenerator returns 40 hex characters of crypto/rand output.
type SessionKeyGenerator struct{}

func (SessionKeyGenerator) Generate() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// ResetTokenGenerator returns random (version 4) UUID strings.
type ResetTokenGenerator struct{}

func (ResetTokenGenerator) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
