package service

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/acpt/jobboard-api/internal/core/domain"
	"github.com/acpt/jobboard-api/internal/core/ports"
)

const (
	SecretEncodingLegacy = "legacy"
	SecretEncodingBcrypt = "bcrypt"
)

// LegacyEncoder reproduces the stored format of existing accounts: the
// secret is base64 of its UTF-8 bytes and a presented secret is re-encoded
// and compared byte for byte.
//
// This is a reversible encoding, not a hash. It exists so accounts created
// by the previous backend keep working; new deployments should select
// BcryptEncoder.
type LegacyEncoder struct{}

func (LegacyEncoder) Encode(secret string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(secret)), nil
}

func (e LegacyEncoder) Matches(encoded, presented string) bool {
	candidate, _ := e.Encode(presented)
	return subtle.ConstantTimeCompare([]byte(encoded), []byte(candidate)) == 1
}

// maxBcryptSecretLen is the longest input bcrypt accepts.
const maxBcryptSecretLen = 72

// BcryptEncoder stores a one-way bcrypt hash. Secrets longer than
// maxBcryptSecretLen bytes are a validation error.
type BcryptEncoder struct {
	Cost int
}

func (e BcryptEncoder) Encode(secret string) (string, error) {
	cost := e.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.Invalid("secret must not exceed %d bytes", maxBcryptSecretLen)
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (BcryptEncoder) Matches(encoded, presented string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(presented)) == nil
}

// NewSecretEncoder selects an encoder by its configuration name.
func NewSecretEncoder(name string) (ports.SecretEncoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SecretEncodingLegacy:
		return LegacyEncoder{}, nil
	case SecretEncodingBcrypt:
		return BcryptEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown secret encoding %q", name)
	}
}
