package service

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/acpt/jobboard-api/internal/core/domain"
	"github.com/acpt/jobboard-api/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

type tokenClaims struct {
	IdentityID int64  `json:"uid"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. It holds no state
// besides the signing key, so it is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces the wall clock used for iat/exp and for expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	s := &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a fresh token for identity. Every call yields a distinct token.
func (s *TokenService) Issue(identity *domain.Identity) (string, error) {
	now := s.now()
	claims := tokenClaims{
		IdentityID: identity.ID,
		Username:   identity.Username,
		Role:       string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(identity.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify reports the token's claims when its signature is ours and it has
// not expired. Empty, malformed, foreign-algorithm and expired tokens all
// report false.
func (s *TokenService) Verify(token string) (*ports.TokenClaims, bool) {
	if token == "" {
		return nil, false
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)

	claims := &tokenClaims{}
	tkn, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, false
	}

	role := domain.Role(claims.Role)
	if !role.Valid() || claims.IdentityID <= 0 {
		return nil, false
	}

	return &ports.TokenClaims{
		IdentityID: claims.IdentityID,
		Username:   claims.Username,
		Role:       role,
	}, true
}

// Valid is Verify without the claims.
func (s *TokenService) Valid(token string) bool {
	_, ok := s.Verify(token)
	return ok
}
