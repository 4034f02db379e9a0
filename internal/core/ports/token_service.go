package ports

import "github.com/acpt/jobboard-api/internal/core/domain"

// TokenClaims is the verified content of a bearer token.
type TokenClaims struct {
	IdentityID int64
	Username   string
	Role       domain.Role
}

type TokenIssuer interface {
	Issue(identity *domain.Identity) (string, error)
}

// TokenVerifier never fails loudly: any problem with the token reports false.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, bool)
}
