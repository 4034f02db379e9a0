package ports

import (
	"context"

	"github.com/acpt/jobboard-api/internal/core/domain"
)

// RegisterInput carries everything needed to create an identity.
type RegisterInput struct {
	Username string
	Email    string
	Secret   string
	Role     string
	Profile  ProfileFields
	// Resume is mandatory for job seekers and ignored for other roles.
	Resume *Upload
}

// SecretEncoder turns a clear secret into its stored form and checks a
// presented secret against it.
type SecretEncoder interface {
	Encode(secret string) (string, error)
	Matches(encoded, presented string) bool
}

type CredentialService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Identity, error)
	// Authenticate returns the identity only when the secret matches; a
	// wrong username or secret yields (nil, false, nil).
	Authenticate(ctx context.Context, username, secret string) (*domain.Identity, bool, error)
	Login(ctx context.Context, username, secret string) (string, *domain.Identity, error)
}
