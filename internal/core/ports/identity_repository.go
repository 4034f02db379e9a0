package ports

import (
	"context"

	"github.com/acpt/jobboard-api/internal/core/domain"
)

// IdentityRepository persists identities of every role in one id space.
//
// Lookups report absence through the bool result; the error result is
// reserved for storage failures.
type IdentityRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Identity, bool, error)
	// FindByUsername is an exact, case-sensitive match.
	FindByUsername(ctx context.Context, username string) (*domain.Identity, bool, error)
	// Save inserts when identity.ID is zero and updates otherwise. It returns
	// domain.ErrUsernameTaken on a duplicate username and
	// domain.ErrIdentityNotFound when updating an unknown id.
	Save(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	Ping(ctx context.Context) error
}
