package memory

import (
	"context"
	"sync"

	"github.com/acpt/jobboard-api/internal/core/domain"
)

// IdentityRepository keeps identities in process memory. It is meant for
// local runs and tests; nothing survives a restart.
type IdentityRepository struct {
	mu         sync.RWMutex
	byID       map[int64]*domain.Identity
	byUsername map[string]int64
	lastID     int64
}

func NewIdentityRepository() *IdentityRepository {
	return &IdentityRepository{
		byID:       make(map[int64]*domain.Identity),
		byUsername: make(map[string]int64),
	}
}

func (r *IdentityRepository) FindByID(_ context.Context, id int64) (*domain.Identity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return nil, false, nil
	}
	return i.Clone(), true, nil
}

func (r *IdentityRepository) FindByUsername(_ context.Context, username string) (*domain.Identity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, false, nil
	}
	return r.byID[id].Clone(), true, nil
}

func (r *IdentityRepository) Save(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, taken := r.byUsername[identity.Username]; taken && owner != identity.ID {
		return nil, domain.ErrUsernameTaken
	}

	saved := identity.Clone()
	if saved.ID == 0 {
		r.lastID++
		saved.ID = r.lastID
	} else {
		prev, ok := r.byID[saved.ID]
		if !ok {
			return nil, domain.ErrIdentityNotFound
		}
		delete(r.byUsername, prev.Username)
	}

	r.byID[saved.ID] = saved
	r.byUsername[saved.Username] = saved.ID
	return saved.Clone(), nil
}

func (r *IdentityRepository) Ping(context.Context) error { return nil }
