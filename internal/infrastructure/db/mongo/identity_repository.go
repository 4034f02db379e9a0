package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/acpt/jobboard-api/internal/core/domain"
)

const (
	collectionIdentities = "identities"
	collectionCounters   = "counters"

	// identitySequence is the counters document shared by every role.
	identitySequence = "identity_id"
)

type IdentityRepository struct {
	db       *mongo.Database
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{
		db:       db,
		col:      db.Collection(collectionIdentities),
		counters: db.Collection(collectionCounters),
	}
}

// identityDocument stores the role discriminator next to exactly one
// embedded role sub-document.
type identityDocument struct {
	ID        int64                    `bson:"_id"`
	Username  string                   `bson:"username"`
	Email     string                   `bson:"email"`
	Secret    string                   `bson:"secret"`
	Role      string                   `bson:"role"`
	JobSeeker *domain.JobSeekerProfile `bson:"job_seeker,omitempty"`
	Employer  *domain.EmployerProfile  `bson:"employer,omitempty"`
	Trainer   *domain.TrainerProfile   `bson:"trainer,omitempty"`
	CreatedAt time.Time                `bson:"created_at"`
	UpdatedAt time.Time                `bson:"updated_at"`
}

type counterDocument struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func toDocument(i *domain.Identity) identityDocument {
	doc := identityDocument{
		ID:        i.ID,
		Username:  i.Username,
		Email:     i.Email,
		Secret:    i.Secret,
		Role:      string(i.Role),
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
	switch p := i.Profile.(type) {
	case *domain.JobSeekerProfile:
		doc.JobSeeker = p
	case *domain.EmployerProfile:
		doc.Employer = p
	case *domain.TrainerProfile:
		doc.Trainer = p
	}
	return doc
}

func (d identityDocument) toDomain() (*domain.Identity, error) {
	role, err := domain.ParseRole(d.Role)
	if err != nil {
		return nil, fmt.Errorf("identity %d: %w", d.ID, err)
	}

	var profile domain.Profile
	switch role {
	case domain.RoleJobSeeker:
		if d.JobSeeker == nil {
			d.JobSeeker = &domain.JobSeekerProfile{}
		}
		profile = d.JobSeeker
	case domain.RoleEmployer:
		if d.Employer == nil {
			d.Employer = &domain.EmployerProfile{}
		}
		profile = d.Employer
	case domain.RoleTrainer:
		if d.Trainer == nil {
			d.Trainer = &domain.TrainerProfile{}
		}
		profile = d.Trainer
	}

	return &domain.Identity{
		ID:        d.ID,
		Username:  d.Username,
		Email:     d.Email,
		Secret:    d.Secret,
		Role:      role,
		Profile:   profile,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

func (r *IdentityRepository) FindByID(ctx context.Context, id int64) (*domain.Identity, bool, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *IdentityRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, bool, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *IdentityRepository) findOne(ctx context.Context, filter bson.M) (*domain.Identity, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc identityDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, err
	}
	identity, err := doc.toDomain()
	if err != nil {
		return nil, false, err
	}
	return identity, true, nil
}

// Save inserts a new identity under the next shared id or replaces an
// existing one.
func (r *IdentityRepository) Save(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	saved := identity.Clone()
	if saved.ID == 0 {
		id, err := r.nextID(ctx)
		if err != nil {
			return nil, fmt.Errorf("allocate identity id: %w", err)
		}
		saved.ID = id
		if _, err := r.col.InsertOne(ctx, toDocument(saved)); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrUsernameTaken
			}
			return nil, fmt.Errorf("insert identity: %w", err)
		}
		return saved, nil
	}

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": saved.ID}, toDocument(saved))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("replace identity: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrIdentityNotFound
	}
	return saved, nil
}

// nextID atomically increments the shared identity sequence.
func (r *IdentityRepository) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c counterDocument
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": identitySequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, err
	}
	return c.Seq, nil
}

func (r *IdentityRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.db.Client().Ping(ctx, nil)
}

// EnsureIndexes creates the unique username index.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_username"),
		},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
