package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/acpt/jobboard-api/internal/core/domain"
)

// identityRecord maps every role onto one table. The role column selects
// which of the nullable role columns are meaningful; the others stay NULL.
type identityRecord struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"size:255;not null;uniqueIndex"`
	Email    string `gorm:"size:255"`
	Secret   string `gorm:"size:255;not null"`
	Role     string `gorm:"size:32;not null;index"`

	ProfilePictureURL *string
	// job seeker
	ResumeURL *string
	About     *string
	Skills    *string
	// job seeker and trainer
	Experience *string
	// employer
	CompanyName    *string
	CompanyLogoURL *string
	Location       *string
	Overview       *string
	Industry       *string
	CompanySize    *string
	Website        *string
	// trainer
	Expertise      *string
	Bio            *string
	Certifications *string
	Achievements   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (identityRecord) TableName() string { return "identities" }

func str(s string) *string { return &s }

func val(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toRecord(i *domain.Identity) identityRecord {
	rec := identityRecord{
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
		rec.ProfilePictureURL = str(p.ProfilePictureURL)
		rec.ResumeURL = str(p.ResumeURL)
		rec.About = str(p.About)
		rec.Skills = str(p.Skills)
		rec.Experience = str(p.Experience)
	case *domain.EmployerProfile:
		rec.ProfilePictureURL = str(p.ProfilePictureURL)
		rec.CompanyName = str(p.CompanyName)
		rec.CompanyLogoURL = str(p.CompanyLogoURL)
		rec.Location = str(p.Location)
		rec.Overview = str(p.Overview)
		rec.Industry = str(p.Industry)
		rec.CompanySize = str(p.CompanySize)
		rec.Website = str(p.Website)
	case *domain.TrainerProfile:
		rec.ProfilePictureURL = str(p.ProfilePictureURL)
		rec.Expertise = str(p.Expertise)
		rec.Bio = str(p.Bio)
		rec.Experience = str(p.Experience)
		rec.Certifications = str(p.Certifications)
		rec.Achievements = str(p.Achievements)
	}
	return rec
}

func (r identityRecord) toDomain() (*domain.Identity, error) {
	role, err := domain.ParseRole(r.Role)
	if err != nil {
		return nil, fmt.Errorf("identity %d: %w", r.ID, err)
	}

	var profile domain.Profile
	switch role {
	case domain.RoleJobSeeker:
		profile = &domain.JobSeekerProfile{
			ResumeURL:         val(r.ResumeURL),
			ProfilePictureURL: val(r.ProfilePictureURL),
			About:             val(r.About),
			Skills:            val(r.Skills),
			Experience:        val(r.Experience),
		}
	case domain.RoleEmployer:
		profile = &domain.EmployerProfile{
			CompanyName:       val(r.CompanyName),
			CompanyLogoURL:    val(r.CompanyLogoURL),
			ProfilePictureURL: val(r.ProfilePictureURL),
			Location:          val(r.Location),
			Overview:          val(r.Overview),
			Industry:          val(r.Industry),
			CompanySize:       val(r.CompanySize),
			Website:           val(r.Website),
		}
	case domain.RoleTrainer:
		profile = &domain.TrainerProfile{
			Expertise:         val(r.Expertise),
			ProfilePictureURL: val(r.ProfilePictureURL),
			Bio:               val(r.Bio),
			Experience:        val(r.Experience),
			Certifications:    val(r.Certifications),
			Achievements:      val(r.Achievements),
		}
	}

	return &domain.Identity{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		Secret:    r.Secret,
		Role:      role,
		Profile:   profile,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}, nil
}

// IdentityRepository stores identities in a relational database through GORM.
type IdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) FindByID(ctx context.Context, id int64) (*domain.Identity, bool, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *IdentityRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, bool, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *IdentityRepository) first(ctx context.Context, query string, arg any) (*domain.Identity, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec identityRecord
	if err := r.db.WithContext(ctx).Where(query, arg).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("find identity: %w", err)
	}
	identity, err := rec.toDomain()
	if err != nil {
		return nil, false, err
	}
	return identity, true, nil
}

func (r *IdentityRepository) Save(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rec := toRecord(identity)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&identityRecord{}).
			Where("username = ? AND id <> ?", rec.Username, rec.ID).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return domain.ErrUsernameTaken
		}

		if rec.ID == 0 {
			return tx.Create(&rec).Error
		}

		res := tx.Model(&identityRecord{}).Where("id = ?", rec.ID).Select("*").Updates(&rec)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrIdentityNotFound
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken), errors.Is(err, domain.ErrIdentityNotFound):
			return nil, err
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("save identity: %w", err)
	}

	return rec.toDomain()
}

func (r *IdentityRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
