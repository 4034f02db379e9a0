package ports

import (
	"context"

	"github.com/acpt/jobboard-api/internal/core/domain"
)

// UserDetails is the uniform, role-agnostic view of an identity. Fields that
// do not belong to the identity's role are nil and omitted from JSON.
type UserDetails struct {
	ID       int64       `json:"id"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	Username string      `json:"username"`

	ProfilePictureURL *string `json:"profilePictureUrl,omitempty"`

	// Job seeker
	ResumeURL *string `json:"resumeUrl,omitempty"`
	About     *string `json:"about,omitempty"`
	Skills    *string `json:"skills,omitempty"`

	// Shared by job seeker and trainer
	Experience *string `json:"experience,omitempty"`

	// Employer
	CompanyName    *string `json:"companyName,omitempty"`
	CompanyLogoURL *string `json:"companyLogoUrl,omitempty"`
	Location       *string `json:"location,omitempty"`
	Overview       *string `json:"overview,omitempty"`
	Industry       *string `json:"industry,omitempty"`
	CompanySize    *string `json:"companySize,omitempty"`
	Website        *string `json:"website,omitempty"`

	// Trainer
	Expertise      *string `json:"expertise,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	Certifications *string `json:"certifications,omitempty"`
	Achievements   *string `json:"achievements,omitempty"`
}

// ProfileFields carries optional role attribute changes. Nil means
// "leave unchanged"; fields foreign to the identity's role are rejected.
type ProfileFields struct {
	About          *string
	Skills         *string
	Experience     *string
	CompanyName    *string
	Location       *string
	Overview       *string
	Industry       *string
	CompanySize    *string
	Website        *string
	Expertise      *string
	Bio            *string
	Certifications *string
	Achievements   *string
}

type ProfileService interface {
	Details(ctx context.Context, id int64) (*UserDetails, error)
	UpdateProfile(ctx context.Context, role domain.Role, id int64, fields ProfileFields) (*UserDetails, error)
	UploadProfilePicture(ctx context.Context, role domain.Role, id int64, file Upload) (*UserDetails, error)
	UploadResume(ctx context.Context, id int64, file Upload) (*UserDetails, error)
	UploadCompanyLogo(ctx context.Context, id int64, file Upload) (*UserDetails, error)
}
