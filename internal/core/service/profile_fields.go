package service

import (
	"errors"

	"github.com/acpt/jobboard-api/internal/core/domain"
	"github.com/acpt/jobboard-api/internal/core/ports"
)

func anySet(values ...*string) bool {
	for _, v := range values {
		if v != nil {
			return true
		}
	}
	return false
}

func assign(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// applyProfileFields copies the non-nil fields onto the payload. A field
// that belongs to another role is a validation error, never silently dropped.
func applyProfileFields(profile domain.Profile, f ports.ProfileFields) error {
	switch p := profile.(type) {
	case *domain.JobSeekerProfile:
		if anySet(f.CompanyName, f.Location, f.Overview, f.Industry, f.CompanySize, f.Website,
			f.Expertise, f.Bio, f.Certifications, f.Achievements) {
			return domain.Invalid("fields not applicable to role %s", p.Role())
		}
		assign(&p.About, f.About)
		assign(&p.Skills, f.Skills)
		assign(&p.Experience, f.Experience)
	case *domain.EmployerProfile:
		if anySet(f.About, f.Skills, f.Experience, f.Expertise, f.Bio, f.Certifications, f.Achievements) {
			return domain.Invalid("fields not applicable to role %s", p.Role())
		}
		assign(&p.CompanyName, f.CompanyName)
		assign(&p.Location, f.Location)
		assign(&p.Overview, f.Overview)
		assign(&p.Industry, f.Industry)
		assign(&p.CompanySize, f.CompanySize)
		assign(&p.Website, f.Website)
	case *domain.TrainerProfile:
		if anySet(f.About, f.Skills, f.CompanyName, f.Location, f.Overview, f.Industry, f.CompanySize, f.Website) {
			return domain.Invalid("fields not applicable to role %s", p.Role())
		}
		assign(&p.Expertise, f.Expertise)
		assign(&p.Bio, f.Bio)
		assign(&p.Experience, f.Experience)
		assign(&p.Certifications, f.Certifications)
		assign(&p.Achievements, f.Achievements)
	default:
		return domain.ErrRoleMismatch
	}
	return nil
}

// domainErr reports whether err already carries one of the core error kinds.
func domainErr(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrAuthFailure) ||
		errors.Is(err, domain.ErrStorage)
}
