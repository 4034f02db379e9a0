package service

import (
	"github.com/acpt/jobboard-api/internal/core/domain"
	"github.com/acpt/jobboard-api/internal/core/ports"
)

func ptr(s string) *string { return &s }

// ProjectProfile flattens an identity of any role into UserDetails. The
// base fields are always set; of the role fields, exactly those of the
// identity's own role are set. The secret is never copied.
func ProjectProfile(identity *domain.Identity) ports.UserDetails {
	d := ports.UserDetails{
		ID:       identity.ID,
		Email:    identity.Email,
		Role:     identity.Role,
		Username: identity.Username,
	}

	switch identity.Role {
	case domain.RoleJobSeeker:
		p, ok := identity.JobSeeker()
		if !ok {
			return d
		}
		d.ResumeURL = ptr(p.ResumeURL)
		d.ProfilePictureURL = ptr(p.ProfilePictureURL)
		d.About = ptr(p.About)
		d.Skills = ptr(p.Skills)
		d.Experience = ptr(p.Experience)
	case domain.RoleEmployer:
		p, ok := identity.Employer()
		if !ok {
			return d
		}
		d.CompanyName = ptr(p.CompanyName)
		d.CompanyLogoURL = ptr(p.CompanyLogoURL)
		d.ProfilePictureURL = ptr(p.ProfilePictureURL)
		d.Location = ptr(p.Location)
		d.Overview = ptr(p.Overview)
		d.Industry = ptr(p.Industry)
		d.CompanySize = ptr(p.CompanySize)
		d.Website = ptr(p.Website)
	case domain.RoleTrainer:
		p, ok := identity.Trainer()
		if !ok {
			return d
		}
		d.Expertise = ptr(p.Expertise)
		d.ProfilePictureURL = ptr(p.ProfilePictureURL)
		d.Bio = ptr(p.Bio)
		d.Experience = ptr(p.Experience)
		d.Certifications = ptr(p.Certifications)
		d.Achievements = ptr(p.Achievements)
	}
	return d
}
