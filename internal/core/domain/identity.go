package domain

import (
	"strings"
	"time"
)

// Role selects which profile payload an identity carries.
type Role string

const (
	RoleJobSeeker Role = "JOB_SEEKER"
	RoleEmployer  Role = "EMPLOYER"
	RoleTrainer   Role = "TRAINER"
)

// ParseRole accepts the canonical tag case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleEmployer, RoleTrainer:
		return true
	}
	return false
}

// Profile is the role-specific payload of an identity. It is sealed: only
// the three profile types of this package implement it.
type Profile interface {
	Role() Role
	sealed()
}

// JobSeekerProfile holds the attributes only a job seeker has.
type JobSeekerProfile struct {
	ResumeURL         string `json:"resumeUrl" bson:"resume_url"`
	ProfilePictureURL string `json:"profilePictureUrl" bson:"profile_picture_url"`
	About             string `json:"about" bson:"about"`
	Skills            string `json:"skills" bson:"skills"`
	Experience        string `json:"experience" bson:"experience"`
}

// EmployerProfile holds the attributes only an employer has.
type EmployerProfile struct {
	CompanyName       string `json:"companyName" bson:"company_name"`
	CompanyLogoURL    string `json:"companyLogoUrl" bson:"company_logo_url"`
	ProfilePictureURL string `json:"profilePictureUrl" bson:"profile_picture_url"`
	Location          string `json:"location" bson:"location"`
	Overview          string `json:"overview" bson:"overview"`
	Industry          string `json:"industry" bson:"industry"`
	CompanySize       string `json:"companySize" bson:"company_size"`
	Website           string `json:"website" bson:"website"`
}

// TrainerProfile holds the attributes only a trainer has.
type TrainerProfile struct {
	Expertise         string `json:"expertise" bson:"expertise"`
	ProfilePictureURL string `json:"profilePictureUrl" bson:"profile_picture_url"`
	Bio               string `json:"bio" bson:"bio"`
	Experience        string `json:"experience" bson:"experience"`
	Certifications    string `json:"certifications" bson:"certifications"`
	Achievements      string `json:"achievements" bson:"achievements"`
}

func (*JobSeekerProfile) Role() Role { return RoleJobSeeker }
func (*EmployerProfile) Role() Role  { return RoleEmployer }
func (*TrainerProfile) Role() Role   { return RoleTrainer }

func (*JobSeekerProfile) sealed() {}
func (*EmployerProfile) sealed()  {}
func (*TrainerProfile) sealed()   {}

// EmptyProfile returns a zero payload for role.
func EmptyProfile(role Role) (Profile, error) {
	switch role {
	case RoleJobSeeker:
		return &JobSeekerProfile{}, nil
	case RoleEmployer:
		return &EmployerProfile{}, nil
	case RoleTrainer:
		return &TrainerProfile{}, nil
	}
	return nil, ErrUnknownRole
}

// Identity is the base user record. ID is shared across all roles and is
// zero until the identity is first persisted.
type Identity struct {
	ID        int64
	Username  string
	Email     string
	Secret    string // encoded; never the clear value
	Role      Role
	Profile   Profile
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewIdentity builds an unsaved identity and rejects a payload whose role
// disagrees with the tag.
func NewIdentity(username, email, encodedSecret string, role Role, profile Profile) (*Identity, error) {
	id := &Identity{
		Username: username,
		Email:    email,
		Secret:   encodedSecret,
		Role:     role,
		Profile:  profile,
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return id, nil
}

// Validate checks the tag/payload agreement.
func (i *Identity) Validate() error {
	if !i.Role.Valid() {
		return ErrUnknownRole
	}
	if i.Profile == nil || i.Profile.Role() != i.Role {
		return ErrRoleMismatch
	}
	return nil
}

func (i *Identity) JobSeeker() (*JobSeekerProfile, bool) {
	p, ok := i.Profile.(*JobSeekerProfile)
	return p, ok && p != nil
}

func (i *Identity) Employer() (*EmployerProfile, bool) {
	p, ok := i.Profile.(*EmployerProfile)
	return p, ok && p != nil
}

func (i *Identity) Trainer() (*TrainerProfile, bool) {
	p, ok := i.Profile.(*TrainerProfile)
	return p, ok && p != nil
}

// ProfilePictureURL returns the picture reference of whichever role is set.
func (i *Identity) ProfilePictureURL() string {
	switch p := i.Profile.(type) {
	case *JobSeekerProfile:
		return p.ProfilePictureURL
	case *EmployerProfile:
		return p.ProfilePictureURL
	case *TrainerProfile:
		return p.ProfilePictureURL
	}
	return ""
}

// SetProfilePictureURL updates the picture reference on the active payload.
func (i *Identity) SetProfilePictureURL(url string) {
	switch p := i.Profile.(type) {
	case *JobSeekerProfile:
		p.ProfilePictureURL = url
	case *EmployerProfile:
		p.ProfilePictureURL = url
	case *TrainerProfile:
		p.ProfilePictureURL = url
	}
}

// Clone returns a deep copy, payload included.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	switch p := i.Profile.(type) {
	case *JobSeekerProfile:
		cp := *p
		c.Profile = &cp
	case *EmployerProfile:
		cp := *p
		c.Profile = &cp
	case *TrainerProfile:
		cp := *p
		c.Profile = &cp
	}
	return &c
}
