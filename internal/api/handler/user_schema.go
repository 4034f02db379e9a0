package handler

import (
	"mime/multipart"

	"github.com/acpt/jobboard-api/internal/core/domain"
	"github.com/acpt/jobboard-api/internal/core/ports"
)

// --- Request / Response types ---

// profileFieldsRequest holds the role attributes a client may set. Absent
// keys stay nil and leave the stored value unchanged.
type profileFieldsRequest struct {
	About          *string `json:"about,omitempty"`
	Skills         *string `json:"skills,omitempty"`
	Experience     *string `json:"experience,omitempty"`
	CompanyName    *string `json:"companyName,omitempty"`
	Location       *string `json:"location,omitempty"`
	Overview       *string `json:"overview,omitempty"`
	Industry       *string `json:"industry,omitempty"`
	CompanySize    *string `json:"companySize,omitempty"`
	Website        *string `json:"website,omitempty"`
	Expertise      *string `json:"expertise,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	Certifications *string `json:"certifications,omitempty"`
	Achievements   *string `json:"achievements,omitempty"`
}

func (r profileFieldsRequest) toPorts() ports.ProfileFields {
	return ports.ProfileFields{
		About:          r.About,
		Skills:         r.Skills,
		Experience:     r.Experience,
		CompanyName:    r.CompanyName,
		Location:       r.Location,
		Overview:       r.Overview,
		Industry:       r.Industry,
		CompanySize:    r.CompanySize,
		Website:        r.Website,
		Expertise:      r.Expertise,
		Bio:            r.Bio,
		Certifications: r.Certifications,
		Achievements:   r.Achievements,
	}
}

// formProfileFields reads role attributes from a multipart form. Only keys
// present in the form are set.
func formProfileFields(form *multipart.Form) profileFieldsRequest {
	get := func(key string) *string {
		if vs, ok := form.Value[key]; ok && len(vs) > 0 {
			v := vs[0]
			return &v
		}
		return nil
	}
	return profileFieldsRequest{
		About:          get("about"),
		Skills:         get("skills"),
		Experience:     get("experience"),
		CompanyName:    get("companyName"),
		Location:       get("location"),
		Overview:       get("overview"),
		Industry:       get("industry"),
		CompanySize:    get("companySize"),
		Website:        get("website"),
		Expertise:      get("expertise"),
		Bio:            get("bio"),
		Certifications: get("certifications"),
		Achievements:   get("achievements"),
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Secret   string `json:"secret"`
	// Password is the name older clients send the secret under.
	Password string `json:"password"`
	Role     string `json:"role"     validate:"required"`
	profileFieldsRequest
}

func (r registerRequest) secret() string {
	if r.Secret != "" {
		return r.Secret
	}
	return r.Password
}

type registerResponse struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Secret   string `json:"secret"`
	Password string `json:"password"`
}

func (r loginRequest) secret() string {
	if r.Secret != "" {
		return r.Secret
	}
	return r.Password
}

type loginResponse struct {
	Token    string      `json:"token"`
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}
