package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/acpt/jobboard-api/internal/api/metrics"
	"github.com/acpt/jobboard-api/internal/core/domain"
	"github.com/acpt/jobboard-api/internal/core/ports"
)

// RoleSegments maps the URL segment of each role's resource to its role.
var RoleSegments = map[string]domain.Role{
	"job-seekers": domain.RoleJobSeeker,
	"employers":   domain.RoleEmployer,
	"trainers":    domain.RoleTrainer,
}

// ProfileHandler serves role profile updates and file uploads.
type ProfileHandler struct {
	profiles ports.ProfileService
}

func NewProfileHandler(profiles ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Update returns the handler for PUT /api/{role}/:id.
//
// @Summary      Update role profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        role  path      string                true  "job-seekers, employers or trainers"
// @Param        id    path      int                   true  "Identity id"
// @Param        body  body      profileFieldsRequest  true  "Fields to change"
// @Success      200   {object}  ports.UserDetails
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/{role}/{id} [put]
func (h *ProfileHandler) Update(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := ctxClaims(c); err != nil {
			return err
		}
		id, err := parseID(c.Param("id"))
		if err != nil {
			return err
		}

		var req profileFieldsRequest
		if err := c.Bind(&req); err != nil {
			return domain.Invalid("invalid payload")
		}

		details, err := h.profiles.UpdateProfile(c.Request().Context(), role, id, req.toPorts())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, details)
	}
}

// UploadProfilePicture returns the handler for POST /api/{role}/:id/profile-picture.
//
// @Summary      Upload profile picture
// @Description  Replaces the current picture; the previous file is deleted.
// @Tags         profiles
// @Accept       mpfd
// @Produce      json
// @Security     TokenAuth
// @Param        role  path      string  true  "job-seekers, employers or trainers"
// @Param        id    path      int     true  "Identity id"
// @Param        file  formData  file    true  "Image file"
// @Success      200   {object}  ports.UserDetails
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/{role}/{id}/profile-picture [post]
func (h *ProfileHandler) UploadProfilePicture(role domain.Role) echo.HandlerFunc {
	return h.upload(ports.FileKindProfilePicture, func(ctx context.Context, id int64, file ports.Upload) (*ports.UserDetails, error) {
		return h.profiles.UploadProfilePicture(ctx, role, id, file)
	})
}

// UploadResume handles POST /api/job-seekers/:id/upload-cv.
//
// @Summary      Upload resume
// @Tags         profiles
// @Accept       mpfd
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      int   true  "Job seeker id"
// @Param        file  formData  file  true  "PDF file"
// @Success      200   {object}  ports.UserDetails
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/job-seekers/{id}/upload-cv [post]
func (h *ProfileHandler) UploadResume(c echo.Context) error {
	return h.upload(ports.FileKindResume, h.profiles.UploadResume)(c)
}

// UploadCompanyLogo handles POST /api/employers/:id/company-logo.
//
// @Summary      Upload company logo
// @Tags         profiles
// @Accept       mpfd
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      int   true  "Employer id"
// @Param        file  formData  file  true  "Image file"
// @Success      200   {object}  ports.UserDetails
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/employers/{id}/company-logo [post]
func (h *ProfileHandler) UploadCompanyLogo(c echo.Context) error {
	return h.upload(ports.FileKindCompanyLogo, h.profiles.UploadCompanyLogo)(c)
}

type uploadFunc func(ctx context.Context, id int64, file ports.Upload) (*ports.UserDetails, error)

func (h *ProfileHandler) upload(kind ports.FileKind, fn uploadFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := ctxClaims(c); err != nil {
			return err
		}
		id, err := parseID(c.Param("id"))
		if err != nil {
			return err
		}

		fh, err := formFile(c, "file")
		if err != nil {
			return err
		}
		file, f, err := openUpload(fh)
		if err != nil {
			return err
		}
		defer f.Close()

		details, err := fn(c.Request().Context(), id, file)
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				metrics.UploadsTotal.WithLabelValues(string(kind), "rejected").Inc()
			}
			return err
		}

		metrics.UploadsTotal.WithLabelValues(string(kind), "stored").Inc()
		return c.JSON(http.StatusOK, details)
	}
}
