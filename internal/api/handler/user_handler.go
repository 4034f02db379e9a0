package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/acpt/jobboard-api/internal/api/metrics"
	"github.com/acpt/jobboard-api/internal/core/domain"
	"github.com/acpt/jobboard-api/internal/core/ports"
)

// UserHandler serves registration, login and the authenticated detail lookup.
type UserHandler struct {
	credentials ports.CredentialService
	profiles    ports.ProfileService
}

func NewUserHandler(credentials ports.CredentialService, profiles ports.ProfileService) *UserHandler {
	return &UserHandler{credentials: credentials, profiles: profiles}
}

// Register creates a new identity of any role.
//
// @Summary      Register a new user
// @Description  Accepts JSON, or multipart/form-data when a job seeker attaches the required PDF resume.
// @Tags         user
// @Accept       json,mpfd
// @Produce      json
// @Param        body    body      registerRequest  false  "Registration details (JSON)"
// @Param        resume  formData  file             false  "Resume PDF (required for JOB_SEEKER)"
// @Success      201     {object}  registerResponse
// @Failure      400     {object}  errorResponse
// @Failure      500     {object}  errorResponse
// @Router       /api/user/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var (
		req    registerRequest
		resume *ports.Upload
	)

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return domain.Invalid("invalid multipart payload")
		}
		req = registerRequest{
			Username:             c.FormValue("username"),
			Email:                c.FormValue("email"),
			Secret:               c.FormValue("secret"),
			Password:             c.FormValue("password"),
			Role:                 c.FormValue("role"),
			profileFieldsRequest: formProfileFields(form),
		}
		if files := form.File["resume"]; len(files) > 0 {
			u, f, err := openUpload(files[0])
			if err != nil {
				return err
			}
			defer f.Close()
			resume = &u
		}
	} else if err := c.Bind(&req); err != nil {
		return domain.Invalid("invalid payload")
	}

	if err := c.Validate(&req); err != nil {
		return domain.Invalid("%s", err.Error())
	}

	identity, err := h.credentials.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Secret:   req.secret(),
		Role:     req.Role,
		Profile:  req.profileFieldsRequest.toPorts(),
		Resume:   resume,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(identity.Role)).Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		ID:     identity.ID,
		Email:  identity.Email,
		Status: "registered",
	})
}

// Login authenticates a user and returns a token.
//
// @Summary      Login
// @Description  The returned token is sent back verbatim in the Authorization header.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/user/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalid("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.Invalid("%s", err.Error())
	}

	token, identity, err := h.credentials.Login(c.Request().Context(), req.Username, req.secret())
	if err != nil {
		if errors.Is(err, domain.ErrAuthFailure) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Token:    token,
		ID:       identity.ID,
		Username: identity.Username,
		Email:    identity.Email,
		Role:     identity.Role,
	})
}

// UserAuth returns the uniform details of the identity with the given id.
//
// @Summary      Get user details
// @Tags         user
// @Produce      json
// @Security     TokenAuth
// @Param        id   query     int  true  "Identity id"
// @Success      200  {object}  ports.UserDetails
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/user/userauth [get]
func (h *UserHandler) UserAuth(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}
	id, err := parseID(c.QueryParam("id"))
	if err != nil {
		return err
	}

	details, err := h.profiles.Details(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}
