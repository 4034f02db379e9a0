package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/acpt/jobboard-api/internal/api/middleware"
	"github.com/acpt/jobboard-api/internal/core/domain"
	"github.com/acpt/jobboard-api/internal/core/ports"
)

type stubCredentialService struct {
	registerFn     func(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error)
	authenticateFn func(ctx context.Context, username, secret string) (*domain.Identity, bool, error)
	loginFn        func(ctx context.Context, username, secret string) (string, *domain.Identity, error)
}

func (s *stubCredentialService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	return s.registerFn(ctx, in)
}

func (s *stubCredentialService) Authenticate(ctx context.Context, username, secret string) (*domain.Identity, bool, error) {
	return s.authenticateFn(ctx, username, secret)
}

func (s *stubCredentialService) Login(ctx context.Context, username, secret string) (string, *domain.Identity, error) {
	return s.loginFn(ctx, username, secret)
}

type stubProfileService struct {
	detailsFn       func(ctx context.Context, id int64) (*ports.UserDetails, error)
	updateFn        func(ctx context.Context, role domain.Role, id int64, fields ports.ProfileFields) (*ports.UserDetails, error)
	uploadPictureFn func(ctx context.Context, role domain.Role, id int64, file ports.Upload) (*ports.UserDetails, error)
	uploadResumeFn  func(ctx context.Context, id int64, file ports.Upload) (*ports.UserDetails, error)
	uploadLogoFn    func(ctx context.Context, id int64, file ports.Upload) (*ports.UserDetails, error)
}

func (s *stubProfileService) Details(ctx context.Context, id int64) (*ports.UserDetails, error) {
	return s.detailsFn(ctx, id)
}

func (s *stubProfileService) UpdateProfile(ctx context.Context, role domain.Role, id int64, fields ports.ProfileFields) (*ports.UserDetails, error) {
	return s.updateFn(ctx, role, id, fields)
}

func (s *stubProfileService) UploadProfilePicture(ctx context.Context, role domain.Role, id int64, file ports.Upload) (*ports.UserDetails, error) {
	return s.uploadPictureFn(ctx, role, id, file)
}

func (s *stubProfileService) UploadResume(ctx context.Context, id int64, file ports.Upload) (*ports.UserDetails, error) {
	return s.uploadResumeFn(ctx, id, file)
}

func (s *stubProfileService) UploadCompanyLogo(ctx context.Context, id int64, file ports.Upload) (*ports.UserDetails, error) {
	return s.uploadLogoFn(ctx, id, file)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// multipartBody builds a multipart/form-data request body. files maps a
// field name to a (filename, content) pair.
func multipartBody(t *testing.T, fields map[string]string, files map[string][2]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for field, f := range files {
		part, err := w.CreateFormFile(field, f[0])
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(f[1])); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func withClaims(c echo.Context, id int64, role domain.Role) {
	c.Set(middleware.ClaimsKey, &ports.TokenClaims{IdentityID: id, Username: "someone", Role: role})
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read upload: %v", err)
	}
	return string(b)
}
