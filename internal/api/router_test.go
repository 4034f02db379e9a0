package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/acpt/jobboard-api/internal/api/handler"
	"github.com/acpt/jobboard-api/internal/core/service"
	"github.com/acpt/jobboard-api/internal/infrastructure/db/memory"
	"github.com/acpt/jobboard-api/internal/infrastructure/storage"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
	pngBytes = []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53, 0xDE,
	}
)

type testServer struct {
	e   *echo.Echo
	now time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	srv := &testServer{now: time.Now()}
	log := zerolog.Nop()
	repo := memory.NewIdentityRepository()
	dir := t.TempDir()
	files, err := storage.NewLocalStore(dir, "http://jobs.test")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	tokens := service.NewTokenService("test-secret", time.Hour, service.WithClock(func() time.Time { return srv.now }))

	srv.e = NewRouter(Dependencies{
		Log:         log,
		Credentials: service.NewCredentialService(repo, files, service.LegacyEncoder{}, tokens, log),
		Profiles:    service.NewProfileService(repo, files, log),
		Tokens:      tokens,
		Readiness:   map[string]handler.Pinger{"memory": repo},
		UploadDir:   dir,
		Registerer:  prometheus.NewRegistry(),
	})
	return srv
}

func (s *testServer) do(t *testing.T, method, target, token, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) postJSON(t *testing.T, target, token string, v any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return s.do(t, http.MethodPost, target, token, echo.MIMEApplicationJSON, body)
}

func (s *testServer) postFile(t *testing.T, target, token, fileField, filename string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	part, err := w.CreateFormFile(fileField, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write(data)
	_ = w.Close()
	return s.do(t, http.MethodPost, target, token, w.FormDataContentType(), buf.Bytes())
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return m
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected %d, got %d: %s", code, rec.Code, rec.Body.String())
	}
}

func (s *testServer) login(t *testing.T, username, secret string) (string, int64) {
	t.Helper()
	rec := s.postJSON(t, "/api/user/login", "", map[string]string{"username": username, "secret": secret})
	expectStatus(t, rec, http.StatusOK)
	body := decode(t, rec)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("no token in %v", body)
	}
	return token, int64(body["id"].(float64))
}

// uploadPath turns a public file URL into the router path that serves it.
func uploadPath(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url %q: %v", raw, err)
	}
	return u.Path
}

func TestRouter_JobSeekerRegistersAndReadsDetails(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.postFile(t, "/api/user/register", "", "resume", "alice.pdf", pdfBytes, map[string]string{
		"username": "alice",
		"secret":   "secret1",
		"email":    "alice@example.com",
		"role":     "JOB_SEEKER",
	})
	expectStatus(t, rec, http.StatusCreated)
	if got := decode(t, rec)["status"]; got != "registered" {
		t.Fatalf("unexpected status %v", got)
	}

	token, id := srv.login(t, "alice", "secret1")

	rec = srv.do(t, http.MethodGet, fmt.Sprintf("/api/user/userauth?id=%d", id), token, "", nil)
	expectStatus(t, rec, http.StatusOK)
	details := decode(t, rec)
	resumeURL, _ := details["resumeUrl"].(string)
	if resumeURL == "" {
		t.Fatalf("expected resumeUrl, got %v", details)
	}
	if _, ok := details["companyName"]; ok {
		t.Fatalf("unexpected companyName in %v", details)
	}
	if _, ok := details["secret"]; ok {
		t.Fatalf("secret leaked in %v", details)
	}

	rec = srv.do(t, http.MethodGet, uploadPath(t, resumeURL), "", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if !bytes.Equal(rec.Body.Bytes(), pdfBytes) {
		t.Fatal("served resume differs from upload")
	}
}

func TestRouter_WrongSecretIsUnauthorized(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.postFile(t, "/api/user/register", "", "resume", "alice.pdf", pdfBytes, map[string]string{
		"username": "alice", "password": "secret1", "role": "JOB_SEEKER",
	})
	expectStatus(t, rec, http.StatusCreated)

	for _, secret := range []string{"wrong", "secret1x", ""} {
		rec = srv.postJSON(t, "/api/user/login", "", map[string]string{"username": "alice", "secret": secret})
		expectStatus(t, rec, http.StatusUnauthorized)
		if _, ok := decode(t, rec)["token"]; ok {
			t.Fatalf("token issued for secret %q", secret)
		}
	}

	rec = srv.postJSON(t, "/api/user/login", "", map[string]string{"username": "nobody", "secret": "secret1"})
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestRouter_SecondLogoUploadDeletesFirst(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.postJSON(t, "/api/user/register", "", map[string]string{
		"username": "acme", "secret": "pw", "role": "EMPLOYER", "companyName": "Acme",
	})
	expectStatus(t, rec, http.StatusCreated)
	token, id := srv.login(t, "acme", "pw")
	target := fmt.Sprintf("/api/employers/%d/company-logo", id)

	rec = srv.postFile(t, target, token, "file", "logo1.png", pngBytes, nil)
	expectStatus(t, rec, http.StatusOK)
	first := decode(t, rec)["companyLogoUrl"].(string)

	rec = srv.postFile(t, target, token, "file", "logo2.png", pngBytes, nil)
	expectStatus(t, rec, http.StatusOK)
	second := decode(t, rec)["companyLogoUrl"].(string)

	if first == second {
		t.Fatal("expected a new logo url")
	}
	expectStatus(t, srv.do(t, http.MethodGet, uploadPath(t, first), "", "", nil), http.StatusNotFound)
	expectStatus(t, srv.do(t, http.MethodGet, uploadPath(t, second), "", "", nil), http.StatusOK)

	rec = srv.do(t, http.MethodGet, fmt.Sprintf("/api/user/userauth?id=%d", id), token, "", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decode(t, rec)["companyLogoUrl"]; got != second {
		t.Fatalf("identity points at %v, want %s", got, second)
	}
}

func TestRouter_ExpiredTokenIsUnauthorized(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.postJSON(t, "/api/user/register", "", map[string]string{"username": "tom", "secret": "pw", "role": "TRAINER"})
	expectStatus(t, rec, http.StatusCreated)
	token, id := srv.login(t, "tom", "pw")
	target := fmt.Sprintf("/api/user/userauth?id=%d", id)

	expectStatus(t, srv.do(t, http.MethodGet, target, token, "", nil), http.StatusOK)

	srv.now = srv.now.Add(time.Hour)
	expectStatus(t, srv.do(t, http.MethodGet, target, token, "", nil), http.StatusUnauthorized)

	expectStatus(t, srv.do(t, http.MethodGet, target, "", "", nil), http.StatusUnauthorized)
	expectStatus(t, srv.do(t, http.MethodGet, target, "garbage", "", nil), http.StatusUnauthorized)
}

func TestRouter_RoleSegmentMustMatch(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.postJSON(t, "/api/user/register", "", map[string]string{"username": "tom", "secret": "pw", "role": "TRAINER"})
	expectStatus(t, rec, http.StatusCreated)
	token, id := srv.login(t, "tom", "pw")

	rec = srv.postFile(t, fmt.Sprintf("/api/employers/%d/profile-picture", id), token, "file", "me.png", pngBytes, nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = srv.postFile(t, fmt.Sprintf("/api/trainers/%d/profile-picture", id), token, "file", "me.png", pngBytes, nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(decode(t, rec)["profilePictureUrl"].(string), "/uploads/profile/") {
		t.Fatalf("unexpected picture url: %s", rec.Body.String())
	}

	rec = srv.do(t, http.MethodPut, fmt.Sprintf("/api/trainers/%d", id), token, echo.MIMEApplicationJSON, []byte(`{"bio":"Kubernetes trainer"}`))
	expectStatus(t, rec, http.StatusOK)
	if decode(t, rec)["bio"] != "Kubernetes trainer" {
		t.Fatalf("bio not updated: %s", rec.Body.String())
	}
}

func TestRouter_RegistrationErrors(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.postJSON(t, "/api/user/register", "", map[string]string{"username": "jane", "secret": "pw", "role": "JOB_SEEKER"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = srv.postFile(t, "/api/user/register", "", "resume", "cv.pdf", []byte("not a pdf at all"), map[string]string{
		"username": "jane", "secret": "pw", "role": "JOB_SEEKER",
	})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = srv.postJSON(t, "/api/user/register", "", map[string]string{"username": "x", "secret": "pw", "role": "ADMIN"})
	expectStatus(t, rec, http.StatusBadRequest)

	expectStatus(t, srv.postJSON(t, "/api/user/register", "", map[string]string{"username": "bob", "secret": "pw", "role": "TRAINER"}), http.StatusCreated)
	expectStatus(t, srv.postJSON(t, "/api/user/register", "", map[string]string{"username": "bob", "secret": "pw", "role": "EMPLOYER"}), http.StatusBadRequest)
}

func TestRouter_HealthProbes(t *testing.T) {
	srv := newTestServer(t)

	expectStatus(t, srv.do(t, http.MethodGet, "/health", "", "", nil), http.StatusOK)

	rec := srv.do(t, http.MethodGet, "/health/ready", "", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if decode(t, rec)["status"] != "ok" {
		t.Fatalf("unexpected readiness: %s", rec.Body.String())
	}
}

func TestRouter_UploadsRejectActiveContent(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.postJSON(t, "/api/user/register", "", map[string]string{"username": "tom", "secret": "pw", "role": "TRAINER"})
	expectStatus(t, rec, http.StatusCreated)
	token, id := srv.login(t, "tom", "pw")
	target := fmt.Sprintf("/api/trainers/%d/profile-picture", id)

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(document.domain)</script></svg>`)
	expectStatus(t, srv.postFile(t, target, token, "file", "me.svg", svg, nil), http.StatusBadRequest)
	expectStatus(t, srv.postFile(t, target, token, "file", "me.png", svg, nil), http.StatusBadRequest)

	gifHTML := []byte("GIF89a<html><script>alert(document.domain)</script></html>")
	expectStatus(t, srv.postFile(t, target, token, "file", "pic.html", gifHTML, nil), http.StatusBadRequest)
	expectStatus(t, srv.postFile(t, target, token, "file", "pic.html", pngBytes, nil), http.StatusBadRequest)

	rec = srv.postFile(t, target, token, "file", "me", pngBytes, nil)
	expectStatus(t, rec, http.StatusOK)
	picture := decode(t, rec)["profilePictureUrl"].(string)
	if !strings.HasSuffix(picture, ".png") {
		t.Fatalf("stored name should carry the detected extension: %s", picture)
	}

	rec = srv.do(t, http.MethodGet, uploadPath(t, picture), "", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := rec.Header().Get(echo.HeaderContentType); got != "image/png" {
		t.Fatalf("content type = %q", got)
	}
	if got := rec.Header().Get(echo.HeaderXContentTypeOptions); got != "nosniff" {
		t.Fatalf("missing nosniff, got %q", got)
	}
	if rec.Header().Get(echo.HeaderContentSecurityPolicy) == "" {
		t.Fatal("missing content security policy")
	}
	if got := rec.Header().Get(echo.HeaderContentDisposition); got != "" {
		t.Fatalf("images should render inline, got %q", got)
	}
}

func TestRouter_ResumeServedAsAttachment(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.postFile(t, "/api/user/register", "", "resume", "alice.pdf", pdfBytes, map[string]string{
		"username": "alice", "secret": "pw", "role": "JOB_SEEKER",
	})
	expectStatus(t, rec, http.StatusCreated)
	token, id := srv.login(t, "alice", "pw")

	rec = srv.do(t, http.MethodGet, fmt.Sprintf("/api/user/userauth?id=%d", id), token, "", nil)
	expectStatus(t, rec, http.StatusOK)
	resume := decode(t, rec)["resumeUrl"].(string)

	rec = srv.do(t, http.MethodGet, uploadPath(t, resume), "", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := rec.Header().Get(echo.HeaderContentDisposition); got != "attachment" {
		t.Fatalf("content disposition = %q", got)
	}
	if got := rec.Header().Get(echo.HeaderXContentTypeOptions); got != "nosniff" {
		t.Fatalf("missing nosniff, got %q", got)
	}
}
