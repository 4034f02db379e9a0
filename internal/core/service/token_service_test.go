package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/acpt/jobboard-api/internal/core/domain"
)

func testIdentity() *domain.Identity {
	return &domain.Identity{ID: 42, Username: "alice", Role: domain.RoleEmployer, Profile: &domain.EmployerProfile{}}
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	claims, ok := svc.Verify(token)
	if !ok {
		t.Fatal("expected freshly issued token to verify")
	}
	if claims.IdentityID != 42 || claims.Username != "alice" || claims.Role != domain.RoleEmployer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenService_DefaultTTL(t *testing.T) {
	if got := NewTokenService("secret", 0).TTL(); got != 24*time.Hour {
		t.Fatalf("expected 24h default, got %v", got)
	}
}

func TestTokenService_Expiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	svc := NewTokenService("secret", time.Hour, WithClock(clock))

	token, err := svc.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	now = now.Add(time.Hour - time.Second)
	if !svc.Valid(token) {
		t.Fatal("expected token to be valid just before expiry")
	}

	now = now.Add(time.Second)
	if svc.Valid(token) {
		t.Fatal("expected token to be invalid at expiry")
	}
}

func TestTokenService_InvalidTokens(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	other := NewTokenService("other-secret", time.Hour)

	foreign, err := other.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"uid": 42, "role": "EMPLOYER", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": 42, "role": "EMPLOYER",
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": 42, "role": "ADMIN", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}

	valid, _ := svc.Issue(testIdentity())
	tampered := valid[:len(valid)-2] + strings.Repeat("A", 2)
	if tampered == valid {
		tampered = valid[:len(valid)-2] + "BB"
	}

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "garbage"},
		{"three dots", "a.b.c"},
		{"wrong secret", foreign},
		{"alg none", noneToken},
		{"missing exp", noExp},
		{"unknown role", badRole},
		{"tampered signature", tampered},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := svc.Verify(tc.token); ok {
				t.Fatalf("expected %s token to be rejected", tc.name)
			}
		})
	}
}

func TestTokenService_IssueIsDistinct(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService("secret", time.Hour, WithClock(func() time.Time { return now }))

	a, _ := svc.Issue(testIdentity())
	b, _ := svc.Issue(testIdentity())
	if a == b {
		t.Fatal("expected two issues in the same instant to differ")
	}
	if !svc.Valid(a) || !svc.Valid(b) {
		t.Fatal("expected both tokens to verify")
	}
}
