package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"wayfarer/internal/viewer"
)

var testSigningKey = []byte("test-signing-key")

func signToken(t *testing.T, key []byte, subject, username string, expiresAt time.Time) string {
	t.Helper()
	claims := memberClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func classify(t *testing.T, authHeader string) viewer.Viewer {
	t.Helper()

	var got viewer.Viewer
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = GetViewer(r.Context())
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := ClassifyViewer(testSigningKey, logger)

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	mw(next).ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestClassifyViewerMember(t *testing.T) {
	memberID := uuid.New()
	token := signToken(t, testSigningKey, memberID.String(), "wanderer", time.Now().Add(time.Hour))

	v := classify(t, "Bearer "+token)
	if !v.IsMember() {
		t.Fatalf("expected member, got %+v", v)
	}
	if v.MemberID != memberID {
		t.Fatalf("expected member id %s, got %s", memberID, v.MemberID)
	}
	if v.Username != "wanderer" {
		t.Fatalf("expected username wanderer, got %q", v.Username)
	}
}

func TestClassifyViewerDowngrades(t *testing.T) {
	memberID := uuid.New()

	cases := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not a bearer token", header: "Basic abc123"},
		{name: "garbage token", header: "Bearer not.a.jwt"},
		{
			name:   "wrong signing key",
			header: "Bearer " + signToken(t, []byte("other-key"), memberID.String(), "wanderer", time.Now().Add(time.Hour)),
		},
		{
			name:   "expired token",
			header: "Bearer " + signToken(t, testSigningKey, memberID.String(), "wanderer", time.Now().Add(-time.Hour)),
		},
		{
			name:   "subject is not a uuid",
			header: "Bearer " + signToken(t, testSigningKey, "not-a-uuid", "wanderer", time.Now().Add(time.Hour)),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := classify(t, tc.header)
			if v.IsMember() {
				t.Fatalf("expected guest, got %+v", v)
			}
			if v.Mode != viewer.ModeGuest {
				t.Fatalf("expected guest mode, got %q", v.Mode)
			}
		})
	}
}

func TestGetViewerDefaultsToGuest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	v := GetViewer(req.Context())
	if v.IsMember() {
		t.Fatalf("expected guest for bare context, got %+v", v)
	}
}
