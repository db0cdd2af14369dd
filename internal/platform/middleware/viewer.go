// Package middleware carries the HTTP middleware that resolves the request
// viewer. Classification is deliberately forgiving: a missing, malformed, or
// expired token downgrades the request to guest instead of rejecting it,
// because every surface has a guest rendering.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"wayfarer/internal/viewer"
)

type contextKeyViewer struct{}

// ContextKeyViewer stores the resolved viewer on the request context.
var ContextKeyViewer = contextKeyViewer{}

// GetViewer retrieves the resolved viewer from the context. Requests that
// never passed through the middleware read as guests.
func GetViewer(ctx context.Context) viewer.Viewer {
	v, ok := ctx.Value(ContextKeyViewer).(viewer.Viewer)
	if !ok {
		return viewer.Guest()
	}
	return v
}

// WithViewer injects a viewer into the context. Used by tests and by the
// follow handler's member check.
func WithViewer(ctx context.Context, v viewer.Viewer) context.Context {
	return context.WithValue(ctx, ContextKeyViewer, v)
}

type memberClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// ClassifyViewer resolves each request's viewer from the Authorization
// bearer token and stores it on the context.
func ClassifyViewer(signingKey []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v := viewer.Guest()

			authHeader := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				member, err := classifyToken(token, signingKey)
				if err != nil {
					logger.Debug("viewer token rejected, serving as guest", "err", err)
				} else {
					v = member
				}
			}

			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), v)))
		})
	}
}

func classifyToken(token string, signingKey []byte) (viewer.Viewer, error) {
	claims := &memberClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return signingKey, nil
	})
	if err != nil {
		return viewer.Viewer{}, err
	}
	if !parsed.Valid {
		return viewer.Viewer{}, fmt.Errorf("invalid token")
	}

	memberID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return viewer.Viewer{}, fmt.Errorf("parse member id: %w", err)
	}
	return viewer.Member(memberID, claims.Username), nil
}
