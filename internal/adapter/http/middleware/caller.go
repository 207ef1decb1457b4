package middleware

import (
	"context"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/trustbook/internal/infrastructure/auth"
	"github.com/iho/trustbook/internal/infrastructure/logger"
)

// UserIDHeader carries the caller when token authentication is disabled.
const UserIDHeader = "X-User-ID"

type contextKey string

const callerContextKey contextKey = "caller_id"

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Caller resolves the calling user and stores it in the request context.
// With a verifier the caller is the subject of a bearer token; without one
// it is read from the X-User-ID header. Requests without a caller are
// rejected with 401. The request-scoped logger carries the caller ID.
func Caller(verifier TokenVerifier, base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			callerID, status, msg := resolveCaller(r, verifier)
			if callerID == "" {
				writeError(w, status, "unauthorized", msg)
				return
			}

			ctx := WithCallerID(r.Context(), callerID)
			ctx = logger.WithRequest(ctx, base, chimiddleware.GetReqID(ctx), callerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveCaller(r *http.Request, verifier TokenVerifier) (string, int, string) {
	if verifier == nil {
		id := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if id == "" {
			return "", http.StatusUnauthorized, "missing " + UserIDHeader + " header"
		}
		return id, 0, ""
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", http.StatusUnauthorized, "missing authorization header"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", http.StatusUnauthorized, "invalid authorization header format"
	}

	claims, err := verifier.Verify(parts[1])
	if err != nil {
		return "", http.StatusUnauthorized, err.Error()
	}

	return claims.UserID(), 0, ""
}

// WithCallerID returns ctx carrying callerID.
func WithCallerID(ctx context.Context, callerID string) context.Context {
	return context.WithValue(ctx, callerContextKey, callerID)
}

// CallerID returns the caller stored by Caller.
func CallerID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(callerContextKey).(string)
	return id, ok && id != ""
}
