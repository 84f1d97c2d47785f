package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"interview-prep-subscription/internal/infra/logging"
)

type ctxKey string

const ctxAuthUserID ctxKey = "auth_user_id"

// authUserID returns the identity established by a verified bearer token,
// or "" when the request is anonymous.
func authUserID(ctx context.Context) string {
	if v := ctx.Value(ctxAuthUserID); v != nil {
		return v.(string)
	}
	return ""
}

// authMiddleware verifies an optional Bearer JWT (HS256) and puts its subject
// claim into the context. A verified identity takes precedence over any
// userId in the request body; a present-but-invalid token is rejected
// outright. Requests without a token pass through, the handlers then fall
// back to the body field.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || len(s.authSecret) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeError(w, http.StatusUnauthorized, "Malformed authorization header")
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.authSecret, nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			writeError(w, http.StatusUnauthorized, "Invalid session token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxAuthUserID, claims.Subject)
		ctx = logging.WithUserID(ctx, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
