package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/meraroom-service/internal/auth"
	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"go.uber.org/zap"
)

// TokenParser validates a session token. Satisfied by *auth.TokenManager.
type TokenParser interface {
	Parse(tokenStr string) (*auth.Claims, error)
}

const notAuthorizedMessage = "Not authorized to access this route"

// Authenticate resolves the bearer token into a Principal. Requests without a
// valid token are answered with 401 and never reach next.
func Authenticate(tokens TokenParser, log *logger.Logger) func(http.Handler) http.Handler {
	log = log.Named("AuthMiddleware")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.Fields(header)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Debug("Missing or malformed authorization header", zap.String("path", r.URL.Path))
				writeError(w, http.StatusUnauthorized, notAuthorizedMessage)
				return
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				msg := notAuthorizedMessage
				if errors.Is(err, auth.ErrTokenExpired) {
					msg = "Session expired, please log in again"
				}
				log.Warn("Token validation failed", zap.String("path", r.URL.Path), zap.Error(err))
				writeError(w, http.StatusUnauthorized, msg)
				return
			}

			id, err := domain.ParseID(claims.UserID)
			if err != nil {
				log.Warn("Token carries a malformed user id", zap.String("user_id", claims.UserID))
				writeError(w, http.StatusUnauthorized, notAuthorizedMessage)
				return
			}

			ctx := WithPrincipal(r.Context(), &Principal{ID: id, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles answers 403 unless the authenticated principal has one of roles.
// It must run after Authenticate.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, notAuthorizedMessage)
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "User role "+string(p.Role)+" is not authorized to access this route")
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": msg})
}
