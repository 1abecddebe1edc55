package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"rental-backend/internal/auth"
	"rental-backend/internal/models"
	"rental-backend/pkg/utils"
)

type contextKey string

const UserKey contextKey = "user"

// UserLookup loads the current state of the token's user
type UserLookup interface {
	Get(ctx context.Context, id int) (*models.User, error)
}

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	users      UserLookup
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		users:      users,
	}
}

// tokenFromRequest accepts "Authorization: Bearer <token>" or x-auth-token
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get("x-auth-token"))
}

// authenticate resolves the request's user. The role is read from the
// database, not the token, so demotions apply immediately. A missing, invalid
// or orphaned token is ErrUnauthenticated; store failures pass through.
func (m *AuthMiddleware) authenticate(r *http.Request) (*models.User, error) {
	token := tokenFromRequest(r)
	if token == "" {
		return nil, models.ErrUnauthenticated
	}
	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, models.ErrUnauthenticated
	}
	user, err := m.users.Get(r.Context(), claims.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", claims.UserID, err)
	}
	return user, nil
}

func deny(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, models.ErrUnauthenticated) {
		utils.Message(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	utils.Error(w, r, err)
}

// Authenticate is a middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.authenticate(r)
		if err != nil {
			deny(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireRole is a middleware that ensures the user has one of the allowed roles
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				var err error
				if user, err = m.authenticate(r); err != nil {
					deny(w, r, err)
					return
				}
			}

			hasRole := false
			for _, role := range allowedRoles {
				if user.Role == role {
					hasRole = true
					break
				}
			}
			if !hasRole {
				utils.Message(w, http.StatusForbidden, "Forbidden: Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin is a middleware that ensures the user has admin role
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleAdmin)(next)
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	noteUser(ctx, user.ID)
	return context.WithValue(ctx, UserKey, user)
}

// GetUserFromContext returns the authenticated user
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok && user != nil
}

// GetUserIDFromContext extracts user ID from request context
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	user, ok := GetUserFromContext(ctx)
	if !ok {
		return 0, false
	}
	return user.ID, true
}
