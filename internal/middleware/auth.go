package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinichq/clinic-api/internal/model"
	"github.com/clinichq/clinic-api/pkg/auth"
	"github.com/clinichq/clinic-api/pkg/errors"
	"github.com/clinichq/clinic-api/pkg/httputil"
)

const (
	ContextAccountID = "account_id"
	ContextRole      = "role"
)

type AuthMiddleware struct {
	tokens auth.TokenService
}

func NewAuthMiddleware(tokens auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate validates the bearer token and stores the account id and role
// in the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			httputil.RespondWithError(c, errors.NewAuth("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondWithError(c, errors.NewAuth("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.tokens.ValidateAccessToken(parts[1])
		if err != nil {
			httputil.RespondWithError(c, errors.NewAuth("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextRole, model.Role(claims.Role))
		c.Next()
	}
}

// RequireRoles aborts unless the authenticated role is one of the given set.
func (m *AuthMiddleware) RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)
		if !ok {
			httputil.RespondWithError(c, errors.NewAuth("authentication required"))
			c.Abort()
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		httputil.RespondWithError(c, errors.NewPermission("insufficient role"))
		c.Abort()
	}
}

// AccountIDFromContext returns the authenticated account id, if any.
func AccountIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextAccountID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// RoleFromContext returns the authenticated role, if any.
func RoleFromContext(c *gin.Context) (model.Role, bool) {
	value, exists := c.Get(ContextRole)
	if !exists {
		return "", false
	}
	role, ok := value.(model.Role)
	return role, ok
}
