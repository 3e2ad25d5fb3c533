package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/security"
	"github.com/josepguedes/Projeto-2/internal/services"
	"github.com/josepguedes/Projeto-2/pkg/errors"
	"github.com/josepguedes/Projeto-2/pkg/logger"
)

const actorKey = "actor"

// ActorFrom returns the authenticated caller stored by Auth or OptionalAuth.
func ActorFrom(c *gin.Context) (services.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return services.Actor{}, false
	}
	actor, ok := v.(services.Actor)
	return actor, ok
}

// bearerToken reads the Authorization header. Browsers cannot set headers on
// a websocket handshake, so a token query parameter is accepted too.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if header == "" {
		return c.Query("token")
	}
	return ""
}

func authenticate(c *gin.Context, secret string) (services.Actor, error) {
	raw := bearerToken(c)
	if raw == "" {
		return services.Actor{}, errors.Unauthorized("missing bearer token")
	}
	claims, err := security.ValidateJWT(raw, secret)
	if err != nil {
		return services.Actor{}, errors.Unauthorized("invalid or expired token")
	}
	if claims.UserID == 0 {
		return services.Actor{}, errors.Unauthorized("invalid token claims")
	}
	role := claims.Role
	if role != models.RoleAdmin {
		role = models.RoleUser
	}
	return services.Actor{UserID: claims.UserID, Role: role}, nil
}

// Auth rejects requests without a valid JWT.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := authenticate(c, secret)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present. Anything
// else is served as anonymous.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, err := authenticate(c, secret); err == nil {
			c.Set(actorKey, actor)
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			abortWithError(c, errors.Unauthorized("missing bearer token"))
			return
		}
		if !actor.IsAdmin() {
			abortWithError(c, errors.Forbidden("admin access only"))
			return
		}
		c.Next()
	}
}

// AdminBlockLookup finds a user's active admin block, or nil.
type AdminBlockLookup interface {
	ActiveAdminBlock(ctx context.Context, userID uint) (*models.AdminBlock, error)
}

// BlockGuard stops admin-blocked users from changing anything. Reads stay
// open so a blocked user can still see why.
func BlockGuard(blocks AdminBlockLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok || !isMutation(c.Request.Method) {
			c.Next()
			return
		}
		block, err := blocks.ActiveAdminBlock(c.Request.Context(), actor.UserID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if block != nil {
			abortWithError(c, errors.Forbidden(services.BlockedMessage(block)))
			return
		}
		c.Next()
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func abortWithError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"message": errors.PublicMessage(err)})
}
