// README: JWT auth middleware; resolves the acting identity for every request.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"drivehire/internal/auth"
	"drivehire/internal/types"
)

const (
	ContextActorID   = "actorId"
	ContextActorRole = "actorRole"
)

func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		claims, err := auth.Parse(secret, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextActorID, claims.ActorID)
		c.Set(ContextActorRole, claims.Role)
		c.Next()
	}
}

func RequireRole(role types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ActorRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func ActorID(c *gin.Context) types.ID {
	if v, ok := c.Get(ContextActorID); ok {
		if id, ok := v.(types.ID); ok {
			return id
		}
	}
	return 0
}

func ActorRole(c *gin.Context) types.Role {
	if v, ok := c.Get(ContextActorRole); ok {
		if role, ok := v.(types.Role); ok {
			return role
		}
	}
	return ""
}
