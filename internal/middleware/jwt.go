package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pulse-polls/backend/internal/auth"
	"github.com/pulse-polls/backend/pkg/response"
)

// Context keys for the authenticated user, set by JWT and OptionalJWT.
const (
	ContextUserID    = auth.ContextUserID
	ContextUserRole  = auth.ContextUserRole
	ContextUserEmail = auth.ContextUserEmail
	ContextClaims    = auth.ContextClaims
)

// JWT returns a middleware that validates the bearer token, rejects revoked
// tokens, and sets user claims in context.
func JWT(jwtService *auth.JWTService, revoker auth.TokenRevoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		if revoker != nil {
			revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil || revoked {
				response.Unauthorized(c, "invalid or expired token")
				c.Abort()
				return
			}
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// OptionalJWT sets user claims when a valid bearer token is present but
// lets anonymous requests through. Used on read endpoints that annotate
// responses with ownership (comment can_edit/can_delete).
func OptionalJWT(jwtService *auth.JWTService, revoker auth.TokenRevoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			c.Next()
			return
		}
		if revoker != nil {
			if revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID); err != nil || revoked {
				c.Next()
				return
			}
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}
