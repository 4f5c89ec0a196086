package middleware

import (
	"context"
	"net/http"
	"strings"

	"face-animation/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID  = "user_id"
	ContextRole    = "user_role"
	ContextTokenID = "token_id"
	ContextToken   = "token"
)

// RevocationChecker reports whether a session was revoked by logout, or cut
// off with every other session of its user by a suspension.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, claims *jwt.Claims) (bool, error)
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
	c.Abort()
}

// AuthMiddleware accepts only an "Authorization: Bearer <token>" header.
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return SessionMiddleware(jwtService, nil, "")
}

// SessionMiddleware authenticates from the session cookie, falling back to a
// bearer header. An empty cookieName disables cookie lookup.
func SessionMiddleware(jwtService *jwt.Service, revoked RevocationChecker, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if cookieName != "" {
			if v, err := c.Cookie(cookieName); err == nil {
				token = v
			}
		}

		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				unauthorized(c, "Unauthorized")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				unauthorized(c, "Invalid authorization header format")
				return
			}
			token = parts[1]
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			unauthorized(c, "Invalid or expired session")
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Session check failed"})
				c.Abort()
				return
			}
			if isRevoked {
				unauthorized(c, "Session has ended")
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextTokenID, claims.ID)
		c.Set(ContextToken, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose session role is not one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		unauthorized(c, "Unauthorized")
	}
}

// OptionalSession fills the session context from a valid cookie and lets every
// request through.
func OptionalSession(jwtService *jwt.Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			if claims, err := jwtService.ValidateToken(token); err == nil {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextRole, claims.Role)
				c.Set(ContextTokenID, claims.ID)
				c.Set(ContextToken, claims)
			}
		}
		c.Next()
	}
}

// SessionClaims returns the claims stored by the session middlewares.
func SessionClaims(c *gin.Context) *jwt.Claims {
	if v, ok := c.Get(ContextToken); ok {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}
