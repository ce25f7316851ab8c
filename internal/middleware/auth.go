package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/config"
)

const (
	ctxUserID   = "userId"
	ctxUsername = "username"
	ctxRoles    = "roles"
)

// Authenticate validates the bearer token and stores the caller's identity
// and roles in the request context. Any defect in the token is the same
// generic 401; no detail leaks.
func Authenticate(settings config.JwtSettings) gin.HandlerFunc {
	keyFunc := func(*jwt.Token) (interface{}, error) {
		return []byte(settings.Key), nil
	}
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(settings.Issuer),
		jwt.WithAudience(settings.Audience),
		jwt.WithExpirationRequired(),
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorized(c)
			return
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), keyFunc, options...)
		if err != nil || !token.Valid {
			unauthorized(c)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c)
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			unauthorized(c)
			return
		}

		username, _ := claims["unique_name"].(string)

		var roles []string
		if raw, ok := claims["roles"].([]interface{}); ok {
			for _, r := range raw {
				if name, ok := r.(string); ok {
					roles = append(roles, name)
				}
			}
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxUsername, username)
		c.Set(ctxRoles, roles)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	Envelope(c, http.StatusUnauthorized, "Unauthorized access",
		"Authentication is required to access this resource.")
	c.Abort()
}

// HasAnyRole is the authorization policy: does the caller's role set
// intersect the required one.
func HasAnyRole(callerRoles []string, required ...string) bool {
	for _, have := range callerRoles {
		for _, want := range required {
			if have == want {
				return true
			}
		}
	}
	return false
}

// RequireRoles gates a route on the policy above.
func RequireRoles(required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !HasAnyRole(CallerRoles(c), required...) {
			Envelope(c, http.StatusForbidden, "Forbidden",
				"You don't have permission to perform this operation.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerID returns the authenticated caller's user id, or uuid.Nil when the
// identity cannot be resolved.
func CallerID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func CallerRoles(c *gin.Context) []string {
	if v, ok := c.Get(ctxRoles); ok {
		if roles, ok := v.([]string); ok {
			return roles
		}
	}
	return nil
}
