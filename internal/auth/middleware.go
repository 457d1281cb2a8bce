package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenCookieName is the httpOnly cookie set on login.
const TokenCookieName = "access_token"

const (
	contextKeyUserID    = "user_id"
	contextKeySessionID = "session_id"
)

// UserIDFromContext returns the current user ID set by RequireAuth. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

// SessionIDFromContext returns the session the request was authenticated with.
func SessionIDFromContext(c *gin.Context) string {
	return c.GetString(contextKeySessionID)
}

// TokenFromRequest reads the bearer token from the Authorization header,
// falling back to the access token cookie.
func TokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	token, err := c.Cookie(TokenCookieName)
	if err != nil {
		return ""
	}
	return token
}

// RequireAuth returns a middleware that checks for a valid access token whose
// session is still live and sets the current user ID in context.
// If missing or invalid, responds with 401.
func RequireAuth(tokens *Tokens, sessions *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := TokenFromRequest(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		userID, ok, err := sessions.GetUserID(c.Request.Context(), claims.SessionID)
		if err != nil {
			log.Printf("auth: session lookup: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !ok || userID != claims.UserID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Set(contextKeySessionID, claims.SessionID)
		c.Next()
	}
}
