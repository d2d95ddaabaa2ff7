package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookie names the cookie that keys a browser's display slot.
	SessionCookie = "a2t_session"
	// SessionIDKey is the gin context key holding the session id.
	SessionIDKey = "session_id"
)

// Session assigns every browser a session id cookie. Ids that are not
// UUIDs are replaced rather than trusted.
func Session(maxAge int, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}
		// Refresh on every request so the cookie lives as long as the slot.
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, maxAge, "/", "", secure, true)

		c.Set(SessionIDKey, id)
		c.Next()
	}
}

// SessionID returns the id set by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
