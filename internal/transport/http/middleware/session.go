package middleware

import (
	"log"

	"github.com/gin-gonic/gin"

	"tickettrack/internal/session"
	"tickettrack/internal/transport/http/response"
)

const (
	ContextSessionIDKey = "session_id"
	ContextUserIDKey    = "user_id"
	ContextUserNameKey  = "user_name"
	ContextEmailKey     = "email"
)

// SessionAuth rejects requests that do not carry a cookie naming a live
// server-side session. Missing cookie, unknown ID, and expired session all
// get the same 401; the wrapped handler never runs. A surviving session has
// its expiry re-extended on every request.
func SessionAuth(store session.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || sessionID == "" {
			response.Error(c, 401, "Unauthorized")
			c.Abort()
			return
		}

		data, err := store.Get(c.Request.Context(), sessionID)
		if err != nil {
			// Fail closed: an unreachable session store means nobody is
			// authenticated.
			log.Printf("session lookup failed: %v", err)
			response.Error(c, 401, "Unauthorized")
			c.Abort()
			return
		}
		if data == nil {
			response.Error(c, 401, "Unauthorized")
			c.Abort()
			return
		}

		if err := store.Touch(c.Request.Context(), sessionID); err != nil {
			log.Printf("session touch failed: %v", err)
		}

		c.Set(ContextSessionIDKey, sessionID)
		c.Set(ContextUserIDKey, data.UserID)
		c.Set(ContextUserNameKey, data.UserName)
		c.Set(ContextEmailKey, data.Email)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID placed into the context
// by SessionAuth, or false when the request is unauthenticated.
func CurrentUserID(c *gin.Context) (uint, bool) {
	raw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := raw.(uint)
	return id, ok
}
