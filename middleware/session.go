package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	cartSessionCookie = "cart_session"
	cartSessionHeader = "X-Cart-Session"
	cartSessionKey    = "cart_session_id"

	cartSessionMaxAge = 30 * 24 * 60 * 60
)

// CartSessionMiddleware makes sure every request carries a cart session id.
// The id comes from the cart_session cookie or the X-Cart-Session header
// (for clients that don't do cookies); a request with neither gets a fresh
// uuid set as a cookie.
func CartSessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(cartSessionHeader)
		if sessionID == "" {
			if cookie, err := c.Cookie(cartSessionCookie); err == nil {
				sessionID = cookie
			}
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(cartSessionCookie, sessionID, cartSessionMaxAge, "/", "", false, true)
		}

		c.Set(cartSessionKey, sessionID)
		c.Next()
	}
}

// CartSessionID returns the session id attached by CartSessionMiddleware.
func CartSessionID(c *gin.Context) string {
	return c.GetString(cartSessionKey)
}
