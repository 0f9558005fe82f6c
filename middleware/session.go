package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// SessionCookie names the cookie carrying the studio session id.
	SessionCookie = "studio_session"
	// SessionKey is the Locals key holding the studio session id.
	SessionKey = "studio_session"
	// AccessTokenCookie is the cookie the Supabase client stores its access token in.
	AccessTokenCookie = "sb-access-token"
)

// StudioSession assigns every browser a session id, reusing the cookie when it
// carries a valid one.
func StudioSession(maxAge time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(SessionCookie)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   int(maxAge.Seconds()),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		c.Locals(SessionKey, id)
		return c.Next()
	}
}

// SessionID returns the studio session id assigned by StudioSession.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(SessionKey).(string)
	return id
}

// AccessToken returns the caller's Supabase access token from the
// Authorization header or, failing that, the access token cookie.
func AccessToken(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		const prefix = "bearer "
		if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
			return strings.TrimSpace(h[len(prefix):])
		}
	}
	return c.Cookies(AccessTokenCookie)
}
