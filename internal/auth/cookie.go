package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionCookieName is the well-known cookie key carrying the session token.
const SessionCookieName = "token"

// CookieManager owns the transport attributes of the session cookie. It
// treats the token value as an opaque string; claim semantics belong to
// the TokenService.
type CookieManager struct {
	secure bool
}

// NewCookieManager builds a manager. secure should be true in production so
// the cookie is only sent over TLS.
func NewCookieManager(secure bool) *CookieManager {
	return &CookieManager{secure: secure}
}

// Set writes the session cookie on the response: http-only, root path,
// strict same-site, max-age mirroring the token TTL.
func (m *CookieManager) Set(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL.Seconds()),
		Expires:  time.Now().Add(TokenTTL),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// Get reads the session token from the request. A missing cookie is a normal
// logged-out state, reported via the boolean rather than an error.
func (m *CookieManager) Get(c *fiber.Ctx) (string, bool) {
	token := c.Cookies(SessionCookieName)
	return token, token != ""
}

// Clear removes the session cookie by expiring it with the same attribute
// set it was written with. Clearing an absent cookie is a no-op.
func (m *CookieManager) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
