package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/account-portal/pkg/util/errorutil"
)

const claimsKey = "auth_claims"

// Middleware authenticates API requests from the session cookie and makes
// the verified claims available to downstream handlers.
type Middleware struct {
	tokens  *TokenService
	cookies *CookieManager
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenService, cookies *CookieManager) *Middleware {
	return &Middleware{tokens: tokens, cookies: cookies}
}

// RequireAuth rejects requests without a valid session token. The response
// is a uniform 401 regardless of why verification failed.
func (m *Middleware) RequireAuth(c *fiber.Ctx) error {
	token, ok := m.cookies.Get(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// RequireRole ensures the authenticated caller carries one of the allowed
// role labels. Must run after RequireAuth.
func (m *Middleware) RequireRole(allowed ...string) fiber.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("not authenticated")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[claims.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// ClaimsFromContext retrieves the authenticated session claims.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
