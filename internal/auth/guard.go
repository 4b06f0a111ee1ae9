package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Action is the route guard's terminal decision for a request.
type Action int

const (
	// Pass lets the request through unmodified.
	Pass Action = iota
	// RedirectLogin sends an unauthenticated request off a protected page.
	RedirectLogin
	// RedirectDashboard sends an authenticated request off a guest-only page.
	RedirectDashboard
)

// routeClass is the static classification of a request path.
type routeClass int

const (
	classOpen routeClass = iota
	classProtected
	classGuestOnly
)

// RouteTable classifies paths by prefix into two disjoint sets: protected
// paths require authentication, guest-only paths require its absence.
type RouteTable struct {
	Protected []string
	GuestOnly []string
}

// DefaultRouteTable returns the application's route classification.
func DefaultRouteTable() RouteTable {
	return RouteTable{
		Protected: []string{"/dashboard", "/profile", "/api/protected"},
		GuestOnly: []string{"/login", "/signup"},
	}
}

// RouteGuard intercepts requests and enforces the route classification using
// the session cookie and token verification. It holds no per-request state;
// every request is evaluated independently.
type RouteGuard struct {
	table         RouteTable
	tokens        *TokenService
	cookies       *CookieManager
	logger        *zap.Logger
	loginPath     string
	dashboardPath string
}

// NewRouteGuard builds a guard. An overlap between the protected and
// guest-only sets is a configuration error; it is reported to operators and
// resolved protected-wins (requiring authentication is the safer default).
func NewRouteGuard(table RouteTable, tokens *TokenService, cookies *CookieManager, logger *zap.Logger) *RouteGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, guest := range table.GuestOnly {
		for _, prot := range table.Protected {
			if strings.HasPrefix(guest, prot) || strings.HasPrefix(prot, guest) {
				logger.Error("route classified both protected and guest-only; treating as protected",
					zap.String("protected", prot),
					zap.String("guest_only", guest))
			}
		}
	}
	return &RouteGuard{
		table:         table,
		tokens:        tokens,
		cookies:       cookies,
		logger:        logger,
		loginPath:     "/login",
		dashboardPath: "/dashboard",
	}
}

func (g *RouteGuard) classify(path string) routeClass {
	// Protected is checked first so an overlapping path stays protected.
	for _, prefix := range g.table.Protected {
		if strings.HasPrefix(path, prefix) {
			return classProtected
		}
	}
	for _, prefix := range g.table.GuestOnly {
		if strings.HasPrefix(path, prefix) {
			return classGuestOnly
		}
	}
	return classOpen
}

// Decide is the pure decision core: given a path and the request's
// authentication status, it returns the guard's terminal action.
func (g *RouteGuard) Decide(path string, authenticated bool) Action {
	switch g.classify(path) {
	case classProtected:
		if !authenticated {
			return RedirectLogin
		}
	case classGuestOnly:
		if authenticated {
			return RedirectDashboard
		}
	}
	return Pass
}

// Handle is the Fiber middleware entry point. Authentication status is
// derived solely from the session cookie: absent cookie means logged out,
// present cookie counts only if the token verifies.
func (g *RouteGuard) Handle(c *fiber.Ctx) error {
	authenticated := false
	if token, ok := g.cookies.Get(c); ok {
		_, err := g.tokens.Verify(token)
		authenticated = err == nil
	}

	switch g.Decide(c.Path(), authenticated) {
	case RedirectLogin:
		return c.Redirect(g.loginPath, fiber.StatusTemporaryRedirect)
	case RedirectDashboard:
		return c.Redirect(g.dashboardPath, fiber.StatusTemporaryRedirect)
	}
	return c.Next()
}
