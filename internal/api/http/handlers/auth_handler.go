package handlers

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-portal/internal/api/dto"
	"github.com/spec-kit/account-portal/internal/auth"
	"github.com/spec-kit/account-portal/internal/domain"
	"github.com/spec-kit/account-portal/internal/ratelimit"
	"github.com/spec-kit/account-portal/internal/service"
	apperrors "github.com/spec-kit/account-portal/pkg/util/errorutil"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 8

// AuthHandler exposes signup, login, logout and "who am I" endpoints.
type AuthHandler struct {
	accounts *service.AccountService
	cookies  *auth.CookieManager
	limiter  *ratelimit.LoginLimiter
}

// NewAuthHandler constructs handler.
func NewAuthHandler(accounts *service.AccountService, cookies *auth.CookieManager, limiter *ratelimit.LoginLimiter) *AuthHandler {
	return &AuthHandler{accounts: accounts, cookies: cookies, limiter: limiter}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}
	if !emailPattern.MatchString(req.Email) {
		return apperrors.NewValidationError("invalid email format", nil)
	}
	if len(req.Password) < minPasswordLength {
		return apperrors.NewValidationError("password must be at least 8 characters long", nil)
	}

	user, err := h.accounts.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return apperrors.NewConflict("email is already registered", nil)
		}
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "user registered successfully",
		"user":    userResponse(user),
	})
}

// Login handles POST /api/auth/login. Unknown email and wrong password yield
// the same response.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	if !h.limiter.Allow(c.Context(), req.Email, c.IP()) {
		return apperrors.NewTooManyRequests("too many login attempts")
	}

	user, token, err := h.accounts.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		return apperrors.MapError(err)
	}

	h.cookies.Set(c, token)

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userResponse(user),
	})
}

// Logout handles POST and GET /api/auth/logout. Always succeeds, even with
// no session to clear.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.cookies.Clear(c)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "logged out successfully",
	})
}

// Me handles GET /api/auth/me. Runs behind RequireAuth; identity comes from
// the verified token claims, not a database read, so a stale token reflects
// the profile at issuance time.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user": dto.UserResponse{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
			Role:  claims.Role,
		},
	})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     string(user.Role),
		PhotoURL: user.PhotoURL,
	}
}
