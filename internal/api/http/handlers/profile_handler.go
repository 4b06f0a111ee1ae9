package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-portal/internal/api/dto"
	"github.com/spec-kit/account-portal/internal/auth"
	"github.com/spec-kit/account-portal/internal/config"
	"github.com/spec-kit/account-portal/internal/service"
	apperrors "github.com/spec-kit/account-portal/pkg/util/errorutil"
)

// photoExtensions maps accepted upload content types to file extensions.
var photoExtensions = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
}

// ProfileHandler exposes authenticated profile editing endpoints.
type ProfileHandler struct {
	accounts *service.AccountService
	maxBytes int64
}

// NewProfileHandler constructs handler.
func NewProfileHandler(accounts *service.AccountService, uploads config.UploadConfig) *ProfileHandler {
	return &ProfileHandler{accounts: accounts, maxBytes: uploads.MaxBytes}
}

// Update handles POST /api/profile/update.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name is required", nil)
	}

	user, err := h.accounts.UpdateName(c.Context(), claims.Subject, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userResponse(user),
	})
}

// Upload handles POST /api/profile/upload: a multipart photo field, JPEG,
// PNG or GIF, capped in size.
func (h *ProfileHandler) Upload(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return apperrors.NewValidationError("no file uploaded", nil)
	}

	ext, allowed := photoExtensions[fileHeader.Header.Get("Content-Type")]
	if !allowed {
		return apperrors.NewValidationError("invalid file type. allowed types: JPEG, PNG, GIF", nil)
	}
	if fileHeader.Size > h.maxBytes {
		return apperrors.NewValidationError("file too large. maximum size: 5MB", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.MapError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		return apperrors.MapError(err)
	}
	if int64(len(data)) > h.maxBytes {
		return apperrors.NewValidationError("file too large. maximum size: 5MB", nil)
	}

	user, err := h.accounts.AttachPhoto(c.Context(), claims.Subject, ext, data)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userResponse(user),
	})
}
