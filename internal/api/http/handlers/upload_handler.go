package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/techassist/support-service/internal/auth"
	"github.com/techassist/support-service/internal/service"
	apperrors "github.com/techassist/support-service/pkg/util"
)

// UploadHandler accepts multipart file uploads.
type UploadHandler struct {
	service *service.UploadService
}

// NewUploadHandler constructs handler.
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{service: uploadService}
}

// Upload handles POST /api/upload.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	if _, ok := auth.UserFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file field required", nil)
	}

	result, err := h.service.Store(header)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
