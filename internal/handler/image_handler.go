package handler

import (
	"io"

	"learn-assist/internal/domain"
	"learn-assist/internal/middleware"
	"learn-assist/internal/service"

	"github.com/gofiber/fiber/v2"
)

const imageFormField = "image"

type ImageHandler struct {
	service service.ImageService
}

func NewImageHandler(service service.ImageService) *ImageHandler {
	return &ImageHandler{service: service}
}

// SelectImage godoc
// @Summary Select an image
// @Description Stores the image as the session's selection and returns its preview URL. Only image files are accepted.
// @Tags images
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Success 200 {object} dto.ImageSelectionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 415 {object} middleware.ErrorResponse "Not an image"
// @Router /images [post]
func (h *ImageHandler) SelectImage(c *fiber.Ctx) error {
	fh, err := c.FormFile(imageFormField)
	if err != nil {
		return domain.ValidationErrors{domain.NewMissingFieldError(imageFormField)}
	}
	f, err := fh.Open()
	if err != nil {
		return domain.NewInternalError("failed to open uploaded file", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.NewInternalError("failed to read uploaded file", err)
	}

	selection, err := h.service.SelectImage(c.UserContext(), middleware.SessionID(c), fh.Filename, fh.Header.Get(fiber.HeaderContentType), data)
	if err != nil {
		return err
	}
	return c.JSON(selection)
}

// GetSelection godoc
// @Summary Current selection
// @Tags images
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.ImageSelectionResponse
// @Router /images [get]
func (h *ImageHandler) GetSelection(c *fiber.Ctx) error {
	selection, err := h.service.GetSelection(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(selection)
}

// Upload godoc
// @Summary Upload the selected image
// @Description Forwards the selected image to the file upload service
// @Tags images
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UploadResponse
// @Failure 409 {object} middleware.ErrorResponse "Upload already in progress"
// @Failure 502 {object} middleware.ErrorResponse "Upload service failed"
// @Router /images/upload [post]
func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	result, err := h.service.Upload(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Reset godoc
// @Summary Clear the selection
// @Tags images
// @Security ApiKeyAuth
// @Success 204
// @Router /images [delete]
func (h *ImageHandler) Reset(c *fiber.Ctx) error {
	if err := h.service.Reset(c.UserContext(), middleware.SessionID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Preview godoc
// @Summary Preview bytes
// @Tags images
// @Security ApiKeyAuth
// @Produce image/png,image/jpeg,image/gif,image/webp
// @Param id path string true "Preview id"
// @Success 200 {file} binary
// @Failure 404 {object} middleware.ErrorResponse
// @Router /images/preview/{id} [get]
func (h *ImageHandler) Preview(c *fiber.Ctx) error {
	contentType, data, err := h.service.Preview(c.UserContext(), middleware.SessionID(c), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	return c.Send(data)
}

