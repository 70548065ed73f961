package handlers

import (
	"fmt"

	"event-ticketing-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// UploadImages stores event images and returns their public URLs
// @Summary Upload event images
// @Tags Uploads
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Up to 5 PNG or JPEG images"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /uploads [post]
func (h *Handler) UploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return utils.Error(c, "Invalid multipart form", fiber.StatusBadRequest)
	}

	files := form.File["files"]
	if len(files) == 0 {
		return utils.Error(c, "No files uploaded", fiber.StatusBadRequest)
	}
	if len(files) > utils.MaxUploadFiles {
		return utils.Error(c, fmt.Sprintf("At most %d files can be uploaded at once", utils.MaxUploadFiles), fiber.StatusBadRequest)
	}

	// Validate everything before writing anything
	for _, file := range files {
		if err := utils.ValidateImageFile(file, h.cfg.MaxUploadSize); err != nil {
			return utils.Error(c, err.Error(), fiber.StatusBadRequest)
		}
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		filename := utils.GenerateUniqueFilename(file.Filename, file.Header.Get("Content-Type"))
		if err := utils.SaveUploadedFile(file, h.cfg.UploadDir, filename); err != nil {
			logrus.WithError(err).WithField("filename", file.Filename).Error("failed to save upload")
			return utils.Error(c, "Failed to save file", fiber.StatusInternalServerError)
		}
		urls = append(urls, utils.PublicURL(h.cfg.PublicBaseURL, filename))
	}

	return utils.Created(c, fiber.Map{"urls": urls}, "Files uploaded successfully")
}
