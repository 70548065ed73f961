package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxUploadFiles = 5

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

// ValidateImageFile accepts PNG and JPEG files no larger than maxSize bytes.
func ValidateImageFile(file *multipart.FileHeader, maxSize int64) error {
	contentType := strings.ToLower(file.Header.Get("Content-Type"))
	if _, ok := allowedImageTypes[contentType]; !ok {
		return fmt.Errorf("file type not allowed: %s", contentType)
	}
	if maxSize > 0 && file.Size > maxSize {
		return fmt.Errorf("file %s exceeds %d bytes", file.Filename, maxSize)
	}
	return nil
}

// GenerateUniqueFilename keeps the original extension when it is one we
// serve, otherwise derives it from the content type.
func GenerateUniqueFilename(originalName, contentType string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		ext = allowedImageTypes[strings.ToLower(contentType)]
	}
	return uuid.New().String() + ext
}

func SaveUploadedFile(file *multipart.FileHeader, destDir, filename string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	destPath := filepath.Join(destDir, filename)
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}

	return nil
}

// PublicURL joins the public base URL with the uploads route for filename.
func PublicURL(baseURL, filename string) string {
	return strings.TrimRight(baseURL, "/") + "/uploads/" + filename
}
