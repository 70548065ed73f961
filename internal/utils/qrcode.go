package utils

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// GenerateQRCodePNG renders content as a PNG QR code.
func GenerateQRCodePNG(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("QR content cannot be empty")
	}

	png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
