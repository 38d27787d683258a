package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

// DefaultSize is the image edge in pixels used when size is zero.
const DefaultSize = 256

var (
	ErrEmptyContent = errors.New("qrcode: content is empty")
	ErrInvalidSize  = errors.New("qrcode: size must be positive")
)

// Generate encodes content as a PNG QR code with medium error correction.
// A zero size selects DefaultSize.
func Generate(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size == 0 {
		size = DefaultSize
	}
	if size < 0 {
		return nil, ErrInvalidSize
	}

	png, err := qr.Encode(content, qr.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode: %w", err)
	}
	return png, nil
}

// GenerateBase64Image returns the QR code as a data URI for an <img> src.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
