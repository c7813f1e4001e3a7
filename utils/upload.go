package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"

	"github.com/nfnt/resize"
)

const (
	maxFileSize  = 10 * 1024 * 1024 // 10MB
	maxImageSize = 1024             // max dimension in px
	imageQuality = 85               // JPEG quality
)

// LoadImageAttachment reads an image file and returns it encoded as a data
// URL, downscaling oversized images first. The result is ready to attach to
// an outgoing turn.
func LoadImageAttachment(path string) (string, error) {
	if err := checkFileSize(path); err != nil {
		return "", err
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	if width > maxImageSize || height > maxImageSize {
		// Downscale the longer edge, keeping the aspect ratio
		if width > height {
			img = resize.Resize(maxImageSize, 0, img, resize.Lanczos3)
		} else {
			img = resize.Resize(0, maxImageSize, img, resize.Lanczos3)
		}
	}

	var buf bytes.Buffer
	mimeType := "image/jpeg"
	switch format {
	case "png":
		mimeType = "image/png"
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: imageQuality})
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	b64 := base64.StdEncoding.EncodeToString(buf.Bytes())
	return fmt.Sprintf("data:%s;base64,%s", mimeType, b64), nil
}

// LoadTextAttachment reads a text file and returns its content, to be
// appended to the pending input.
func LoadTextAttachment(path string) (string, error) {
	if err := checkFileSize(path); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	if !isTextContent(data) {
		return "", fmt.Errorf("file does not look like text: %s", filepath.Base(path))
	}

	return string(data), nil
}

func checkFileSize(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("file not found: %w", err)
	}
	if info.Size() > maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max %d bytes)", info.Size(), maxFileSize)
	}
	return nil
}

// isTextContent checks if content is text
func isTextContent(data []byte) bool {
	// Simple heuristic: check for null bytes
	if len(data) > 512 {
		data = data[:512]
	}
	for _, b := range data {
		if b == 0 {
			return false
		}
	}
	return true
}

// FormatFileSize formats a file size in human-readable form
func FormatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// TruncateForDisplay shortens a string for one-line display
func TruncateForDisplay(s string, max int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max]) + "..."
}
