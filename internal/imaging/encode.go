package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ImageResult contains a pipeline output encoded as base64 PNG.
type ImageResult struct {
	// Width of the output image in pixels (same as input).
	Width int `json:"width"`

	// Height of the output image in pixels (same as input).
	Height int `json:"height"`

	// Channels is 1 for intensity masks and 3 for color composites.
	Channels int `json:"channels"`

	// ImageBase64 is the image encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`

	// SavedPath is set when the result was also written to disk.
	SavedPath string `json:"saved_path,omitempty"`
}

// EncodeResult encodes a buffer as PNG and wraps it in an ImageResult.
//
// Returns:
//   - *ImageResult: The encoded image with its dimensions.
//   - error: ErrInvalidInput for malformed buffers, or an encoding error.
func EncodeResult(buf *Buffer) (*ImageResult, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, buf.Image(), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &ImageResult{
		Width:       buf.Width,
		Height:      buf.Height,
		Channels:    buf.Channels,
		ImageBase64: base64.StdEncoding.EncodeToString(out.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SaveResult writes a buffer as PNG into dir under a unique name of the form
// "<prefix>-<uuid>.png" and returns the full path. The directory is created
// if it does not exist.
func SaveResult(dir, prefix string, buf *Buffer) (string, error) {
	if err := buf.Validate(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.png", prefix, uuid.NewString()))
	if err := imaging.Save(buf.Image(), path); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return path, nil
}
