// Package media validates, resizes and stores uploaded images.
package media

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	apperrors "storefront/internal/errors"
)

// ThumbnailSize is the edge length every stored image is resized to.
const ThumbnailSize = 200

var allowedFormats = map[string]imaging.Format{
	"png": imaging.PNG,
	"jpg": imaging.JPEG,
}

var contentTypes = map[string]string{
	"png": "image/png",
	"jpg": "image/jpeg",
}

// Extension returns the lower-cased extension of filename, or ErrFileExtension when it is
// not png or jpg.
func Extension(filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := allowedFormats[ext]; !ok {
		return "", fmt.Errorf("%w: %q", apperrors.ErrFileExtension, ext)
	}
	return ext, nil
}

// RandomName returns a collision-resistant file name with ext.
func RandomName(ext string) string {
	return uuid.NewString() + "." + ext
}

// ContentType maps an allowed extension to its MIME type.
func ContentType(ext string) string {
	return contentTypes[ext]
}

// Thumbnail decodes data, resizes it to ThumbnailSize x ThumbnailSize and re-encodes it in
// the format named by ext.
func Thumbnail(data []byte, ext string) ([]byte, error) {
	format, ok := allowedFormats[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrFileExtension, ext)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", apperrors.ErrValidation, err)
	}

	resized := imaging.Resize(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
