package template

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	// Decoders for image templates.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// imageExtensions are the file types accepted as image templates.
var imageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"bmp":  true,
	"tiff": true,
	"tif":  true,
}

// IsImageExtension reports whether ext (with or without the dot) is an image template type.
func IsImageExtension(ext string) bool {
	return imageExtensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
}

// DecodeImage decodes base64 image content and returns the image and its format name.
func DecodeImage(b64 string) (image.Image, string, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return nil, "", fmt.Errorf("decode image data: %w", err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}
