package domain

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// MaxImageSide bounds either dimension of an uploaded or fetched image.
// Decoders allocate the full pixel buffer from the header, so the header is
// checked before any pixel data is read.
const MaxImageSide = 8000

// CheckImageBounds reads only the image header and rejects anything that is
// not a known format or is larger than MaxImageSide in either direction.
func CheckImageBounds(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	if cfg.Width > MaxImageSide || cfg.Height > MaxImageSide {
		return fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrImageDecode, cfg.Width, cfg.Height, MaxImageSide, MaxImageSide)
	}
	return nil
}
