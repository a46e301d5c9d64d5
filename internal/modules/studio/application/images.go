package application

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/linkme/cardstudio/internal/modules/studio/domain"
)

const (
	avatarMaxSide = 500
	jpegQuality   = 80
)

// normalizeAvatar decodes any supported image, fits it into a 500x500 box
// and re-encodes it as JPEG.
func normalizeAvatar(data []byte) ([]byte, error) {
	if err := domain.CheckImageBounds(data); err != nil {
		return nil, err
	}
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageDecode, err)
	}

	dst := imaging.Fit(src, avatarMaxSide, avatarMaxSide, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
