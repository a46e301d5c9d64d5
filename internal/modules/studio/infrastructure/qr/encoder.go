package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Encoder renders profile URLs as QR codes.
type Encoder struct {
	level qrcode.RecoveryLevel
}

func NewEncoder() *Encoder {
	return &Encoder{level: qrcode.Medium}
}

// PNG encodes content as a size x size PNG. go-qrcode grows the image when
// size is too small to fit one pixel per module.
func (e *Encoder) PNG(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, e.level, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
