package application

import (
	"context"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	fsdomain "github.com/linkme/cardstudio/internal/modules/filestorage/domain"
	"github.com/linkme/cardstudio/internal/modules/studio/domain"
)

// BlobStore holds the preview images attached to drafts.
type BlobStore interface {
	Store(ctx context.Context, data []byte, contentType, ext string) (fsdomain.Blob, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Release(ctx context.Context, key string) error
}

// QREncoder renders a URL as a PNG QR code of size x size pixels.
type QREncoder interface {
	PNG(content string, size int) ([]byte, error)
}

// CardImages are the decoded images the raster renderer draws, if any.
type CardImages struct {
	Avatar     []byte
	Background []byte
	QR         []byte
}

// CardRasterizer draws a preview as a PNG.
type CardRasterizer interface {
	Render(p domain.CardPreview, images CardImages) ([]byte, error)
}

// ImageFetcher downloads a remote image.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// CurrentUser is the signed-in user's record from the profile backend.
type CurrentUser struct {
	FirstName   string `json:"firstName"`
	SecondName  string `json:"secondName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// ImageUpload is the image file sent with a submission.
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// ProfileBackend is the external profile API.
type ProfileBackend interface {
	CurrentUser(ctx context.Context, token string) (*CurrentUser, error)
	CreateProfile(ctx context.Context, token string, sub domain.Submission, image *ImageUpload) (json.RawMessage, error)
}

// Publisher pushes live events to the clients watching a session.
type Publisher interface {
	SendToSession(sessionID uuid.UUID, message []byte)
	CloseSession(sessionID uuid.UUID)
}
