package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/linkme/cardstudio/internal/modules/studio/application"
	"github.com/linkme/cardstudio/internal/modules/studio/domain"
)

const maxResponseBytes = 1 << 20

// Client talks to the LinkMe profile API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// CurrentUser fetches the signed-in user's record from GET /api/me.
func (c *Client) CurrentUser(ctx context.Context, token string) (*application.CurrentUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/me", nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req, token)
	if err != nil {
		return nil, err
	}

	var user application.CurrentUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("%w: invalid /api/me response: %v", domain.ErrBackendUnavailable, err)
	}
	return &user, nil
}

// CreateProfile posts a submission to POST /api/profiles as multipart form
// data: the JSON payload plus the optional image file.
func (c *Client) CreateProfile(ctx context.Context, token string, sub domain.Submission, image *application.ImageUpload) (json.RawMessage, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	payload, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}
	if err := mw.WriteField("payload", string(payload)); err != nil {
		return nil, err
	}

	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, image.Filename))
		h.Set("Content-Type", image.ContentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, image.Content); err != nil {
			return nil, fmt.Errorf("failed to attach image: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/profiles", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := c.do(req, token)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: invalid /api/profiles response", domain.ErrBackendUnavailable)
	}
	return json.RawMessage(body), nil
}

func (c *Client) do(req *http.Request, token string) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s %s returned %d: %s", domain.ErrBackendUnavailable,
			req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
