package gateway

import (
	"net/http"

	"github.com/linkme/cardstudio/internal/gateway/middleware"
	studio_http "github.com/linkme/cardstudio/internal/modules/studio/interfaces/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	StudioHandler *studio_http.StudioHandler
	Bearer        *middleware.BearerMiddleware
	// Static serves locally stored preview blobs with StaticPrefix already
	// stripped. Nil when blobs live in S3.
	Static       http.Handler
	StaticPrefix string
}

func SetupRoutes(config RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()
	h := config.StudioHandler

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	if config.Static != nil && config.StaticPrefix != "" {
		mux.Handle("GET "+config.StaticPrefix, config.Static)
	}

	// Stateless
	mux.HandleFunc("GET /studio/catalog", h.Catalog)
	mux.HandleFunc("POST /studio/styles/resolve", h.ResolveStyle)

	// Sessions
	mux.HandleFunc("POST /studio/sessions", h.CreateSession)
	mux.HandleFunc("GET /studio/sessions/{id}", h.GetSession)
	mux.HandleFunc("DELETE /studio/sessions/{id}", h.DiscardSession)
	mux.HandleFunc("PUT /studio/sessions/{id}/template", h.SetTemplate)
	mux.HandleFunc("PUT /studio/sessions/{id}/active", h.SetActive)
	mux.HandleFunc("GET /studio/sessions/{id}/live", h.Live)

	// Drafts
	mux.HandleFunc("PATCH /studio/sessions/{id}/profiles/{type}", h.UpdateProfile)
	mux.HandleFunc("PUT /studio/sessions/{id}/profiles/{type}/social-links/{key}", h.UpdateSocialLink)
	mux.HandleFunc("POST /studio/sessions/{id}/profiles/{type}/image", h.UploadImage)
	mux.HandleFunc("DELETE /studio/sessions/{id}/profiles/{type}/image", h.ClearImage)
	mux.HandleFunc("POST /studio/sessions/{id}/profiles/{type}/ai-background", h.GenerateAIBackground)
	mux.HandleFunc("POST /studio/sessions/{id}/profiles/{type}/ai-logo", h.AttachAILogo)

	// Preview outputs
	mux.HandleFunc("GET /studio/sessions/{id}/profiles/{type}/preview", h.Preview)
	mux.HandleFunc("GET /studio/sessions/{id}/profiles/{type}/card.png", h.CardPNG)
	mux.HandleFunc("GET /studio/sessions/{id}/profiles/{type}/qr.png", h.QRPNG)
	mux.HandleFunc("POST /studio/sessions/{id}/profiles/{type}/copy", h.CopyLink)

	// Backend calls (bearer required)
	mux.Handle("POST /studio/sessions/{id}/profiles/{type}/prefill", config.Bearer.RequireBearer(http.HandlerFunc(h.Prefill)))
	mux.Handle("POST /studio/sessions/{id}/profiles/{type}/submit", config.Bearer.RequireBearer(http.HandlerFunc(h.Submit)))

	return mux
}
