package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/linkme/cardstudio/internal/gateway/middleware"
	"github.com/linkme/cardstudio/internal/modules/studio/application"
	"github.com/linkme/cardstudio/internal/modules/studio/domain"
	"github.com/linkme/cardstudio/internal/modules/studio/infrastructure/websocket"
	"github.com/linkme/cardstudio/internal/shared/utils"
	"go.uber.org/zap"
)

type StudioHandler struct {
	service   application.StudioService
	hub       *websocket.Hub
	maxUpload int64
	log       *zap.Logger
}

func NewStudioHandler(service application.StudioService, hub *websocket.Hub, maxUpload int64, log *zap.Logger) *StudioHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &StudioHandler{service: service, hub: hub, maxUpload: maxUpload, log: log}
}

func (h *StudioHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.service.Catalog())
}

func (h *StudioHandler) ResolveStyle(w http.ResponseWriter, r *http.Request) {
	var req application.ResolveStyleRequest
	if !decode(w, r, &req) {
		return
	}
	style, err := h.service.ResolveStyle(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"style": style,
		"css":   style.CSS(),
	})
}

func (h *StudioHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req application.CreateSessionRequest
	// an empty body starts a personal session
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	state, err := h.service.CreateSession(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, state)
}

func (h *StudioHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	state, err := h.service.GetSession(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, state)
}

func (h *StudioHandler) DiscardSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := h.service.DiscardSession(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StudioHandler) SetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req application.SetTemplateRequest
	if !decode(w, r, &req) {
		return
	}
	state, err := h.service.SetTemplate(r.Context(), id, req.Template)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, state)
}

func (h *StudioHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req application.SetActiveRequest
	if !decode(w, r, &req) {
		return
	}
	pt, err := domain.ParseProfileType(req.ProfileType)
	if err != nil {
		h.writeError(w, err)
		return
	}
	state, err := h.service.SetActive(r.Context(), id, pt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, state)
}

func (h *StudioHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, pt, ok := h.target(w, r)
	if !ok {
		return
	}
	var patch domain.ProfilePatch
	if !decode(w, r, &patch) {
		return
	}
	view, err := h.service.UpdateProfile(r.Context(), id, pt, patch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *StudioHandler) UpdateSocialLink(w http.ResponseWriter, r *http.Request) {
	id, pt, ok := h.target(w, r)
	if !ok {
		return
	}
	var req application.SocialLinkRequest
	if !decode(w, r, &req) {
		return
	}
	if err := application.ValidateStruct(req); err != nil {
		h.writeError(w, err)
		return
	}
	view, err := h.service.UpdateSocialLink(r.Context(), id, pt, r.PathValue("key"), req.Value)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *StudioHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, pt, ok := h.target(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<20)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "image too large or malformed upload", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(file, h.maxUpload)); err != nil {
		http.Error(w, "failed to read image", http.StatusBadRequest)
		return
	}

	view, err := h.service.AttachImage(r.Context(), id, pt, buf.Bytes())
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *StudioHandler) ClearImage(w http.ResponseWriter, r *http.Request) {
	id, pt, ok := h.target(w, r)
	if !ok {
		return
	}
	view, err := h.service.ClearImage(r.Context(), id, pt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *StudioHandler) GenerateAIBackground(w http.ResponseWriter, r *http.Request) {
	id, pt, ok := h.target(w, r)
	if !ok {
		return
	}
	var req application.AIBackgroundRequest
	if !decode(w, r, &req) {
		return
	}
	if err := application.ValidateStruct(req); err != nil {
		h.writeError(w, err)
		return
	}
	view, err := h.service.GenerateAIBackground(r.Context(), id, pt, req.Prompt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *StudioHandler) AttachAILogo(w http.ResponseWriter, r *http.Request) {
	id, pt, ok := h.target(w, r)
	if !ok {
		return
	}
	var req application.AILogoRequest
	if !decode(w, r, &req) {
		return
	}
	if err := application.ValidateStruct(req); err != nil {
		h.writeError(w, err)
		return
	}
	view, err := h.service.AttachAILogo(r.Context(), id, pt, req.URL)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *StudioHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, pt, ok := h.target(w, r)
	if !ok {
		return
	}
	p, err := h.service.Preview(r.Context(), id, pt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *StudioHandler) CardPNG(w http.ResponseWriter, r *http.Request) {
	id, pt, ok := h.target(w, r)
	if !ok {
		return
	}
	png, err := h.service.RenderCard(r.Context(), id, pt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writePNG(w, png)
}

func (h *StudioHandler) QRPNG(w http.ResponseWriter, r *http.Request) {
	id, pt, ok := h.target(w, r)
	if !ok {
		return
	}
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid size", http.StatusBadRequest)
			return
		}
		size = v
	}
	png, err := h.service.RenderQR(r.Context(), id, pt, size)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writePNG(w, png)
}

func (h *StudioHandler) CopyLink(w http.ResponseWriter, r *http.Request) {
	id, pt, ok := h.target(w, r)
	if !ok {
		return
	}
	res, err := h.service.CopyLink(r.Context(), id, pt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

func (h *StudioHandler) Prefill(w http.ResponseWriter, r *http.Request) {
	id, pt, ok := h.target(w, r)
	if !ok {
		return
	}
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	view, err := h.service.Prefill(r.Context(), id, pt, token)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *StudioHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, pt, ok := h.target(w, r)
	if !ok {
		return
	}
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	res, err := h.service.Submit(r.Context(), id, pt, token)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, res)
}

// Live upgrades to a websocket that streams preview and copy events for the
// session. The first message is the preview of the active profile.
func (h *StudioHandler) Live(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if h.hub == nil {
		http.Error(w, "live updates unavailable", http.StatusServiceUnavailable)
		return
	}
	state, err := h.service.GetSession(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	p, err := h.service.Preview(r.Context(), id, state.ActiveType)
	if err != nil {
		h.writeError(w, err)
		return
	}
	initial, err := json.Marshal(application.LiveEvent{
		Type:        application.EventPreview,
		SessionID:   id,
		ProfileType: state.ActiveType,
		Preview:     p,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	websocket.ServeWs(h.hub, w, r, id, initial)
}

func (h *StudioHandler) target(w http.ResponseWriter, r *http.Request) (uuid.UUID, domain.ProfileType, bool) {
	id, ok := sessionID(w, r)
	if !ok {
		return uuid.Nil, "", false
	}
	pt, err := domain.ParseProfileType(r.PathValue("type"))
	if err != nil {
		http.Error(w, "invalid profile type", http.StatusBadRequest)
		return uuid.Nil, "", false
	}
	return id, pt, true
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *StudioHandler) writeError(w http.ResponseWriter, err error) {
	var fields domain.ValidationErrors
	switch {
	case errors.As(err, &fields):
		utils.WriteFieldErrors(w, http.StatusUnprocessableEntity, "validation failed", fields)
	case errors.Is(err, domain.ErrSessionNotFound):
		utils.WriteError(w, http.StatusNotFound, "session not found", nil)
	case errors.Is(err, domain.ErrInvalidProfileType),
		errors.Is(err, domain.ErrInvalidTemplate),
		errors.Is(err, domain.ErrInvalidPlatform),
		errors.Is(err, domain.ErrImageDecode):
		utils.WriteError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, domain.ErrUnauthorized):
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, domain.ErrImageFetch),
		errors.Is(err, domain.ErrBackendUnavailable):
		h.log.Warn("studio upstream request failed", zap.Error(err))
		utils.WriteError(w, http.StatusBadGateway, "upstream request failed", nil)
	default:
		h.log.Error("studio request failed", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "internal error", nil)
	}
}
