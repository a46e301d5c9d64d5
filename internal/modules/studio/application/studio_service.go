package application

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linkme/cardstudio/internal/modules/studio/domain"
	"go.uber.org/zap"
)

const (
	PreviewQRSize = 40
	DefaultQRSize = 120
	MinQRSize     = 40
	MaxQRSize     = 1024
)

type StudioService interface {
	Catalog() Catalog
	ResolveStyle(req ResolveStyleRequest) (domain.ResolvedStyle, error)

	CreateSession(ctx context.Context, req CreateSessionRequest) (*FormState, error)
	GetSession(ctx context.Context, id uuid.UUID) (*FormState, error)
	DiscardSession(ctx context.Context, id uuid.UUID) error
	SetTemplate(ctx context.Context, id uuid.UUID, template string) (*FormState, error)
	SetActive(ctx context.Context, id uuid.UUID, pt domain.ProfileType) (*FormState, error)

	UpdateProfile(ctx context.Context, id uuid.UUID, pt domain.ProfileType, patch domain.ProfilePatch) (*DraftView, error)
	UpdateSocialLink(ctx context.Context, id uuid.UUID, pt domain.ProfileType, key, value string) (*DraftView, error)
	AttachImage(ctx context.Context, id uuid.UUID, pt domain.ProfileType, data []byte) (*DraftView, error)
	ClearImage(ctx context.Context, id uuid.UUID, pt domain.ProfileType) (*DraftView, error)
	GenerateAIBackground(ctx context.Context, id uuid.UUID, pt domain.ProfileType, prompt string) (*DraftView, error)
	AttachAILogo(ctx context.Context, id uuid.UUID, pt domain.ProfileType, url string) (*DraftView, error)

	Preview(ctx context.Context, id uuid.UUID, pt domain.ProfileType) (*domain.CardPreview, error)
	RenderCard(ctx context.Context, id uuid.UUID, pt domain.ProfileType) ([]byte, error)
	RenderQR(ctx context.Context, id uuid.UUID, pt domain.ProfileType, size int) ([]byte, error)
	CopyLink(ctx context.Context, id uuid.UUID, pt domain.ProfileType) (*CopyResult, error)

	Prefill(ctx context.Context, id uuid.UUID, pt domain.ProfileType, token string) (*DraftView, error)
	Submit(ctx context.Context, id uuid.UUID, pt domain.ProfileType, token string) (*SubmitResult, error)

	OnSessionExpired(sess *domain.Session)
}

// Options tune the studio service.
type Options struct {
	PublicBaseURL string
	CopyWindow    time.Duration
	// CountActive drives the sessions_active gauge. Only enable it when the
	// repository reports expiry through OnSessionExpired, otherwise the
	// gauge would only ever grow.
	CountActive bool
}

// Deps are the collaborators of the studio service. Publisher, Rasterizer,
// Fetcher and Backend may be nil in tools that do not need them.
type Deps struct {
	Repo       domain.SessionRepository
	Blobs      BlobStore
	QR         QREncoder
	Rasterizer CardRasterizer
	Fetcher    ImageFetcher
	Backend    ProfileBackend
	Publisher  Publisher
	Logger     *zap.Logger
	Now        func() time.Time
}

type studioService struct {
	repo       domain.SessionRepository
	blobs      BlobStore
	qr         QREncoder
	rasterizer CardRasterizer
	fetcher    ImageFetcher
	backend    ProfileBackend
	publisher  Publisher
	log        *zap.Logger
	now        func() time.Time

	baseURL     string
	copyWindow  time.Duration
	countActive bool
	copies      *CopyTimers
	locks       sessionLocks
}

func NewStudioService(deps Deps, opts Options) StudioService {
	if opts.CopyWindow <= 0 {
		opts.CopyWindow = domain.CopyAckWindow
	}
	if opts.PublicBaseURL == "" {
		opts.PublicBaseURL = domain.DefaultPublicBaseURL
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := &studioService{
		repo:       deps.Repo,
		blobs:      deps.Blobs,
		qr:         deps.QR,
		rasterizer: deps.Rasterizer,
		fetcher:    deps.Fetcher,
		backend:    deps.Backend,
		publisher:  deps.Publisher,
		log:        deps.Logger,
		now:        deps.Now,
		baseURL:     opts.PublicBaseURL,
		copyWindow:  opts.CopyWindow,
		countActive: opts.CountActive,
		locks:       sessionLocks{locks: make(map[uuid.UUID]*sessionLock)},
	}
	s.copies = NewCopyTimers(opts.CopyWindow, s.copyExpired)
	return s
}

func (s *studioService) Catalog() Catalog {
	return BuildCatalog()
}

func (s *studioService) ResolveStyle(req ResolveStyleRequest) (domain.ResolvedStyle, error) {
	if err := ValidateStruct(req); err != nil {
		return domain.ResolvedStyle{}, err
	}
	tmpl, err := domain.ParseTemplate(req.Template)
	if err != nil {
		return domain.ResolvedStyle{}, err
	}
	style := domain.ResolveStyle(tmpl, req.DesignMode, req.Color, req.AIBackground)
	styleResolutions.WithLabelValues(templateLabel(tmpl), string(style.Source)).Inc()
	return style, nil
}

func (s *studioService) CreateSession(ctx context.Context, req CreateSessionRequest) (*FormState, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	sess := domain.NewSession(req.ProfileType, s.now())
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	if s.countActive {
		sessionsActive.Inc()
	}
	s.log.Info("studio session created", zap.String("session_id", sess.ID.String()), zap.String("profile_type", string(sess.ActiveType)))
	return formState(sess), nil
}

func (s *studioService) GetSession(ctx context.Context, id uuid.UUID) (*FormState, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return formState(sess), nil
}

func (s *studioService) DiscardSession(ctx context.Context, id uuid.UUID) error {
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.copies.StopSession(id)
	for _, key := range sess.ImageKeys() {
		s.release(ctx, id, key)
	}
	s.send(LiveEvent{Type: EventDiscarded, SessionID: id})
	if s.publisher != nil {
		s.publisher.CloseSession(id)
	}
	if s.countActive {
		sessionsActive.Dec()
	}

	s.log.Info("studio session discarded", zap.String("session_id", id.String()))
	return nil
}

// OnSessionExpired releases the blobs of a session that timed out.
// Repositories that can observe expiry call it.
func (s *studioService) OnSessionExpired(sess *domain.Session) {
	s.copies.StopSession(sess.ID)
	for _, key := range sess.ImageKeys() {
		s.release(context.Background(), sess.ID, key)
	}
	if s.publisher != nil {
		s.publisher.CloseSession(sess.ID)
	}
	if s.countActive {
		sessionsActive.Dec()
	}
	s.log.Info("studio session expired", zap.String("session_id", sess.ID.String()))
}

func (s *studioService) SetTemplate(ctx context.Context, id uuid.UUID, template string) (*FormState, error) {
	tmpl, err := domain.ParseTemplate(template)
	if err != nil {
		return nil, err
	}
	sess, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		sess.Template = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(sess, sess.ActiveType)
	return formState(sess), nil
}

func (s *studioService) SetActive(ctx context.Context, id uuid.UUID, pt domain.ProfileType) (*FormState, error) {
	sess, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		if _, err := sess.Draft(pt); err != nil {
			return err
		}
		sess.ActiveType = pt
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(sess, pt)
	return formState(sess), nil
}

func (s *studioService) UpdateProfile(ctx context.Context, id uuid.UUID, pt domain.ProfileType, patch domain.ProfilePatch) (*DraftView, error) {
	if err := ValidateStruct(patch); err != nil {
		return nil, err
	}
	var released string
	sess, err := s.mutateDraft(ctx, id, pt, func(d *domain.ProfileDraft) error {
		released = d.Apply(patch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.release(ctx, id, released)
	return s.draftView(sess, pt), nil
}

func (s *studioService) UpdateSocialLink(ctx context.Context, id uuid.UUID, pt domain.ProfileType, key, value string) (*DraftView, error) {
	key, err := domain.ParseSocialKey(key)
	if err != nil {
		return nil, err
	}
	sess, err := s.mutateDraft(ctx, id, pt, func(d *domain.ProfileDraft) error {
		d.SetSocialLink(key, value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.draftView(sess, pt), nil
}

func (s *studioService) AttachImage(ctx context.Context, id uuid.UUID, pt domain.ProfileType, data []byte) (*DraftView, error) {
	return s.attach(ctx, id, pt, data, false)
}

func (s *studioService) ClearImage(ctx context.Context, id uuid.UUID, pt domain.ProfileType) (*DraftView, error) {
	var released string
	sess, err := s.mutateDraft(ctx, id, pt, func(d *domain.ProfileDraft) error {
		released = d.ClearImage()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.release(ctx, id, released)
	return s.draftView(sess, pt), nil
}

// GenerateAIBackground picks a background from the demo gallery. The same
// prompt always yields the same background.
func (s *studioService) GenerateAIBackground(ctx context.Context, id uuid.UUID, pt domain.ProfileType, prompt string) (*DraftView, error) {
	bg := pickBackground(prompt)
	patch := domain.ProfilePatch{AIBackground: &bg}
	if strings.TrimSpace(prompt) != "" {
		patch.AIPrompt = &prompt
	}
	return s.UpdateProfile(ctx, id, pt, patch)
}

// AttachAILogo downloads a generated logo and attaches it like an upload.
// Any failure leaves the draft untouched.
func (s *studioService) AttachAILogo(ctx context.Context, id uuid.UUID, pt domain.ProfileType, url string) (*DraftView, error) {
	if err := ValidateStruct(AILogoRequest{URL: url}); err != nil {
		return nil, err
	}
	if s.fetcher == nil {
		return nil, domain.ErrImageFetch
	}
	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.log.Warn("ai logo fetch failed", zap.String("session_id", id.String()), zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrImageFetch, err)
	}
	return s.attach(ctx, id, pt, data, true)
}

func (s *studioService) attach(ctx context.Context, id uuid.UUID, pt domain.ProfileType, data []byte, aiGenerated bool) (*DraftView, error) {
	// fail fast before doing image work for a session that is gone
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	jpeg, err := normalizeAvatar(data)
	if err != nil {
		return nil, err
	}
	blob, err := s.blobs.Store(ctx, jpeg, "image/jpeg", ".jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	var released string
	sess, err := s.mutateDraft(ctx, id, pt, func(d *domain.ProfileDraft) error {
		released = d.AttachImage(blob.URL, blob.Key, aiGenerated)
		return nil
	})
	if err != nil {
		s.release(ctx, id, blob.Key)
		return nil, err
	}
	s.release(ctx, id, released)

	s.log.Info("image attached",
		zap.String("session_id", id.String()),
		zap.String("profile_type", string(pt)),
		zap.String("key", blob.Key),
		zap.Bool("ai_generated", aiGenerated))
	return s.draftView(sess, pt), nil
}

func (s *studioService) Preview(ctx context.Context, id uuid.UUID, pt domain.ProfileType) (*domain.CardPreview, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := sess.Draft(pt); err != nil {
		return nil, err
	}
	p := s.preview(sess, pt)
	return &p, nil
}

// RenderCard draws the card as a PNG. Images that cannot be loaded are left
// out and the card falls back to its placeholder styling.
func (s *studioService) RenderCard(ctx context.Context, id uuid.UUID, pt domain.ProfileType) ([]byte, error) {
	if s.rasterizer == nil {
		return nil, errors.New("card rendering is not configured")
	}
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	draft, err := sess.Draft(pt)
	if err != nil {
		return nil, err
	}
	p := s.preview(sess, pt)

	var images CardImages
	images.QR, _ = s.qr.PNG(p.ProfileURL, DefaultQRSize)
	images.Avatar = s.loadAvatar(ctx, *draft)
	if p.Style.Background.Kind == domain.BackgroundImage {
		images.Background = s.fetch(ctx, p.Style.Background.ImageURL)
	}

	png, err := s.rasterizer.Render(p, images)
	if err != nil {
		return nil, fmt.Errorf("failed to render card: %w", err)
	}
	previewsRendered.WithLabelValues("png").Inc()
	return png, nil
}

func (s *studioService) RenderQR(ctx context.Context, id uuid.UUID, pt domain.ProfileType, size int) ([]byte, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	draft, err := sess.Draft(pt)
	if err != nil {
		return nil, err
	}
	return s.qr.PNG(domain.ProfileURL(s.baseURL, draft.Name), ClampQRSize(size))
}

func (s *studioService) CopyLink(ctx context.Context, id uuid.UUID, pt domain.ProfileType) (*CopyResult, error) {
	now := s.now()
	sess, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		if _, err := sess.Draft(pt); err != nil {
			return err
		}
		sess.MarkCopied(pt, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.copies.Trigger(id, pt)

	draft, _ := sess.Draft(pt)
	ack := sess.CopyState(pt, now, s.copyWindow)
	s.send(LiveEvent{Type: EventCopy, SessionID: id, ProfileType: pt, Copy: &ack})

	return &CopyResult{URL: domain.ProfileURL(s.baseURL, draft.Name), Copy: ack}, nil
}

// Prefill fills empty draft fields from the signed-in user's record. Values
// the user already typed are never overwritten.
func (s *studioService) Prefill(ctx context.Context, id uuid.UUID, pt domain.ProfileType, token string) (*DraftView, error) {
	if s.backend == nil {
		return nil, domain.ErrBackendUnavailable
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	user, err := s.backend.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	sess, err := s.mutateDraft(ctx, id, pt, func(d *domain.ProfileDraft) error {
		prefillDraft(d, user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.draftView(sess, pt), nil
}

func (s *studioService) Submit(ctx context.Context, id uuid.UUID, pt domain.ProfileType, token string) (*SubmitResult, error) {
	if s.backend == nil {
		return nil, domain.ErrBackendUnavailable
	}

	unlock := s.locks.lock(id)
	sess, err := s.repo.Get(ctx, id)
	unlock()
	if err != nil {
		return nil, err
	}
	draft, err := sess.Draft(pt)
	if err != nil {
		return nil, err
	}

	sub := domain.NewSubmission(pt, sess.Template, *draft)
	if err := validateSubmission(sub, draft.SocialLinks); err != nil {
		submissionsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	var image *ImageUpload
	if draft.ImageKey != "" {
		rc, err := s.blobs.Open(ctx, draft.ImageKey)
		if err != nil {
			return nil, fmt.Errorf("failed to open attached image: %w", err)
		}
		defer rc.Close()
		name := "profile-image.jpg"
		if draft.AIGeneratedLogo {
			name = "ai-generated-logo.jpg"
		}
		image = &ImageUpload{Filename: name, ContentType: "image/jpeg", Content: rc}
	}

	record, err := s.backend.CreateProfile(ctx, token, sub, image)
	if err != nil {
		submissionsTotal.WithLabelValues("failed").Inc()
		s.log.Warn("profile submission failed", zap.String("session_id", id.String()), zap.Error(err))
		return nil, err
	}
	submissionsTotal.WithLabelValues("created").Inc()
	s.log.Info("profile submitted", zap.String("session_id", id.String()), zap.String("slug", sub.Slug))

	return &SubmitResult{
		Slug:    sub.Slug,
		URL:     domain.ProfileURL(s.baseURL, sub.Name),
		Profile: record,
	}, nil
}

// mutate loads a session, applies fn and saves it while holding the
// session's lock.
func (s *studioService) mutate(ctx context.Context, id uuid.UUID, fn func(*domain.Session) error) (*domain.Session, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return sess, nil
}

func (s *studioService) mutateDraft(ctx context.Context, id uuid.UUID, pt domain.ProfileType, fn func(*domain.ProfileDraft) error) (*domain.Session, error) {
	return s.mutate(ctx, id, func(sess *domain.Session) error {
		d, err := sess.Draft(pt)
		if err != nil {
			return err
		}
		return fn(d)
	})
}

func (s *studioService) preview(sess *domain.Session, pt domain.ProfileType) domain.CardPreview {
	draft, _ := sess.Draft(pt)
	p := domain.BuildPreview(pt, *draft, sess.Template, s.baseURL)
	p.Copy = sess.CopyState(pt, s.now(), s.copyWindow)

	if png, err := s.qr.PNG(p.ProfileURL, PreviewQRSize); err == nil {
		p.QRCode = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	} else {
		s.log.Warn("qr encoding failed", zap.String("url", p.ProfileURL), zap.Error(err))
	}

	styleResolutions.WithLabelValues(templateLabel(sess.Template), string(p.Style.Source)).Inc()
	previewsRendered.WithLabelValues("json").Inc()
	return p
}

// draftView builds the response for a draft change and pushes the new
// preview to live clients.
func (s *studioService) draftView(sess *domain.Session, pt domain.ProfileType) *DraftView {
	draft, _ := sess.Draft(pt)
	view := &DraftView{
		SessionID:    sess.ID,
		ProfileType:  pt,
		Draft:        draft.Clone(),
		SocialErrors: domain.ValidateSocialLinks(draft.SocialLinks),
		Preview:      s.preview(sess, pt),
	}
	p := view.Preview
	s.send(LiveEvent{Type: EventPreview, SessionID: sess.ID, ProfileType: pt, Preview: &p})
	return view
}

func (s *studioService) publish(sess *domain.Session, pt domain.ProfileType) {
	if s.publisher == nil {
		return
	}
	p := s.preview(sess, pt)
	s.send(LiveEvent{Type: EventPreview, SessionID: sess.ID, ProfileType: pt, Preview: &p})
}

func (s *studioService) send(ev LiveEvent) {
	if s.publisher == nil {
		return
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		s.log.Error("failed to encode live event", zap.Error(err))
		return
	}
	s.publisher.SendToSession(ev.SessionID, msg)
}

func (s *studioService) copyExpired(id uuid.UUID, pt domain.ProfileType) {
	idle := domain.CopyAck{State: domain.CopyIdle}
	s.send(LiveEvent{Type: EventCopy, SessionID: id, ProfileType: pt, Copy: &idle})
}

// release frees a preview blob. Failures are logged; the draft no longer
// references the blob either way.
func (s *studioService) release(ctx context.Context, id uuid.UUID, key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Release(ctx, key); err != nil {
		s.log.Warn("failed to release preview blob", zap.String("session_id", id.String()), zap.String("key", key), zap.Error(err))
	}
}

func (s *studioService) loadAvatar(ctx context.Context, d domain.ProfileDraft) []byte {
	if d.ImageKey != "" {
		rc, err := s.blobs.Open(ctx, d.ImageKey)
		if err != nil {
			return nil
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil
		}
		return data
	}
	if d.Image != "" {
		return s.fetch(ctx, d.Image)
	}
	return nil
}

func (s *studioService) fetch(ctx context.Context, url string) []byte {
	if s.fetcher == nil {
		return nil
	}
	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.log.Debug("image unavailable for card render", zap.String("url", url), zap.Error(err))
		return nil
	}
	return data
}

func formState(sess *domain.Session) *FormState {
	return &FormState{
		ID:         sess.ID,
		ActiveType: sess.ActiveType,
		Template:   sess.Template,
		Drafts: map[domain.ProfileType]domain.ProfileDraft{
			domain.ProfilePersonal: sess.Personal.Clone(),
			domain.ProfileBusiness: sess.Business.Clone(),
		},
		SocialErrors: map[domain.ProfileType]map[domain.Platform]bool{
			domain.ProfilePersonal: domain.ValidateSocialLinks(sess.Personal.SocialLinks),
			domain.ProfileBusiness: domain.ValidateSocialLinks(sess.Business.SocialLinks),
		},
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
}

func validateSubmission(sub domain.Submission, links map[string]string) error {
	var errs domain.ValidationErrors
	if err := ValidateStruct(sub); err != nil {
		var ve domain.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		errs = append(errs, ve...)
	}
	flags := domain.ValidateSocialLinks(links)
	for _, p := range domain.Platforms {
		if flags[p.Key] {
			errs = append(errs, domain.FieldError{Field: "socialLinks." + string(p.Key), Message: "must be a valid URL"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// prefillDraft copies the user's record into empty fields only.
func prefillDraft(d *domain.ProfileDraft, u *CurrentUser) {
	fill := func(dst *string, v string) {
		if strings.TrimSpace(*dst) == "" && v != "" {
			*dst = v
		}
	}

	var parts []string
	for _, p := range []string{u.FirstName, u.SecondName, u.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	fill(&d.Name, strings.Join(parts, " "))
	fill(&d.FirstName, u.FirstName)
	fill(&d.SecondName, u.SecondName)
	fill(&d.LastName, u.LastName)

	if strings.TrimSpace(d.SocialLinks[string(domain.PlatformEmail)]) == "" && u.Email != "" {
		d.SetSocialLink(string(domain.PlatformEmail), u.Email)
	}
	if strings.TrimSpace(d.SocialLinks[string(domain.PlatformPhone)]) == "" && u.PhoneNumber != "" {
		code, local := splitPhone(u.PhoneNumber)
		if code != "" {
			d.SetSocialLink(domain.PhoneCodeKey, code)
		}
		d.SetSocialLink(string(domain.PlatformPhone), local)
	}
}

// splitPhone separates a known country code from an international number.
// The longest matching code wins.
func splitPhone(number string) (code, local string) {
	n := strings.TrimSpace(number)
	for _, c := range domain.CountryCodes {
		if strings.HasPrefix(n, c.Code) && len(c.Code) > len(code) {
			code = c.Code
		}
	}
	if code == "" {
		return "", n
	}
	return code, strings.TrimSpace(strings.TrimPrefix(n, code))
}

func pickBackground(prompt string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	return DemoBackgrounds[h.Sum32()%uint32(len(DemoBackgrounds))]
}

// ClampQRSize keeps a requested QR size within supported bounds.
func ClampQRSize(size int) int {
	switch {
	case size <= 0:
		return DefaultQRSize
	case size < MinQRSize:
		return MinQRSize
	case size > MaxQRSize:
		return MaxQRSize
	}
	return size
}

func templateLabel(t domain.Template) string {
	if t == "" {
		return "none"
	}
	return string(t)
}

// sessionLocks serializes writers per session. An entry lives only while
// someone holds or waits for it, so unknown and expired IDs leave nothing
// behind.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func (l *sessionLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	e, ok := l.locks[id]
	if !ok {
		e = &sessionLock{}
		l.locks[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
