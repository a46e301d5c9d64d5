package application

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	fsdomain "github.com/linkme/cardstudio/internal/modules/filestorage/domain"
	"github.com/linkme/cardstudio/internal/modules/studio/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type fakeRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.Session
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sessions: make(map[uuid.UUID]*domain.Session)}
}

func (r *fakeRepo) Save(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s.Clone()
	return nil
}

func (r *fakeRepo) Get(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

type mockBlobs struct {
	mock.Mock
}

func (m *mockBlobs) Store(ctx context.Context, data []byte, contentType, ext string) (fsdomain.Blob, error) {
	args := m.Called(ctx, data, contentType, ext)
	return args.Get(0).(fsdomain.Blob), args.Error(1)
}

func (m *mockBlobs) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *mockBlobs) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) CurrentUser(ctx context.Context, token string) (*CurrentUser, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CurrentUser), args.Error(1)
}

func (m *mockBackend) CreateProfile(ctx context.Context, token string, sub domain.Submission, img *ImageUpload) (json.RawMessage, error) {
	args := m.Called(ctx, token, sub, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type stubQR struct {
	mu    sync.Mutex
	sizes []int
}

func (q *stubQR) PNG(content string, size int) ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sizes = append(q.sizes, size)
	return []byte("qr:" + content), nil
}

func (q *stubQR) lastSize() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.sizes[len(q.sizes)-1]
}

type stubRasterizer struct {
	preview domain.CardPreview
	images  CardImages
}

func (r *stubRasterizer) Render(p domain.CardPreview, images CardImages) ([]byte, error) {
	r.preview = p
	r.images = images
	return []byte("png"), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []LiveEvent
	closed []uuid.UUID
}

func (p *recordingPublisher) SendToSession(_ uuid.UUID, msg []byte) {
	var ev LiveEvent
	if err := json.Unmarshal(msg, &ev); err != nil {
		panic(err)
	}
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
}

func (p *recordingPublisher) CloseSession(id uuid.UUID) {
	p.mu.Lock()
	p.closed = append(p.closed, id)
	p.mu.Unlock()
}

func (p *recordingPublisher) last() LiveEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

type fixture struct {
	svc       *studioService
	repo      *fakeRepo
	blobs     *mockBlobs
	backend   *mockBackend
	fetcher   *mockFetcher
	qr        *stubQR
	raster    *stubRasterizer
	publisher *recordingPublisher
	clock     *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:      newFakeRepo(),
		blobs:     new(mockBlobs),
		backend:   new(mockBackend),
		fetcher:   new(mockFetcher),
		qr:        &stubQR{},
		raster:    &stubRasterizer{},
		publisher: &recordingPublisher{},
		clock:     &fakeClock{},
	}
	svc := NewStudioService(Deps{
		Repo:       f.repo,
		Blobs:      f.blobs,
		QR:         f.qr,
		Rasterizer: f.raster,
		Fetcher:    f.fetcher,
		Backend:    f.backend,
		Publisher:  f.publisher,
		Now:        func() time.Time { return testNow },
	}, Options{})
	f.svc = svc.(*studioService)
	f.svc.copies.after = f.clock.after

	t.Cleanup(func() {
		f.blobs.AssertExpectations(t)
		f.backend.AssertExpectations(t)
		f.fetcher.AssertExpectations(t)
	})
	return f
}

func (f *fixture) session(t *testing.T) uuid.UUID {
	t.Helper()
	state, err := f.svc.CreateSession(context.Background(), CreateSessionRequest{})
	require.NoError(t, err)
	return state.ID
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// pngHeader returns a PNG that ends right after an IHDR chunk claiming
// w x h RGBA pixels.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8], ihdr[9] = 8, 6
	for _, c := range []struct {
		typ  string
		data []byte
	}{{"IHDR", ihdr}, {"IEND", nil}} {
		body := append([]byte(c.typ), c.data...)
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(c.data)))
		buf.Write(body)
		_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(body))
	}
	return buf.Bytes()
}

func TestCreateSession_Defaults(t *testing.T) {
	f := newFixture(t)

	state, err := f.svc.CreateSession(context.Background(), CreateSessionRequest{ProfileType: domain.ProfileBusiness})

	require.NoError(t, err)
	assert.Equal(t, domain.ProfileBusiness, state.ActiveType)
	assert.Equal(t, domain.TemplateModern, state.Template)
	assert.Equal(t, domain.DefaultColor, state.Drafts[domain.ProfilePersonal].Color)
	assert.Equal(t, domain.DefaultColor, state.Drafts[domain.ProfileBusiness].Color)
	assert.Equal(t, testNow, state.CreatedAt)
}

func TestCreateSession_InvalidType(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateSession(context.Background(), CreateSessionRequest{ProfileType: "team"})

	var ve domain.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "profileType", ve[0].Field)
}

func TestGetSession_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetSession(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestUpdateProfile_MergesAndPublishes(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)

	view, err := f.svc.UpdateProfile(context.Background(), id, domain.ProfilePersonal, domain.ProfilePatch{
		Name:  domain.Ptr("Jane Doe"),
		Title: domain.Ptr("Engineer"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", view.Draft.Name)
	assert.Equal(t, "https://linkme.io/jane-doe", view.Preview.ProfileURL)
	assert.True(t, strings.HasPrefix(view.Preview.QRCode, "data:image/png;base64,"))
	assert.Equal(t, PreviewQRSize, f.qr.lastSize())

	ev := f.publisher.last()
	assert.Equal(t, EventPreview, ev.Type)
	assert.Equal(t, domain.ProfilePersonal, ev.ProfileType)
	require.NotNil(t, ev.Preview)
	assert.Equal(t, "Jane Doe", ev.Preview.Name)

	// a later patch leaves untouched fields alone
	view, err = f.svc.UpdateProfile(context.Background(), id, domain.ProfilePersonal, domain.ProfilePatch{Bio: domain.Ptr("Hi")})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", view.Draft.Name)
	assert.Equal(t, "Engineer", view.Draft.Title)
	assert.Equal(t, "Hi", view.Draft.Bio)
}

func TestUpdateProfile_DraftsAreIndependent(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)

	_, err := f.svc.UpdateProfile(context.Background(), id, domain.ProfileBusiness, domain.ProfilePatch{Name: domain.Ptr("Acme")})
	require.NoError(t, err)

	state, err := f.svc.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", state.Drafts[domain.ProfileBusiness].Name)
	assert.Empty(t, state.Drafts[domain.ProfilePersonal].Name)
}

func TestUpdateProfile_Errors(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)

	_, err := f.svc.UpdateProfile(context.Background(), id, domain.ProfilePersonal, domain.ProfilePatch{
		Name: domain.Ptr(strings.Repeat("x", 121)),
	})
	var ve domain.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve[0].Field)

	_, err = f.svc.UpdateProfile(context.Background(), id, "team", domain.ProfilePatch{})
	assert.ErrorIs(t, err, domain.ErrInvalidProfileType)

	_, err = f.svc.UpdateProfile(context.Background(), uuid.New(), domain.ProfilePersonal, domain.ProfilePatch{})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSetTemplate(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)

	_, err := f.svc.SetTemplate(context.Background(), id, "sparkly")
	assert.ErrorIs(t, err, domain.ErrInvalidTemplate)

	state, err := f.svc.SetTemplate(context.Background(), id, "neon")
	require.NoError(t, err)
	assert.Equal(t, domain.TemplateNeon, state.Template)

	ev := f.publisher.last()
	require.NotNil(t, ev.Preview)
	assert.Equal(t, domain.TemplateNeon, ev.Preview.Template)
}

func TestSetActive(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)

	state, err := f.svc.SetActive(context.Background(), id, domain.ProfileBusiness)
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileBusiness, state.ActiveType)

	_, err = f.svc.SetActive(context.Background(), id, "team")
	assert.ErrorIs(t, err, domain.ErrInvalidProfileType)
}

func TestUpdateSocialLink(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)

	_, err := f.svc.UpdateSocialLink(context.Background(), id, domain.ProfilePersonal, "myspace", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidPlatform)

	view, err := f.svc.UpdateSocialLink(context.Background(), id, domain.ProfilePersonal, "website", "not a url")
	require.NoError(t, err)
	assert.True(t, view.SocialErrors[domain.PlatformWebsite])

	view, err = f.svc.UpdateSocialLink(context.Background(), id, domain.ProfilePersonal, "website", "example.com")
	require.NoError(t, err)
	assert.False(t, view.SocialErrors[domain.PlatformWebsite])
	assert.Equal(t, "example.com", view.Draft.SocialLinks["website"])
}

func TestAttachImage_ReplacesAndReleases(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)
	ctx := context.Background()

	first := fsdomain.Blob{Key: "previews/a.jpg", URL: "http://cdn/previews/a.jpg"}
	second := fsdomain.Blob{Key: "previews/b.jpg", URL: "http://cdn/previews/b.jpg"}
	f.blobs.On("Store", ctx, mock.Anything, "image/jpeg", ".jpg").Return(first, nil).Once()
	f.blobs.On("Store", ctx, mock.Anything, "image/jpeg", ".jpg").Return(second, nil).Once()
	f.blobs.On("Release", ctx, "previews/a.jpg").Return(nil).Once()

	view, err := f.svc.AttachImage(ctx, id, domain.ProfilePersonal, testPNG(t))
	require.NoError(t, err)
	assert.Equal(t, first.URL, view.Draft.Image)
	assert.Equal(t, first.URL, view.Preview.Avatar.ImageURL)

	view, err = f.svc.AttachImage(ctx, id, domain.ProfilePersonal, testPNG(t))
	require.NoError(t, err)
	assert.Equal(t, second.Key, view.Draft.ImageKey)
	assert.False(t, view.Draft.AIGeneratedLogo)
}

func TestAttachImage_Errors(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)

	_, err := f.svc.AttachImage(context.Background(), id, domain.ProfilePersonal, []byte("not an image"))
	assert.ErrorIs(t, err, domain.ErrImageDecode)

	_, err = f.svc.AttachImage(context.Background(), uuid.New(), domain.ProfilePersonal, testPNG(t))
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	f.blobs.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAttachImage_RejectsOversizedHeader(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)

	_, err := f.svc.AttachImage(context.Background(), id, domain.ProfilePersonal, pngHeader(16000, 16000))

	assert.ErrorIs(t, err, domain.ErrImageDecode)
	assert.Contains(t, err.Error(), "16000x16000")
	f.blobs.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionLocks_DoNotOutliveCallers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		_, err := f.svc.SetTemplate(ctx, uuid.New(), string(domain.TemplateNeon))
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
	}
	assert.Len(t, f.svc.locks.locks, 0)

	id := f.session(t)
	_, err := f.svc.SetTemplate(ctx, id, string(domain.TemplateNeon))
	require.NoError(t, err)
	assert.Len(t, f.svc.locks.locks, 0)

	sess, err := f.repo.Get(ctx, id)
	require.NoError(t, err)
	f.svc.OnSessionExpired(sess)
	assert.Len(t, f.svc.locks.locks, 0)
}

func TestSessionLocks_SerializeSameSession(t *testing.T) {
	var l sessionLocks
	l.locks = make(map[uuid.UUID]*sessionLock)
	id := uuid.New()

	unlock := l.lock(id)
	acquired := make(chan struct{})
	go func() {
		release := l.lock(id)
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a held session lock")
	case <-time.After(20 * time.Millisecond):
	}
	unlock()
	<-acquired

	require.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return len(l.locks) == 0
	}, time.Second, time.Millisecond)
}

func TestAttachImage_InvalidTypeReleasesNewBlob(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)
	ctx := context.Background()

	blob := fsdomain.Blob{Key: "previews/a.jpg", URL: "http://cdn/previews/a.jpg"}
	f.blobs.On("Store", ctx, mock.Anything, "image/jpeg", ".jpg").Return(blob, nil)
	f.blobs.On("Release", ctx, blob.Key).Return(nil)

	_, err := f.svc.AttachImage(ctx, id, "team", testPNG(t))

	assert.ErrorIs(t, err, domain.ErrInvalidProfileType)
}

func TestClearImage(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)
	ctx := context.Background()

	blob := fsdomain.Blob{Key: "previews/a.jpg", URL: "http://cdn/previews/a.jpg"}
	f.blobs.On("Store", ctx, mock.Anything, "image/jpeg", ".jpg").Return(blob, nil)
	f.blobs.On("Release", ctx, blob.Key).Return(nil)

	_, err := f.svc.AttachImage(ctx, id, domain.ProfileBusiness, testPNG(t))
	require.NoError(t, err)

	view, err := f.svc.ClearImage(ctx, id, domain.ProfileBusiness)
	require.NoError(t, err)
	assert.Empty(t, view.Draft.Image)
	assert.Empty(t, view.Draft.ImageKey)
}

func TestAttachAILogo(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)
	ctx := context.Background()
	url := "https://ai.example.com/logo.png"

	f.fetcher.On("Fetch", ctx, url).Return(nil, errors.New("timeout")).Once()
	_, err := f.svc.AttachAILogo(ctx, id, domain.ProfileBusiness, url)
	assert.ErrorIs(t, err, domain.ErrImageFetch)

	state, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, state.Drafts[domain.ProfileBusiness].Image)

	blob := fsdomain.Blob{Key: "previews/logo.jpg", URL: "http://cdn/previews/logo.jpg"}
	f.fetcher.On("Fetch", ctx, url).Return(testPNG(t), nil).Once()
	f.blobs.On("Store", ctx, mock.Anything, "image/jpeg", ".jpg").Return(blob, nil)

	view, err := f.svc.AttachAILogo(ctx, id, domain.ProfileBusiness, url)
	require.NoError(t, err)
	assert.True(t, view.Draft.AIGeneratedLogo)
	assert.Equal(t, blob.URL, view.Draft.Image)

	_, err = f.svc.AttachAILogo(ctx, id, domain.ProfileBusiness, "ftp://nope")
	var ve domain.ValidationErrors
	assert.ErrorAs(t, err, &ve)
}

func TestGenerateAIBackground_IsDeterministic(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)
	ctx := context.Background()

	a, err := f.svc.GenerateAIBackground(ctx, id, domain.ProfilePersonal, "ocean sunset")
	require.NoError(t, err)
	b, err := f.svc.GenerateAIBackground(ctx, id, domain.ProfilePersonal, "ocean sunset")
	require.NoError(t, err)

	assert.Equal(t, a.Draft.AIBackground, b.Draft.AIBackground)
	assert.Contains(t, DemoBackgrounds, a.Draft.AIBackground)
	assert.Equal(t, "ocean sunset", a.Draft.AIPrompt)
	assert.Equal(t, domain.DesignModeUnset, a.Draft.DesignMode)
}

func TestCopyLink_AcknowledgesAndExpires(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)
	ctx := context.Background()

	res, err := f.svc.CopyLink(ctx, id, domain.ProfilePersonal)
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileURL(domain.DefaultPublicBaseURL, ""), res.URL)
	assert.Equal(t, domain.CopyCopied, res.Copy.State)
	require.NotNil(t, res.Copy.ExpiresAt)
	assert.Equal(t, testNow.Add(domain.CopyAckWindow), *res.Copy.ExpiresAt)

	ev := f.publisher.last()
	assert.Equal(t, EventCopy, ev.Type)
	assert.Equal(t, domain.CopyCopied, ev.Copy.State)

	f.clock.fire(0)
	ev = f.publisher.last()
	assert.Equal(t, EventCopy, ev.Type)
	assert.Equal(t, domain.CopyIdle, ev.Copy.State)
}

func TestDiscardSession(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)
	ctx := context.Background()

	blob := fsdomain.Blob{Key: "previews/a.jpg", URL: "http://cdn/previews/a.jpg"}
	f.blobs.On("Store", ctx, mock.Anything, "image/jpeg", ".jpg").Return(blob, nil)
	f.blobs.On("Release", ctx, blob.Key).Return(nil).Once()

	_, err := f.svc.AttachImage(ctx, id, domain.ProfilePersonal, testPNG(t))
	require.NoError(t, err)
	_, err = f.svc.CopyLink(ctx, id, domain.ProfilePersonal)
	require.NoError(t, err)

	require.NoError(t, f.svc.DiscardSession(ctx, id))

	_, err = f.svc.GetSession(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, EventDiscarded, f.publisher.last().Type)
	assert.Equal(t, []uuid.UUID{id}, f.publisher.closed)
	assert.False(t, f.svc.copies.Active(id, domain.ProfilePersonal))

	assert.ErrorIs(t, f.svc.DiscardSession(ctx, id), domain.ErrSessionNotFound)
}

func TestPrefill_FillsOnlyEmptyFields(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)
	ctx := context.Background()

	_, err := f.svc.UpdateProfile(ctx, id, domain.ProfilePersonal, domain.ProfilePatch{Name: domain.Ptr("Typed Name")})
	require.NoError(t, err)

	f.backend.On("CurrentUser", ctx, "tok").Return(&CurrentUser{
		FirstName:   "Hala",
		SecondName:  "M",
		LastName:    "Issawi",
		Email:       "hala@example.com",
		PhoneNumber: "+962791234567",
	}, nil)

	view, err := f.svc.Prefill(ctx, id, domain.ProfilePersonal, "tok")
	require.NoError(t, err)

	assert.Equal(t, "Typed Name", view.Draft.Name)
	assert.Equal(t, "Hala", view.Draft.FirstName)
	assert.Equal(t, "Issawi", view.Draft.LastName)
	assert.Equal(t, "hala@example.com", view.Draft.SocialLinks["email"])
	assert.Equal(t, "+962", view.Draft.SocialLinks[domain.PhoneCodeKey])
	assert.Equal(t, "791234567", view.Draft.SocialLinks["phone"])
}

func TestPrefill_BackendError(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)
	ctx := context.Background()

	f.backend.On("CurrentUser", ctx, "bad").Return(nil, domain.ErrUnauthorized)

	_, err := f.svc.Prefill(ctx, id, domain.ProfilePersonal, "bad")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSubmit_ValidationBlocksBackend(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)
	ctx := context.Background()

	_, err := f.svc.UpdateSocialLink(ctx, id, domain.ProfilePersonal, "github", "nope")
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, id, domain.ProfilePersonal, "tok")

	var ve domain.ValidationErrors
	require.ErrorAs(t, err, &ve)
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"name", "socialLinks.github"}, fields)
	f.backend.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_SendsPayloadAndImage(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)
	ctx := context.Background()

	blob := fsdomain.Blob{Key: "previews/a.jpg", URL: "http://cdn/previews/a.jpg"}
	f.blobs.On("Store", ctx, mock.Anything, "image/jpeg", ".jpg").Return(blob, nil)
	f.blobs.On("Open", ctx, blob.Key).Return(io.NopCloser(strings.NewReader("jpeg")), nil)

	_, err := f.svc.AttachImage(ctx, id, domain.ProfileBusiness, testPNG(t))
	require.NoError(t, err)
	_, err = f.svc.UpdateProfile(ctx, id, domain.ProfileBusiness, domain.ProfilePatch{
		Name:       domain.Ptr("Acme Labs"),
		DesignMode: domain.Ptr(domain.DesignModeManual),
		Color:      domain.Ptr("#ff0000"),
	})
	require.NoError(t, err)

	record := json.RawMessage(`{"id":"p1"}`)
	f.backend.On("CreateProfile", ctx, "tok",
		mock.MatchedBy(func(s domain.Submission) bool {
			return s.Slug == "acme-labs" && s.ProfileType == domain.ProfileBusiness && s.Image == "" && s.Color == "#ff0000"
		}),
		mock.MatchedBy(func(img *ImageUpload) bool {
			return img != nil && img.Filename == "profile-image.jpg" && img.ContentType == "image/jpeg"
		}),
	).Return(record, nil)

	res, err := f.svc.Submit(ctx, id, domain.ProfileBusiness, "tok")

	require.NoError(t, err)
	assert.Equal(t, "acme-labs", res.Slug)
	assert.Equal(t, "https://linkme.io/acme-labs", res.URL)
	assert.JSONEq(t, `{"id":"p1"}`, string(res.Profile))
}

func TestRenderQR_ClampsSize(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)

	png, err := f.svc.RenderQR(context.Background(), id, domain.ProfilePersonal, 5000)

	require.NoError(t, err)
	assert.Equal(t, "qr:"+domain.ProfileURL(domain.DefaultPublicBaseURL, ""), string(png))
	assert.Equal(t, MaxQRSize, f.qr.lastSize())
}

func TestRenderCard_DegradesWhenImagesFail(t *testing.T) {
	f := newFixture(t)
	id := f.session(t)
	ctx := context.Background()

	bg := pickBackground("")
	_, err := f.svc.UpdateProfile(ctx, id, domain.ProfilePersonal, domain.ProfilePatch{
		Image:        domain.Ptr("https://img.example.com/me.png"),
		DesignMode:   domain.Ptr(domain.DesignModeAI),
		AIBackground: domain.Ptr(bg),
	})
	require.NoError(t, err)

	f.fetcher.On("Fetch", ctx, "https://img.example.com/me.png").Return(testPNG(t), nil)
	f.fetcher.On("Fetch", ctx, bg).Return(nil, errors.New("404"))

	out, err := f.svc.RenderCard(ctx, id, domain.ProfilePersonal)

	require.NoError(t, err)
	assert.Equal(t, []byte("png"), out)
	assert.NotEmpty(t, f.raster.images.Avatar)
	assert.Nil(t, f.raster.images.Background)
	assert.NotEmpty(t, f.raster.images.QR)
	assert.Equal(t, domain.SourceAI, f.raster.preview.Style.Source)
}

func TestResolveStyle(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ResolveStyle(ResolveStyleRequest{Template: "sparkly"})
	assert.ErrorIs(t, err, domain.ErrInvalidTemplate)

	style, err := f.svc.ResolveStyle(ResolveStyleRequest{Template: "glass", DesignMode: domain.DesignModeManual, Color: "#2563eb"})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceManual, style.Source)
	assert.True(t, style.BlurSurface)
}

func TestClampQRSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultQRSize},
		{-5, DefaultQRSize},
		{10, MinQRSize},
		{40, 40},
		{256, 256},
		{4096, MaxQRSize},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampQRSize(tt.in), "size %d", tt.in)
	}
}

func TestSplitPhone(t *testing.T) {
	code, local := splitPhone("+962791234567")
	assert.Equal(t, "+962", code)
	assert.Equal(t, "791234567", local)

	code, local = splitPhone("+1 555 0100")
	assert.Equal(t, "+1", code)
	assert.Equal(t, "555 0100", local)

	code, local = splitPhone("0791234567")
	assert.Empty(t, code)
	assert.Equal(t, "0791234567", local)
}
