package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/geopix/server/internal/middleware"
	"github.com/geopix/server/internal/models"
	"github.com/geopix/server/internal/services"
	"github.com/geopix/server/internal/vision"
)

type memPhotoRepo struct {
	mu     sync.Mutex
	photos []*models.Photo
}

func (m *memPhotoRepo) Add(ctx context.Context, photo *models.Photo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *photo
	m.photos = append(m.photos, &copied)
	return nil
}

func (m *memPhotoRepo) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.photos {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memPhotoRepo) GetAll(ctx context.Context) ([]*models.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Photo, 0, len(m.photos))
	for i := len(m.photos) - 1; i >= 0; i-- {
		copied := *m.photos[i]
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memPhotoRepo) GetByOwner(ctx context.Context, ownerID string) ([]*models.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Photo{}
	for i := len(m.photos) - 1; i >= 0; i-- {
		if m.photos[i].OwnerID == ownerID {
			copied := *m.photos[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memPhotoRepo) UpdateAIResult(ctx context.Context, id string, status models.AIStatus, description, aiError *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.photos {
		if p.ID == id {
			p.AIStatus = status
			p.AIDescription = description
			p.AIError = aiError
			return nil
		}
	}
	// Vanished rows are ignored
	return nil
}

func (m *memPhotoRepo) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.photos {
		if p.ID == id {
			m.photos = append(m.photos[:i], m.photos[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type memCommentRepo struct {
	mu       sync.Mutex
	comments []*models.Comment
}

func (m *memCommentRepo) Add(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *comment
	m.comments = append(m.comments, &copied)
	return nil
}

func (m *memCommentRepo) GetByPhoto(ctx context.Context, photoID string) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Comment{}
	for _, c := range m.comments {
		if c.PhotoID == photoID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users []*models.User
}

func (m *memUserRepo) Add(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users = append(m.users, &copied)
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ID == id })
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email })
}

func (m *memUserRepo) GetByAPIKeyHash(ctx context.Context, keyHash string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.APIKeyHash == keyHash })
}

func (m *memUserRepo) UpdateAPIKeyHash(ctx context.Context, id, keyHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			u.APIKeyHash = keyHash
		}
	}
	return nil
}

func (m *memUserRepo) find(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// testEnv wires handlers against in-memory repositories, real services, and
// the constant-delay vision backend.
type testEnv struct {
	photos   *memPhotoRepo
	comments *memCommentRepo
	users    *memUserRepo
	storage  *services.PhotoStorageService
	router   chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	photos := &memPhotoRepo{}
	comments := &memCommentRepo{}
	users := &memUserRepo{}

	storage, err := services.NewPhotoStorageService(t.TempDir())
	require.NoError(t, err)

	validator := services.NewUploadValidator(services.NewEXIFService(), 10)
	enrichment := services.NewEnrichmentService(photos, vision.NewMockProvider())

	photoHandler := NewPhotoHandler(photos, storage, validator, enrichment)
	commentHandler := NewCommentHandler(comments, photos)
	authHandler := NewAuthHandler(users)
	healthHandler := NewHealthHandler()

	r := chi.NewRouter()
	r.Get("/health", healthHandler.HealthCheck)
	r.Post("/api/auth/register", authHandler.Register)
	r.Post("/api/auth/login", authHandler.Login)
	r.Post("/api/photos/upload", photoHandler.Upload)
	r.Get("/api/photos", photoHandler.List)
	r.Get("/api/photos/{id}", photoHandler.GetByID)
	r.Delete("/api/photos/{id}", photoHandler.Delete)
	r.Post("/api/photos/{id}/regenerate", photoHandler.Regenerate)
	r.Get("/api/photos/{id}/comments", commentHandler.List)
	r.Post("/api/photos/{id}/comments", commentHandler.Add)

	return &testEnv{
		photos:   photos,
		comments: comments,
		users:    users,
		storage:  storage,
		router:   r,
	}
}

// do serves the request, optionally authenticated as the given user
func (e *testEnv) do(req *http.Request, user *models.User) *httptest.ResponseRecorder {
	if user != nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, user))
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) addUser(t *testing.T, email string) *models.User {
	t.Helper()

	user, err := models.NewUser(email, "Test User")
	require.NoError(t, err)
	require.NoError(t, e.users.Add(context.Background(), user))
	return user
}

func (e *testEnv) addPhoto(t *testing.T, ownerID string) *models.Photo {
	t.Helper()

	photo, err := models.NewPhoto(ownerID, "2024/05/fixture.jpg", 48.8584, 2.2945)
	require.NoError(t, err)
	require.NoError(t, e.photos.Add(context.Background(), photo))
	return photo
}

// multipartUpload builds a multipart upload request with one file part
func multipartUpload(t *testing.T, content []byte, contentType string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="photo.jpg"`)
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/photos/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
