package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/geopix/server/internal/middleware"
	"github.com/geopix/server/internal/models"
	"github.com/geopix/server/internal/observability"
	"github.com/geopix/server/internal/repository"
	"github.com/geopix/server/internal/services"
)

// PhotoHandler handles photo-related endpoints
type PhotoHandler struct {
	repo           repository.PhotoRepo
	storageService *services.PhotoStorageService
	validator      *services.UploadValidator
	enrichment     *services.EnrichmentService
	uploadMetrics  *observability.UploadMetrics
}

// NewPhotoHandler creates a new PhotoHandler
func NewPhotoHandler(
	repo repository.PhotoRepo,
	storageService *services.PhotoStorageService,
	validator *services.UploadValidator,
	enrichment *services.EnrichmentService,
) *PhotoHandler {
	uploadMetrics, err := observability.NewUploadMetrics()
	if err != nil {
		observability.Warnf("Failed to create upload metrics: %v", err)
	}

	return &PhotoHandler{
		repo:           repo,
		storageService: storageService,
		validator:      validator,
		enrichment:     enrichment,
		uploadMetrics:  uploadMetrics,
	}
}

// Upload handles photo upload
// @Summary Upload a geotagged photo
// @Description Upload a JPEG with embedded GPS EXIF data. Enrichment starts in the background.
// @Tags photos
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "JPEG file to upload"
// @Success 201 {object} models.PhotoResponse "Photo created, enrichment pending"
// @Failure 400 {object} models.ErrorResponse "Invalid upload"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid API key"
// @Failure 500 {object} models.ErrorResponse "Server error"
// @Security ApiKeyAuth
// @Router /api/photos/upload [post]
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.respondError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.respondError(w, http.StatusBadRequest, "Request must be multipart/form-data.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "No file provided or file is empty.")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to read file.")
		return
	}

	contentType := header.Header.Get("Content-Type")
	lat, lng, err := h.validator.Validate(content, contentType, int64(len(content)))
	if err != nil {
		h.recordUpload(r, int64(len(content)), false)
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	storedPath, err := h.storageService.Store(content, time.Now().UTC())
	if err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to store photo: %v", err)
		h.recordUpload(r, int64(len(content)), false)
		h.respondError(w, http.StatusInternalServerError, "Failed to store file.")
		return
	}

	photo, err := models.NewPhoto(user.ID, storedPath, lat, lng)
	if err != nil {
		h.storageService.Delete(storedPath) // Clean up
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Add(r.Context(), photo); err != nil {
		h.storageService.Delete(storedPath) // Clean up
		observability.WithContext(r.Context()).Errorf("Failed to save photo: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.recordUpload(r, int64(len(content)), true)
	h.enrichment.Dispatch(photo.ID, photo.StoredPath)

	h.respondJSON(w, http.StatusCreated, models.PhotoToResponse(photo))
}

// List handles photo listing
// @Summary List photos
// @Description Returns photo markers newest first. Use scope=mine for own photos only.
// @Tags photos
// @Produce json
// @Param scope query string false "Listing scope: all (default) or mine"
// @Success 200 {array} models.PhotoMarker "Photo markers"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid API key"
// @Failure 500 {object} models.ErrorResponse "Server error"
// @Security ApiKeyAuth
// @Router /api/photos [get]
func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.respondError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	var photos []*models.Photo
	var err error

	if r.URL.Query().Get("scope") == "mine" {
		photos, err = h.repo.GetByOwner(r.Context(), user.ID)
	} else {
		photos, err = h.repo.GetAll(r.Context())
	}
	if err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to list photos: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	markers := make([]models.PhotoMarker, 0, len(photos))
	for _, p := range photos {
		markers = append(markers, models.PhotoToMarker(p))
	}

	h.respondJSON(w, http.StatusOK, markers)
}

// GetByID handles photo detail retrieval
// @Summary Get photo detail
// @Description Returns the full photo record including enrichment state
// @Tags photos
// @Produce json
// @Param id path string true "Photo ID"
// @Success 200 {object} models.PhotoResponse "Photo detail"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid API key"
// @Failure 404 {object} models.ErrorResponse "Photo not found"
// @Security ApiKeyAuth
// @Router /api/photos/{id} [get]
func (h *PhotoHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "id")

	photo, err := h.repo.GetByID(r.Context(), photoID)
	if err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to get photo %s: %v", photoID, err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if photo == nil {
		h.respondError(w, http.StatusNotFound, "Photo not found.")
		return
	}

	h.respondJSON(w, http.StatusOK, models.PhotoToResponse(photo))
}

// Delete handles photo deletion
// @Summary Delete a photo
// @Description Deletes an owned photo, its comments, and its stored file. Non-owners get 404.
// @Tags photos
// @Produce json
// @Param id path string true "Photo ID"
// @Success 200 {object} models.DeleteResponse "Photo deleted"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid API key"
// @Failure 404 {object} models.ErrorResponse "Photo not found"
// @Failure 500 {object} models.ErrorResponse "Server error"
// @Security ApiKeyAuth
// @Router /api/photos/{id} [delete]
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.respondError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	photo, ok := h.loadOwnedPhoto(w, r, user.ID)
	if !ok {
		return
	}

	deleted, err := h.repo.Delete(r.Context(), photo.ID)
	if err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to delete photo %s: %v", photo.ID, err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if !deleted {
		h.respondError(w, http.StatusNotFound, "Photo not found.")
		return
	}

	// Best-effort: the record is gone either way
	if !h.storageService.Delete(photo.StoredPath) {
		observability.WithContext(r.Context()).
			Warnf("Stored file not removed for photo %s: %s", photo.ID, photo.StoredPath)
	}

	h.respondJSON(w, http.StatusOK, models.DeleteResponse{Deleted: true})
}

// Regenerate handles enrichment re-runs
// @Summary Regenerate a photo description
// @Description Resets an owned photo to the pending state and starts enrichment again. Non-owners get 404.
// @Tags photos
// @Produce json
// @Param id path string true "Photo ID"
// @Success 200 {object} models.RegenerateResponse "Enrichment restarted"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid API key"
// @Failure 404 {object} models.ErrorResponse "Photo not found"
// @Failure 500 {object} models.ErrorResponse "Server error"
// @Security ApiKeyAuth
// @Router /api/photos/{id}/regenerate [post]
func (h *PhotoHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.respondError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	photo, ok := h.loadOwnedPhoto(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.repo.UpdateAIResult(r.Context(), photo.ID, models.AIStatusPending, nil, nil); err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to reset photo %s: %v", photo.ID, err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.enrichment.Dispatch(photo.ID, photo.StoredPath)

	h.respondJSON(w, http.StatusOK, models.RegenerateResponse{AIStatus: models.AIStatusPending})
}

// loadOwnedPhoto fetches a photo and enforces ownership. A photo owned by
// someone else is reported as missing so the endpoint does not leak existence.
func (h *PhotoHandler) loadOwnedPhoto(w http.ResponseWriter, r *http.Request, userID string) (*models.Photo, bool) {
	photoID := chi.URLParam(r, "id")

	photo, err := h.repo.GetByID(r.Context(), photoID)
	if err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to get photo %s: %v", photoID, err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return nil, false
	}
	if photo == nil || photo.OwnerID != userID {
		h.respondError(w, http.StatusNotFound, "Photo not found.")
		return nil, false
	}

	return photo, true
}

func (h *PhotoHandler) recordUpload(r *http.Request, size int64, success bool) {
	if h.uploadMetrics == nil {
		return
	}
	h.uploadMetrics.RecordUpload(r.Context(), size, success)
}

func (h *PhotoHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *PhotoHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, models.ErrorResponse{Error: message})
}
