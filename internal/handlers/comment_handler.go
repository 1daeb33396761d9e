package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/geopix/server/internal/middleware"
	"github.com/geopix/server/internal/models"
	"github.com/geopix/server/internal/observability"
	"github.com/geopix/server/internal/repository"
)

// CommentHandler handles photo comment endpoints
type CommentHandler struct {
	comments repository.CommentRepo
	photos   repository.PhotoRepo
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments repository.CommentRepo, photos repository.PhotoRepo) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		photos:   photos,
	}
}

// List handles comment listing for a photo
// @Summary List comments
// @Description Returns a photo's comments, oldest first
// @Tags comments
// @Produce json
// @Param id path string true "Photo ID"
// @Success 200 {array} models.Comment "Comments"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid API key"
// @Failure 404 {object} models.ErrorResponse "Photo not found"
// @Security ApiKeyAuth
// @Router /api/photos/{id}/comments [get]
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	photo, ok := h.loadPhoto(w, r)
	if !ok {
		return
	}

	comments, err := h.comments.GetByPhoto(r.Context(), photo.ID)
	if err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to list comments for %s: %v", photo.ID, err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.respondJSON(w, http.StatusOK, comments)
}

// Add handles comment creation
// @Summary Add a comment
// @Description Appends a comment to a photo. Content is trimmed and limited to 500 characters.
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Photo ID"
// @Param comment body models.AddCommentRequest true "Comment content"
// @Success 201 {object} models.Comment "Comment created"
// @Failure 400 {object} models.ErrorResponse "Invalid comment"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid API key"
// @Failure 404 {object} models.ErrorResponse "Photo not found"
// @Security ApiKeyAuth
// @Router /api/photos/{id}/comments [post]
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		h.respondError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	photo, ok := h.loadPhoto(w, r)
	if !ok {
		return
	}

	var req models.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	comment, err := models.NewComment(photo.ID, user.ID, req.Content)
	if err != nil {
		if errors.Is(err, models.ErrInvalidComment) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, http.StatusBadRequest, "Invalid comment.")
		return
	}

	if err := h.comments.Add(r.Context(), comment); err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to save comment for %s: %v", photo.ID, err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.respondJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) loadPhoto(w http.ResponseWriter, r *http.Request) (*models.Photo, bool) {
	photoID := chi.URLParam(r, "id")

	photo, err := h.photos.GetByID(r.Context(), photoID)
	if err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to get photo %s: %v", photoID, err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return nil, false
	}
	if photo == nil {
		h.respondError(w, http.StatusNotFound, "Photo not found.")
		return nil, false
	}

	return photo, true
}

func (h *CommentHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *CommentHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, models.ErrorResponse{Error: message})
}
