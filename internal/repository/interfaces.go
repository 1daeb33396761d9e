package repository

import (
	"context"

	"github.com/geopix/server/internal/models"
)

// PhotoRepo defines photo persistence operations
type PhotoRepo interface {
	Add(ctx context.Context, photo *models.Photo) error
	// GetByID returns nil, nil when no photo exists with that id
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	// GetAll returns every photo, newest first
	GetAll(ctx context.Context) ([]*models.Photo, error)
	// GetByOwner returns the owner's photos, newest first
	GetByOwner(ctx context.Context, ownerID string) ([]*models.Photo, error)
	// UpdateAIResult records an enrichment outcome. Updating a row that no
	// longer exists is a no-op, not an error: the photo may have been
	// deleted while enrichment was in flight.
	UpdateAIResult(ctx context.Context, id string, status models.AIStatus, description, aiError *string) error
	// Delete removes a photo row, cascading to its comments. Returns false
	// when nothing was deleted.
	Delete(ctx context.Context, id string) (bool, error)
}

// CommentRepo defines comment persistence operations
type CommentRepo interface {
	Add(ctx context.Context, comment *models.Comment) error
	// GetByPhoto returns a photo's comments, oldest first
	GetByPhoto(ctx context.Context, photoID string) ([]*models.Comment, error)
}

// UserRepo defines user persistence operations
type UserRepo interface {
	Add(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByAPIKeyHash(ctx context.Context, keyHash string) (*models.User, error)
	// UpdateAPIKeyHash replaces the user's API key hash, invalidating the old key
	UpdateAPIKeyHash(ctx context.Context, id, keyHash string) error
}
