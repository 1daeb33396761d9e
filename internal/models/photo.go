package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AIStatus tracks the enrichment state of a photo
type AIStatus string

const (
	AIStatusPending AIStatus = "PENDING"
	AIStatusDone    AIStatus = "DONE"
	AIStatusError   AIStatus = "ERROR"
)

// Photo represents an uploaded geotagged photo
type Photo struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	StoredPath    string    `json:"storedPath"`
	Latitude      float64   `json:"lat"`
	Longitude     float64   `json:"lng"`
	AIStatus      AIStatus  `json:"aiStatus"`
	AIDescription *string   `json:"aiDescription,omitempty"`
	AIError       *string   `json:"aiError,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewPhoto creates a new Photo in the PENDING enrichment state
func NewPhoto(ownerID, storedPath string, lat, lng float64) (*Photo, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrEmptyOwner
	}
	if strings.TrimSpace(storedPath) == "" {
		return nil, ErrEmptyStoredPath
	}

	return &Photo{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		StoredPath: storedPath,
		Latitude:   lat,
		Longitude:  lng,
		AIStatus:   AIStatusPending,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Errors
type PhotoError struct {
	Message string
}

func (e PhotoError) Error() string {
	return e.Message
}

var (
	ErrEmptyOwner       = PhotoError{"owner id cannot be empty"}
	ErrEmptyStoredPath  = PhotoError{"stored path cannot be empty"}
	ErrPhotoNotFound    = PhotoError{"photo not found"}
	ErrInvalidMediaType = PhotoError{"content type not allowed"}
	ErrPayloadTooLarge  = PhotoError{"file size exceeds maximum allowed"}
	ErrMissingLocation  = PhotoError{"photo has no GPS coordinates"}
	ErrPathTraversal    = PhotoError{"invalid path - path traversal detected"}
)
