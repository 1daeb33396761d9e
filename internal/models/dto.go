package models

import "time"

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// PhotoMarker is the minimal list representation used by the map view.
// No description or error payload - list is a marker feed, not a detail feed.
type PhotoMarker struct {
	ID        string    `json:"id"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	CreatedAt time.Time `json:"createdAt"`
}

// PhotoResponse is the full photo representation returned by detail and upload
type PhotoResponse struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	Latitude      float64   `json:"lat"`
	Longitude     float64   `json:"lng"`
	AIStatus      AIStatus  `json:"aiStatus"`
	AIDescription *string   `json:"aiDescription,omitempty"`
	AIError       *string   `json:"aiError,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PhotoToMarker converts a Photo to its marker representation
func PhotoToMarker(p *Photo) PhotoMarker {
	return PhotoMarker{
		ID:        p.ID,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		CreatedAt: p.CreatedAt,
	}
}

// PhotoToResponse converts a Photo to its API representation
func PhotoToResponse(p *Photo) PhotoResponse {
	return PhotoResponse{
		ID:            p.ID,
		OwnerID:       p.OwnerID,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
		AIStatus:      p.AIStatus,
		AIDescription: p.AIDescription,
		AIError:       p.AIError,
		CreatedAt:     p.CreatedAt,
	}
}

// DeleteResponse confirms a successful photo deletion
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// RegenerateResponse reports the reset enrichment state
type RegenerateResponse struct {
	AIStatus AIStatus `json:"aiStatus"`
}

// RegisterRequest is the request body for creating an account
type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

// LoginRequest is the request body for exchanging credentials for an API key
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the API key for subsequent requests
type LoginResponse struct {
	APIKey string `json:"apiKey"`
}

// AddCommentRequest is the request body for appending a comment
type AddCommentRequest struct {
	Content string `json:"content"`
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
