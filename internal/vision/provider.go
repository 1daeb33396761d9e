package vision

import (
	"context"
	"strings"

	"github.com/geopix/server/internal/config"
)

// Provider generates a textual description for a stored photo.
// Implementations must be safe for concurrent use.
type Provider interface {
	Name() string
	Describe(ctx context.Context, storedPath string) (string, error)
}

// Error is a classification for provider failures
type Error struct {
	Message string
}

func (e Error) Error() string {
	return e.Message
}

var (
	// ErrUnavailable means the backend could not be reached at all
	ErrUnavailable = Error{"vision backend unreachable"}
	// ErrProvider means the backend replied but the result is unusable
	ErrProvider = Error{"vision backend returned an unusable response"}
)

// New selects a provider from configuration. Unrecognized or absent values
// fall back to the deterministic mock backend.
func New(cfg config.Vision, storageBasePath string) Provider {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "ollama":
		return NewOllamaProvider(storageBasePath, cfg.OllamaURL, cfg.OllamaModel)
	default:
		return NewMockProvider()
	}
}
