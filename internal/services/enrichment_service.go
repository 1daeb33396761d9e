package services

import (
	"context"
	"time"

	"github.com/geopix/server/internal/models"
	"github.com/geopix/server/internal/observability"
	"github.com/geopix/server/internal/repository"
	"github.com/geopix/server/internal/vision"
)

// EnrichmentService drives a photo from PENDING to DONE or ERROR by asking
// the vision backend for a description off the request path. Dispatch is
// fire-and-forget: the caller keeps no handle and the work cannot be awaited
// or cancelled. If the process dies first, the photo stays PENDING until a
// user regenerates it.
type EnrichmentService struct {
	photos   repository.PhotoRepo
	provider vision.Provider
	metrics  *observability.EnrichmentMetrics
}

// NewEnrichmentService creates a new EnrichmentService
func NewEnrichmentService(photos repository.PhotoRepo, provider vision.Provider) *EnrichmentService {
	metrics, err := observability.NewEnrichmentMetrics()
	if err != nil {
		observability.Warnf("Failed to create enrichment metrics: %v", err)
	}

	return &EnrichmentService{
		photos:   photos,
		provider: provider,
		metrics:  metrics,
	}
}

// Dispatch starts enrichment for a photo in the background and returns
// immediately. Overlapping dispatches for the same photo are not serialized;
// the last completed write wins.
func (s *EnrichmentService) Dispatch(photoID, storedPath string) {
	go s.enrich(photoID, storedPath)
}

func (s *EnrichmentService) enrich(photoID, storedPath string) {
	// Deliberately detached from the request context: the triggering request
	// has already returned. No timeout - a hung backend leaves the photo
	// PENDING with regenerate as the only remedy.
	ctx := context.Background()
	start := time.Now()

	description, err := s.provider.Describe(ctx, storedPath)
	if err != nil {
		message := err.Error()
		s.record(ctx, "error", time.Since(start))
		observability.WithField("photo_id", photoID).
			Warnf("Enrichment failed via %s: %v", s.provider.Name(), err)

		if uerr := s.photos.UpdateAIResult(ctx, photoID, models.AIStatusError, nil, &message); uerr != nil {
			observability.Errorf("Failed to record enrichment error for %s: %v", photoID, uerr)
		}
		return
	}

	s.record(ctx, "done", time.Since(start))
	observability.WithField("photo_id", photoID).
		Infof("Enrichment done via %s in %s", s.provider.Name(), time.Since(start).Round(time.Millisecond))

	if uerr := s.photos.UpdateAIResult(ctx, photoID, models.AIStatusDone, &description, nil); uerr != nil {
		observability.Errorf("Failed to record enrichment result for %s: %v", photoID, uerr)
	}
}

func (s *EnrichmentService) record(ctx context.Context, outcome string, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordOutcome(ctx, s.provider.Name(), outcome, duration)
}
