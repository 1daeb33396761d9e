package repository

import (
	"context"
	"database/sql"

	"github.com/geopix/server/internal/models"
)

// PhotoRepositoryPostgres handles photo persistence (PostgreSQL)
type PhotoRepositoryPostgres struct {
	db *sql.DB
}

// NewPhotoRepositoryPostgres creates a new PhotoRepositoryPostgres
func NewPhotoRepositoryPostgres(db *sql.DB) *PhotoRepositoryPostgres {
	return &PhotoRepositoryPostgres{db: db}
}

// Add inserts a new photo
func (r *PhotoRepositoryPostgres) Add(ctx context.Context, photo *models.Photo) error {
	query := `
		INSERT INTO photos (id, owner_id, stored_path, lat, lng, ai_status, ai_description, ai_error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		photo.ID,
		photo.OwnerID,
		photo.StoredPath,
		photo.Latitude,
		photo.Longitude,
		photo.AIStatus,
		photo.AIDescription,
		photo.AIError,
		photo.CreatedAt,
	)
	return err
}

// GetByID retrieves a photo by its ID
func (r *PhotoRepositoryPostgres) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	query := `
		SELECT id, owner_id, stored_path, lat, lng, ai_status, ai_description, ai_error, created_at
		FROM photos WHERE id = $1
	`

	var photo models.Photo
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&photo.ID,
		&photo.OwnerID,
		&photo.StoredPath,
		&photo.Latitude,
		&photo.Longitude,
		&photo.AIStatus,
		&photo.AIDescription,
		&photo.AIError,
		&photo.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &photo, nil
}

// GetAll returns every photo, newest first
func (r *PhotoRepositoryPostgres) GetAll(ctx context.Context) ([]*models.Photo, error) {
	query := `
		SELECT id, owner_id, stored_path, lat, lng, ai_status, ai_description, ai_error, created_at
		FROM photos ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPhotos(rows)
}

// GetByOwner returns the owner's photos, newest first
func (r *PhotoRepositoryPostgres) GetByOwner(ctx context.Context, ownerID string) ([]*models.Photo, error) {
	query := `
		SELECT id, owner_id, stored_path, lat, lng, ai_status, ai_description, ai_error, created_at
		FROM photos WHERE owner_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPhotos(rows)
}

// UpdateAIResult records an enrichment outcome; a vanished row is a no-op
func (r *PhotoRepositoryPostgres) UpdateAIResult(ctx context.Context, id string, status models.AIStatus, description, aiError *string) error {
	query := `UPDATE photos SET ai_status = $1, ai_description = $2, ai_error = $3 WHERE id = $4`

	_, err := r.db.ExecContext(ctx, query, status, description, aiError, id)
	return err
}

// Delete removes a photo row; comments go with it via foreign key cascade
func (r *PhotoRepositoryPostgres) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
