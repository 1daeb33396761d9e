package repository

import (
	"context"
	"database/sql"

	"github.com/geopix/server/internal/models"
)

// PhotoRepository handles photo persistence (SQLite)
type PhotoRepository struct {
	db *sql.DB
}

// NewPhotoRepository creates a new PhotoRepository
func NewPhotoRepository(db *sql.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Add inserts a new photo
func (r *PhotoRepository) Add(ctx context.Context, photo *models.Photo) error {
	query := `
		INSERT INTO photos (id, owner_id, stored_path, lat, lng, ai_status, ai_description, ai_error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
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
func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	query := `
		SELECT id, owner_id, stored_path, lat, lng, ai_status, ai_description, ai_error, created_at
		FROM photos WHERE id = ?
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
func (r *PhotoRepository) GetAll(ctx context.Context) ([]*models.Photo, error) {
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
func (r *PhotoRepository) GetByOwner(ctx context.Context, ownerID string) ([]*models.Photo, error) {
	query := `
		SELECT id, owner_id, stored_path, lat, lng, ai_status, ai_description, ai_error, created_at
		FROM photos WHERE owner_id = ? ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPhotos(rows)
}

// UpdateAIResult records an enrichment outcome. A vanished row is a no-op:
// the photo may have been deleted while enrichment was in flight.
func (r *PhotoRepository) UpdateAIResult(ctx context.Context, id string, status models.AIStatus, description, aiError *string) error {
	query := `UPDATE photos SET ai_status = ?, ai_description = ?, ai_error = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, status, description, aiError, id)
	return err
}

// Delete removes a photo row; comments go with it via foreign key cascade
func (r *PhotoRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func scanPhotos(rows *sql.Rows) ([]*models.Photo, error) {
	photos := []*models.Photo{}
	for rows.Next() {
		var photo models.Photo
		if err := rows.Scan(
			&photo.ID,
			&photo.OwnerID,
			&photo.StoredPath,
			&photo.Latitude,
			&photo.Longitude,
			&photo.AIStatus,
			&photo.AIDescription,
			&photo.AIError,
			&photo.CreatedAt,
		); err != nil {
			return nil, err
		}
		photos = append(photos, &photo)
	}

	return photos, rows.Err()
}
