package repository

import (
	"context"
	"database/sql"

	"github.com/geopix/server/internal/models"
)

// CommentRepository handles comment persistence (SQLite)
type CommentRepository struct {
	db *sql.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Add inserts a new comment
func (r *CommentRepository) Add(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, photo_id, author_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		comment.ID,
		comment.PhotoID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
	)
	return err
}

// GetByPhoto returns a photo's comments, oldest first
func (r *CommentRepository) GetByPhoto(ctx context.Context, photoID string) ([]*models.Comment, error) {
	query := `
		SELECT id, photo_id, author_id, content, created_at
		FROM comments WHERE photo_id = ? ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, photoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanComments(rows)
}

func scanComments(rows *sql.Rows) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.PhotoID,
			&comment.AuthorID,
			&comment.Content,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}

	return comments, rows.Err()
}
