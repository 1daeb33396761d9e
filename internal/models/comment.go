package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxCommentLength is the maximum number of characters in a trimmed comment
const MaxCommentLength = 500

// Comment is an append-only remark on a photo. Comments belong to the photo,
// not the commenter, and are removed only when the photo is deleted.
type Comment struct {
	ID        string    `json:"id"`
	PhotoID   string    `json:"photoId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewComment creates a comment after trimming and validating its content
func NewComment(photoID, authorID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || len([]rune(content)) > MaxCommentLength {
		return nil, ErrInvalidComment
	}

	return &Comment{
		ID:        uuid.New().String(),
		PhotoID:   photoID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}, nil
}

type CommentError struct {
	Message string
}

func (e CommentError) Error() string {
	return e.Message
}

var ErrInvalidComment = CommentError{"comment must be between 1 and 500 characters"}
