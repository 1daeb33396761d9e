package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoto(t *testing.T) {
	t.Run("creates photo in pending state", func(t *testing.T) {
		photo, err := NewPhoto("user-1", "2024/03/abc.jpg", 48.8584, 2.2945)
		require.NoError(t, err)

		assert.NotEmpty(t, photo.ID)
		assert.Equal(t, "user-1", photo.OwnerID)
		assert.Equal(t, AIStatusPending, photo.AIStatus)
		assert.Nil(t, photo.AIDescription)
		assert.Nil(t, photo.AIError)
		assert.InDelta(t, 48.8584, photo.Latitude, 1e-9)
		assert.InDelta(t, 2.2945, photo.Longitude, 1e-9)
		assert.False(t, photo.CreatedAt.IsZero())
	})

	t.Run("rejects empty owner", func(t *testing.T) {
		_, err := NewPhoto("  ", "path.jpg", 1, 2)
		assert.Equal(t, ErrEmptyOwner, err)
	})

	t.Run("rejects empty stored path", func(t *testing.T) {
		_, err := NewPhoto("user-1", "", 1, 2)
		assert.Equal(t, ErrEmptyStoredPath, err)
	})

	t.Run("accepts out of range coordinates unchecked", func(t *testing.T) {
		// Corrupt EXIF triples can produce |lat| > 90; they are stored as-is.
		photo, err := NewPhoto("user-1", "path.jpg", 123.45, -987.6)
		require.NoError(t, err)
		assert.InDelta(t, 123.45, photo.Latitude, 1e-9)
	})

	t.Run("generates unique ids", func(t *testing.T) {
		a, err := NewPhoto("user-1", "a.jpg", 1, 2)
		require.NoError(t, err)
		b, err := NewPhoto("user-1", "b.jpg", 1, 2)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestNewComment(t *testing.T) {
	t.Run("trims and accepts valid content", func(t *testing.T) {
		c, err := NewComment("photo-1", "user-2", "  nice shot  ")
		require.NoError(t, err)
		assert.Equal(t, "nice shot", c.Content)
		assert.Equal(t, "photo-1", c.PhotoID)
		assert.Equal(t, "user-2", c.AuthorID)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		_, err := NewComment("photo-1", "user-2", "   ")
		assert.Equal(t, ErrInvalidComment, err)
	})

	t.Run("accepts exactly 500 characters after trim", func(t *testing.T) {
		content := "  " + strings.Repeat("x", 500) + "  "
		c, err := NewComment("photo-1", "user-2", content)
		require.NoError(t, err)
		assert.Len(t, c.Content, 500)
	})

	t.Run("rejects 501 characters", func(t *testing.T) {
		_, err := NewComment("photo-1", "user-2", strings.Repeat("x", 501))
		assert.Equal(t, ErrInvalidComment, err)
	})
}

func TestUserAPIKey(t *testing.T) {
	t.Run("new user gets hashed api key", func(t *testing.T) {
		user, err := NewUser("Alice@Example.com", " Alice ")
		require.NoError(t, err)

		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "Alice", user.DisplayName)
		assert.Len(t, user.APIKey, 64)
		assert.Equal(t, HashAPIKey(user.APIKey), user.APIKeyHash)
		assert.True(t, user.IsActive)
	})

	t.Run("password round trip", func(t *testing.T) {
		user, err := NewUser("bob@example.com", "Bob")
		require.NoError(t, err)

		require.NoError(t, user.SetPassword("correct-horse"))
		assert.True(t, user.VerifyPassword("correct-horse"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("short password rejected", func(t *testing.T) {
		user, err := NewUser("bob@example.com", "Bob")
		require.NoError(t, err)
		assert.Equal(t, ErrPasswordTooShort, user.SetPassword("short"))
	})
}
