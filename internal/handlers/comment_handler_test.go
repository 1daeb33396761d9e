package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geopix/server/internal/models"
)

func commentRequest(photoID, content string) *http.Request {
	body, _ := json.Marshal(models.AddCommentRequest{Content: content})
	req := httptest.NewRequest(http.MethodPost, "/api/photos/"+photoID+"/comments", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCommentHandler_Add(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "alice@example.com")
	bob := env.addUser(t, "bob@example.com")
	photo := env.addPhoto(t, alice.ID)

	t.Run("any authenticated user can comment", func(t *testing.T) {
		rec := env.do(commentRequest(photo.ID, "great shot"), bob)
		require.Equal(t, http.StatusCreated, rec.Code)

		var comment models.Comment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comment))
		assert.Equal(t, photo.ID, comment.PhotoID)
		assert.Equal(t, bob.ID, comment.AuthorID)
		assert.Equal(t, "great shot", comment.Content)
		assert.NotEmpty(t, comment.ID)
	})

	t.Run("content is trimmed", func(t *testing.T) {
		rec := env.do(commentRequest(photo.ID, "  padded  "), alice)
		require.Equal(t, http.StatusCreated, rec.Code)

		var comment models.Comment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comment))
		assert.Equal(t, "padded", comment.Content)
	})

	t.Run("whitespace-only content is rejected", func(t *testing.T) {
		rec := env.do(commentRequest(photo.ID, "   \t\n  "), alice)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("500 characters is the ceiling", func(t *testing.T) {
		rec := env.do(commentRequest(photo.ID, strings.Repeat("a", 500)), alice)
		assert.Equal(t, http.StatusCreated, rec.Code)

		rec = env.do(commentRequest(photo.ID, strings.Repeat("a", 501)), alice)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("length is counted in characters not bytes", func(t *testing.T) {
		// 500 two-byte runes
		rec := env.do(commentRequest(photo.ID, strings.Repeat("é", 500)), alice)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("unknown photo is 404", func(t *testing.T) {
		rec := env.do(commentRequest("no-such-photo", "hello"), alice)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/photos/"+photo.ID+"/comments", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		rec := env.do(req, alice)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCommentHandler_List(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "alice@example.com")
	bob := env.addUser(t, "bob@example.com")
	photo := env.addPhoto(t, alice.ID)

	t.Run("empty photo lists no comments", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/api/photos/"+photo.ID+"/comments", nil), alice)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("comments come back oldest first", func(t *testing.T) {
		for _, content := range []string{"first", "second", "third"} {
			rec := env.do(commentRequest(photo.ID, content), bob)
			require.Equal(t, http.StatusCreated, rec.Code)
		}

		rec := env.do(httptest.NewRequest(http.MethodGet, "/api/photos/"+photo.ID+"/comments", nil), alice)
		require.Equal(t, http.StatusOK, rec.Code)

		var comments []models.Comment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
		require.Len(t, comments, 3)
		assert.Equal(t, "first", comments[0].Content)
		assert.Equal(t, "second", comments[1].Content)
		assert.Equal(t, "third", comments[2].Content)
	})

	t.Run("unknown photo is 404", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/api/photos/nope/comments", nil), alice)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
