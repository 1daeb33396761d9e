package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geopix/server/internal/models"
)

func newTestDB(t *testing.T) (*PhotoRepository, *CommentRepository, *UserRepository) {
	t.Helper()

	db, err := NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPhotoRepository(db), NewCommentRepository(db), NewUserRepository(db)
}

func newTestUser(t *testing.T, users *UserRepository, email string) *models.User {
	t.Helper()

	user, err := models.NewUser(email, "Test User")
	require.NoError(t, err)
	require.NoError(t, users.Add(context.Background(), user))
	return user
}

func newTestPhoto(t *testing.T, ownerID string, createdAt time.Time) *models.Photo {
	t.Helper()

	photo, err := models.NewPhoto(ownerID, "2024/05/test.jpg", 48.8584, 2.2945)
	require.NoError(t, err)
	photo.CreatedAt = createdAt
	return photo
}

func TestPhotoRepository_AddAndGetByID(t *testing.T) {
	photos, _, users := newTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, users, "owner@example.com")

	photo := newTestPhoto(t, owner.ID, time.Now().UTC().Truncate(time.Second))
	require.NoError(t, photos.Add(ctx, photo))

	got, err := photos.GetByID(ctx, photo.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, photo.ID, got.ID)
	assert.Equal(t, owner.ID, got.OwnerID)
	assert.Equal(t, models.AIStatusPending, got.AIStatus)
	assert.InDelta(t, 48.8584, got.Latitude, 1e-9)
	assert.Nil(t, got.AIDescription)
	assert.Nil(t, got.AIError)
}

func TestPhotoRepository_GetByIDMissing(t *testing.T) {
	photos, _, _ := newTestDB(t)

	got, err := photos.GetByID(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPhotoRepository_ListOrdering(t *testing.T) {
	photos, _, users := newTestDB(t)
	ctx := context.Background()
	alice := newTestUser(t, users, "alice@example.com")
	bob := newTestUser(t, users, "bob@example.com")

	base := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)
	oldest := newTestPhoto(t, alice.ID, base)
	middle := newTestPhoto(t, bob.ID, base.Add(time.Second))
	newest := newTestPhoto(t, alice.ID, base.Add(2*time.Second))

	for _, p := range []*models.Photo{middle, oldest, newest} {
		require.NoError(t, photos.Add(ctx, p))
	}

	all, err := photos.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, newest.ID, all[0].ID)
	assert.Equal(t, middle.ID, all[1].ID)
	assert.Equal(t, oldest.ID, all[2].ID)

	mine, err := photos.GetByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newest.ID, mine[0].ID)
	assert.Equal(t, oldest.ID, mine[1].ID)
}

func TestPhotoRepository_UpdateAIResult(t *testing.T) {
	photos, _, users := newTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, users, "owner@example.com")

	photo := newTestPhoto(t, owner.ID, time.Now().UTC().Truncate(time.Second))
	require.NoError(t, photos.Add(ctx, photo))

	description := "a lighthouse at dusk"
	require.NoError(t, photos.UpdateAIResult(ctx, photo.ID, models.AIStatusDone, &description, nil))

	got, err := photos.GetByID(ctx, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AIStatusDone, got.AIStatus)
	require.NotNil(t, got.AIDescription)
	assert.Equal(t, description, *got.AIDescription)
	assert.Nil(t, got.AIError)

	message := "backend unreachable"
	require.NoError(t, photos.UpdateAIResult(ctx, photo.ID, models.AIStatusError, nil, &message))

	got, err = photos.GetByID(ctx, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AIStatusError, got.AIStatus)
	assert.Nil(t, got.AIDescription)
	require.NotNil(t, got.AIError)
	assert.Equal(t, message, *got.AIError)
}

func TestPhotoRepository_UpdateAIResultAfterDelete(t *testing.T) {
	photos, _, users := newTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, users, "owner@example.com")

	photo := newTestPhoto(t, owner.ID, time.Now().UTC().Truncate(time.Second))
	require.NoError(t, photos.Add(ctx, photo))

	deleted, err := photos.Delete(ctx, photo.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// The row is gone; recording the late result must not fail
	description := "too late"
	assert.NoError(t, photos.UpdateAIResult(ctx, photo.ID, models.AIStatusDone, &description, nil))

	got, err := photos.GetByID(ctx, photo.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPhotoRepository_DeleteCascadesComments(t *testing.T) {
	photos, comments, users := newTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, users, "owner@example.com")

	photo := newTestPhoto(t, owner.ID, time.Now().UTC().Truncate(time.Second))
	require.NoError(t, photos.Add(ctx, photo))

	comment, err := models.NewComment(photo.ID, owner.ID, "lovely spot")
	require.NoError(t, err)
	require.NoError(t, comments.Add(ctx, comment))

	deleted, err := photos.Delete(ctx, photo.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	remaining, err := comments.GetByPhoto(ctx, photo.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestPhotoRepository_DeleteMissing(t *testing.T) {
	photos, _, _ := newTestDB(t)

	deleted, err := photos.Delete(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCommentRepository_Ordering(t *testing.T) {
	photos, comments, users := newTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, users, "owner@example.com")

	photo := newTestPhoto(t, owner.ID, time.Now().UTC().Truncate(time.Second))
	require.NoError(t, photos.Add(ctx, photo))

	base := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)
	first, err := models.NewComment(photo.ID, owner.ID, "first")
	require.NoError(t, err)
	first.CreatedAt = base
	second, err := models.NewComment(photo.ID, owner.ID, "second")
	require.NoError(t, err)
	second.CreatedAt = base.Add(time.Second)

	// Insert newest first to prove ordering comes from timestamps
	require.NoError(t, comments.Add(ctx, second))
	require.NoError(t, comments.Add(ctx, first))

	got, err := comments.GetByPhoto(ctx, photo.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Content)
	assert.Equal(t, "second", got[1].Content)
}

func TestUserRepository_Lookups(t *testing.T) {
	_, _, users := newTestDB(t)
	ctx := context.Background()

	user, err := models.NewUser("Someone@Example.com", "Someone")
	require.NoError(t, err)
	require.NoError(t, users.Add(ctx, user))

	byEmail, err := users.GetByEmail(ctx, "someone@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	byHash, err := users.GetByAPIKeyHash(ctx, user.APIKeyHash)
	require.NoError(t, err)
	require.NotNil(t, byHash)
	assert.Equal(t, user.ID, byHash.ID)

	missing, err := users.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_UpdateAPIKeyHash(t *testing.T) {
	_, _, users := newTestDB(t)
	ctx := context.Background()

	user, err := models.NewUser("rotate@example.com", "Rotate")
	require.NoError(t, err)
	require.NoError(t, users.Add(ctx, user))

	newKey, err := models.GenerateAPIKey()
	require.NoError(t, err)
	newHash := models.HashAPIKey(newKey)
	require.NoError(t, users.UpdateAPIKeyHash(ctx, user.ID, newHash))

	old, err := users.GetByAPIKeyHash(ctx, user.APIKeyHash)
	require.NoError(t, err)
	assert.Nil(t, old)

	rotated, err := users.GetByAPIKeyHash(ctx, newHash)
	require.NoError(t, err)
	require.NotNil(t, rotated)
	assert.Equal(t, user.ID, rotated.ID)
}
