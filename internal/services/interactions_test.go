package services_test

import (
	"context"
	"testing"

	"github.com/blognest/backend/internal/models"
	"github.com/blognest/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func loadBlog(t *testing.T, db *gorm.DB, id uint) *models.Blog {
	t.Helper()
	var blog models.Blog
	require.NoError(t, db.First(&blog, id).Error)
	return &blog
}

func loadInteraction(t *testing.T, db *gorm.DB, userID, blogID uint) *models.BlogInteraction {
	t.Helper()
	var interaction models.BlogInteraction
	require.NoError(t, db.Where("user_id = ? AND blog_id = ?", userID, blogID).First(&interaction).Error)
	return &interaction
}

func TestMarkSeen_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewInteractionService(db, newTestLogger())
	user := createUser(t, db, "alice", "a@x.com")
	blog := createBlog(t, db, user.ID)

	first, err := svc.MarkSeen(context.Background(), user.ID, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ReadCount)
	assert.False(t, first.AlreadySeen)

	second, err := svc.MarkSeen(context.Background(), user.ID, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, second.ReadCount)
	assert.True(t, second.AlreadySeen)

	assert.Equal(t, 1, loadBlog(t, db, blog.ID).ReadCount)
	assert.True(t, loadInteraction(t, db, user.ID, blog.ID).Seen)
}

func TestMarkSeen_PerUserCounts(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewInteractionService(db, newTestLogger())
	alice := createUser(t, db, "alice", "a@x.com")
	bob := createUser(t, db, "bob", "b@x.com")
	blog := createBlog(t, db, alice.ID)

	_, err := svc.MarkSeen(context.Background(), alice.ID, blog.ID)
	require.NoError(t, err)
	_, err = svc.MarkSeen(context.Background(), bob.ID, blog.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, loadBlog(t, db, blog.ID).ReadCount)
}

func TestMarkSeen_BlogMissing(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewInteractionService(db, newTestLogger())
	user := createUser(t, db, "alice", "a@x.com")

	_, err := svc.MarkSeen(context.Background(), user.ID, 12345)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestToggleLike_NewInteraction(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewInteractionService(db, newTestLogger())
	user := createUser(t, db, "alice", "a@x.com")
	blog := createBlog(t, db, user.ID)

	updated, interaction, err := svc.ToggleLike(context.Background(), user.ID, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Likes)
	assert.Equal(t, 0, updated.Unlikes)
	assert.True(t, interaction.Liked)
	assert.False(t, interaction.Unliked)
	assert.True(t, interaction.Seen)
}

func TestToggleLike_DoubleToggleRestoresState(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewInteractionService(db, newTestLogger())
	user := createUser(t, db, "alice", "a@x.com")
	blog := createBlog(t, db, user.ID)

	_, _, err := svc.ToggleLike(context.Background(), user.ID, blog.ID)
	require.NoError(t, err)
	updated, interaction, err := svc.ToggleLike(context.Background(), user.ID, blog.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, updated.Likes)
	assert.Equal(t, 0, updated.Unlikes)
	assert.False(t, interaction.Liked)
	assert.False(t, interaction.Unliked)
}

func TestToggleLike_WhileUnliked(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewInteractionService(db, newTestLogger())
	user := createUser(t, db, "alice", "a@x.com")
	blog := createBlog(t, db, user.ID)

	_, _, err := svc.ToggleUnlike(context.Background(), user.ID, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loadBlog(t, db, blog.ID).Unlikes)

	// liking while unliked flips both flags and moves both counters
	updated, interaction, err := svc.ToggleLike(context.Background(), user.ID, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Likes)
	assert.Equal(t, 0, updated.Unlikes)
	assert.True(t, interaction.Liked)
	assert.False(t, interaction.Unliked)
}

func TestToggleUnlike_MirrorsToggleLike(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewInteractionService(db, newTestLogger())
	user := createUser(t, db, "alice", "a@x.com")
	blog := createBlog(t, db, user.ID)

	_, _, err := svc.ToggleLike(context.Background(), user.ID, blog.ID)
	require.NoError(t, err)

	updated, interaction, err := svc.ToggleUnlike(context.Background(), user.ID, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Likes)
	assert.Equal(t, 1, updated.Unlikes)
	assert.False(t, interaction.Liked)
	assert.True(t, interaction.Unliked)

	updated, interaction, err = svc.ToggleUnlike(context.Background(), user.ID, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Unlikes)
	assert.False(t, interaction.Unliked)
}

func TestToggle_NeverBothFlags(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewInteractionService(db, newTestLogger())
	user := createUser(t, db, "alice", "a@x.com")
	blog := createBlog(t, db, user.ID)

	toggles := []func(context.Context, uint, uint) (*models.Blog, *models.BlogInteraction, error){
		svc.ToggleLike, svc.ToggleUnlike, svc.ToggleLike, svc.ToggleLike, svc.ToggleUnlike,
	}
	for _, toggle := range toggles {
		updated, interaction, err := toggle(context.Background(), user.ID, blog.ID)
		require.NoError(t, err)
		assert.False(t, interaction.Liked && interaction.Unliked)
		assert.GreaterOrEqual(t, updated.Likes, 0)
		assert.GreaterOrEqual(t, updated.Unlikes, 0)
	}
}

func TestToggleLike_UnpublishedBlogAllowed(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewInteractionService(db, newTestLogger())
	user := createUser(t, db, "alice", "a@x.com")
	blog := createBlog(t, db, user.ID)
	require.NoError(t, db.Model(blog).Update("is_published", false).Error)

	updated, _, err := svc.ToggleLike(context.Background(), user.ID, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Likes)
}

func TestToggleLike_BlogMissing(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewInteractionService(db, newTestLogger())
	user := createUser(t, db, "alice", "a@x.com")

	_, _, err := svc.ToggleLike(context.Background(), user.ID, 12345)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
