package services_test

import (
	"testing"
	"time"

	"github.com/blognest/backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Blog{},
		&models.Comment{},
		&models.BlogInteraction{},
		&models.Attachment{},
	))
	return db
}

func newTestLogger() *zap.Logger {
	return zap.NewNop()
}

func createUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	user := &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: "x",
		IsActive:       true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createBlog(t *testing.T, db *gorm.DB, authorID uint) *models.Blog {
	t.Helper()

	blog := &models.Blog{
		Title:       "title",
		Content:     "content",
		AuthorID:    authorID,
		IsPublished: true,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, db.Create(blog).Error)
	return blog
}
