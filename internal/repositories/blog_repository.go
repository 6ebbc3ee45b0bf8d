package repositories

import (
	"context"

	"github.com/blognest/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlogRepository defines the interface for blog data operations
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id uint) (*models.Blog, error)
	GetPublishedByID(ctx context.Context, id uint) (*models.Blog, error)
	List(ctx context.Context, page, pageSize int) ([]models.Blog, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, page, pageSize int) ([]models.Blog, int64, error)
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, blog *models.Blog) error
}

// PostgresBlogRepository implements BlogRepository for PostgreSQL
type PostgresBlogRepository struct {
	db *gorm.DB
}

func NewPostgresBlogRepository(db *gorm.DB) *PostgresBlogRepository {
	return &PostgresBlogRepository{db: db}
}

func (r *PostgresBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Create(blog).Error
}

func (r *PostgresBlogRepository) GetByID(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.WithContext(ctx).Preload("Author").First(&blog, id).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *PostgresBlogRepository) GetPublishedByID(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.WithContext(ctx).Preload("Author").
		Where("id = ? AND is_published = ?", id, true).
		First(&blog).Error
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *PostgresBlogRepository) List(ctx context.Context, page, pageSize int) ([]models.Blog, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Blog{}).Session(&gorm.Session{})
	return r.list(q, page, pageSize)
}

func (r *PostgresBlogRepository) ListByAuthor(ctx context.Context, authorID uint, page, pageSize int) ([]models.Blog, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Blog{}).
		Where("author_id = ?", authorID).
		Session(&gorm.Session{})
	return r.list(q, page, pageSize)
}

func (r *PostgresBlogRepository) list(q *gorm.DB, page, pageSize int) ([]models.Blog, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var blogs []models.Blog
	err := q.Preload("Author").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

func (r *PostgresBlogRepository) Update(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Save(blog).Error
}

// Delete removes the blog together with its comments, interactions and
// attachment rows. External attachment objects are not touched here.
func (r *PostgresBlogRepository) Delete(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Select(clause.Associations).Delete(blog).Error
}
