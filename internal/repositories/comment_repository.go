package repositories

import (
	"context"

	"github.com/blognest/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListForBlog(ctx context.Context, blogID, viewerID uint, includeUnapproved bool, skip, limit int) ([]models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, comment *models.Comment) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *PostgresCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListForBlog returns comments for a blog with the viewer's own comments
// first, newest first within each group. Moderators additionally see
// unapproved comments.
func (r *PostgresCommentRepository) ListForBlog(ctx context.Context, blogID, viewerID uint, includeUnapproved bool, skip, limit int) ([]models.Comment, error) {
	q := r.db.WithContext(ctx).Preload("User").Where("blog_id = ?", blogID)
	if !includeUnapproved {
		q = q.Where("is_approved = ?", true)
	}

	var comments []models.Comment
	err := q.Clauses(clause.OrderBy{Expression: clause.Expr{
		SQL:                "CASE WHEN user_id = ? THEN 0 ELSE 1 END, created_at DESC",
		Vars:               []interface{}{viewerID},
		WithoutParentheses: true,
	}}).
		Offset(skip).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *PostgresCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *PostgresCommentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Delete(comment).Error
}
