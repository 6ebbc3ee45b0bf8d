package repositories

import (
	"context"

	"github.com/blognest/backend/internal/models"
	"gorm.io/gorm"
)

// AttachmentRepository defines the interface for attachment data operations
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *models.Attachment) error
	GetByID(ctx context.Context, id uint) (*models.Attachment, error)
	ListForBlog(ctx context.Context, blogID uint) ([]models.Attachment, error)
	Delete(ctx context.Context, attachment *models.Attachment) error
}

// PostgresAttachmentRepository implements AttachmentRepository for PostgreSQL
type PostgresAttachmentRepository struct {
	db *gorm.DB
}

func NewPostgresAttachmentRepository(db *gorm.DB) *PostgresAttachmentRepository {
	return &PostgresAttachmentRepository{db: db}
}

func (r *PostgresAttachmentRepository) Create(ctx context.Context, attachment *models.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *PostgresAttachmentRepository) GetByID(ctx context.Context, id uint) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := r.db.WithContext(ctx).First(&attachment, id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *PostgresAttachmentRepository) ListForBlog(ctx context.Context, blogID uint) ([]models.Attachment, error) {
	var attachments []models.Attachment
	if err := r.db.WithContext(ctx).Where("blog_id = ?", blogID).Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *PostgresAttachmentRepository) Delete(ctx context.Context, attachment *models.Attachment) error {
	return r.db.WithContext(ctx).Delete(attachment).Error
}
