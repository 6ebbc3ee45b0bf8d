package repositories

import (
	"context"
	"errors"

	"github.com/blognest/backend/internal/models"
	"gorm.io/gorm"
)

// InteractionRepository defines read access to interaction rows. Writes
// go through the interaction service, which needs transactional control.
type InteractionRepository interface {
	Get(ctx context.Context, userID, blogID uint) (*models.BlogInteraction, error)
	GetForBlogs(ctx context.Context, userID uint, blogIDs []uint) (map[uint]models.BlogInteraction, error)
}

// PostgresInteractionRepository implements InteractionRepository for PostgreSQL
type PostgresInteractionRepository struct {
	db *gorm.DB
}

func NewPostgresInteractionRepository(db *gorm.DB) *PostgresInteractionRepository {
	return &PostgresInteractionRepository{db: db}
}

// Get returns the interaction row for the pair, or nil when none exists.
func (r *PostgresInteractionRepository) Get(ctx context.Context, userID, blogID uint) (*models.BlogInteraction, error) {
	var interaction models.BlogInteraction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND blog_id = ?", userID, blogID).
		First(&interaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &interaction, nil
}

// GetForBlogs loads the user's interactions for a set of blogs in one
// query, keyed by blog id.
func (r *PostgresInteractionRepository) GetForBlogs(ctx context.Context, userID uint, blogIDs []uint) (map[uint]models.BlogInteraction, error) {
	var interactions []models.BlogInteraction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND blog_id IN ?", userID, blogIDs).
		Find(&interactions).Error
	if err != nil {
		return nil, err
	}

	byBlog := make(map[uint]models.BlogInteraction, len(interactions))
	for _, interaction := range interactions {
		byBlog[interaction.BlogID] = interaction
	}
	return byBlog, nil
}
