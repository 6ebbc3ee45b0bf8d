package services

import (
	"context"
	"errors"

	"github.com/blognest/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionService keeps per-user interaction flags and the
// denormalized blog counters consistent. Every operation runs its
// read-modify-write sequence inside a single transaction: interaction
// rows are inserted with ON CONFLICT DO NOTHING against the
// (user_id, blog_id) unique index, flag flips are guarded by the state
// they were read in, and counters move by relative SQL expressions.
// Concurrent toggles therefore cannot lose or double-count updates.
type InteractionService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewInteractionService(db *gorm.DB, log *zap.Logger) *InteractionService {
	return &InteractionService{db: db, log: log}
}

var interactionConflictTarget = clause.OnConflict{
	Columns:   []clause.Column{{Name: "user_id"}, {Name: "blog_id"}},
	DoNothing: true,
}

// SeenResult reports the outcome of MarkSeen.
type SeenResult struct {
	BlogID      uint
	ReadCount   int
	AlreadySeen bool
}

// MarkSeen records that the user has seen the blog. The first call per
// pair increments read_count by exactly one; every later call is a
// no-op returning the current count.
func (s *InteractionService) MarkSeen(ctx context.Context, userID, blogID uint) (*SeenResult, error) {
	result := &SeenResult{BlogID: blogID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var blog models.Blog
		if err := tx.First(&blog, blogID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		interaction := models.BlogInteraction{UserID: userID, BlogID: blogID, Seen: true}
		res := tx.Clauses(interactionConflictTarget).Create(&interaction)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// Row already exists. Flip seen only if it is still false;
			// the guard keeps a concurrent first-seen from counting twice.
			flip := tx.Model(&models.BlogInteraction{}).
				Where("user_id = ? AND blog_id = ? AND seen = ?", userID, blogID, false).
				Update("seen", true)
			if flip.Error != nil {
				return flip.Error
			}
			if flip.RowsAffected == 0 {
				result.ReadCount = blog.ReadCount
				result.AlreadySeen = true
				return nil
			}
		}

		if err := tx.Model(&models.Blog{}).Where("id = ?", blogID).
			UpdateColumn("read_count", gorm.Expr("read_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.Blog{}).Select("read_count").Where("id = ?", blogID).
			Row().Scan(&result.ReadCount)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ToggleLike flips the user's like on the blog.
//
// Transitions from the row's current state:
//   - no row:                create liked row, likes+1
//   - liked=false, unliked=false: liked=true, likes+1
//   - liked=false, unliked=true:  liked=true, unliked=false, likes+1, unlikes-1
//   - liked=true:            liked=false, likes-1
func (s *InteractionService) ToggleLike(ctx context.Context, userID, blogID uint) (*models.Blog, *models.BlogInteraction, error) {
	return s.toggle(ctx, userID, blogID, false)
}

// ToggleUnlike is the mirror of ToggleLike, swapping the roles of the
// liked/likes and unliked/unlikes pairs.
func (s *InteractionService) ToggleUnlike(ctx context.Context, userID, blogID uint) (*models.Blog, *models.BlogInteraction, error) {
	return s.toggle(ctx, userID, blogID, true)
}

func (s *InteractionService) toggle(ctx context.Context, userID, blogID uint, unlike bool) (*models.Blog, *models.BlogInteraction, error) {
	var (
		blog        models.Blog
		interaction models.BlogInteraction
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&blog, blogID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Where("user_id = ? AND blog_id = ?", userID, blogID).
			Limit(1).Find(&interaction).Error; err != nil {
			return err
		}

		if interaction.ID == 0 {
			// Lazily create the row; reacting implies having seen the blog.
			fresh := models.BlogInteraction{UserID: userID, BlogID: blogID, Seen: true}
			if unlike {
				fresh.Unliked = true
			} else {
				fresh.Liked = true
			}
			res := tx.Clauses(interactionConflictTarget).Create(&fresh)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				interaction = fresh
				return s.moveCounters(tx, blogID, boolToDelta(!unlike), boolToDelta(unlike))
			}
			// Lost the insert race; reload and treat as an existing row.
			if err := tx.Where("user_id = ? AND blog_id = ?", userID, blogID).
				First(&interaction).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{}
		likesDelta, unlikesDelta := 0, 0

		active, opposite := interaction.Liked, interaction.Unliked
		if unlike {
			active, opposite = interaction.Unliked, interaction.Liked
		}

		if !active {
			if opposite {
				// one-way transition out of the opposite state
				if unlike {
					likesDelta--
				} else {
					unlikesDelta--
				}
			}
			if unlike {
				updates["unliked"] = true
				updates["liked"] = false
				unlikesDelta++
			} else {
				updates["liked"] = true
				updates["unliked"] = false
				likesDelta++
			}
		} else {
			if unlike {
				updates["unliked"] = false
				unlikesDelta--
			} else {
				updates["liked"] = false
				likesDelta--
			}
		}

		// The guard on the flags read above makes the flip a no-op when a
		// concurrent toggle got there first, keeping counters exact.
		flip := tx.Model(&models.BlogInteraction{}).
			Where("id = ? AND liked = ? AND unliked = ?", interaction.ID, interaction.Liked, interaction.Unliked).
			Updates(updates)
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected == 0 {
			return ErrConflict
		}

		return s.moveCounters(tx, blogID, likesDelta, unlikesDelta)
	})
	if err != nil {
		return nil, nil, err
	}

	// Reload outside the transaction for the response shapes.
	if err := s.db.WithContext(ctx).Preload("Author").First(&blog, blogID).Error; err != nil {
		return nil, nil, err
	}
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND blog_id = ?", userID, blogID).
		First(&interaction).Error; err != nil {
		return nil, nil, err
	}
	return &blog, &interaction, nil
}

func (s *InteractionService) moveCounters(tx *gorm.DB, blogID uint, likesDelta, unlikesDelta int) error {
	updates := map[string]interface{}{}
	if likesDelta != 0 {
		updates["likes"] = gorm.Expr("likes + ?", likesDelta)
	}
	if unlikesDelta != 0 {
		updates["unlikes"] = gorm.Expr("unlikes + ?", unlikesDelta)
	}
	if len(updates) == 0 {
		return nil
	}
	return tx.Model(&models.Blog{}).Where("id = ?", blogID).UpdateColumns(updates).Error
}

func boolToDelta(b bool) int {
	if b {
		return 1
	}
	return 0
}
