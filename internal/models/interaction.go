package models

import "time"

// BlogInteraction is the per-(user, blog) record of seen/liked/unliked
// state. One row per pair, enforced by the composite unique index.
// Liked and Unliked are never true at the same time.
type BlogInteraction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_blog"`
	BlogID    uint      `json:"blog_id" gorm:"not null;uniqueIndex:idx_user_blog"`
	Seen      bool      `json:"seen" gorm:"default:false"`
	Liked     bool      `json:"liked" gorm:"default:false"`
	Unliked   bool      `json:"unliked" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InteractionOut struct {
	Seen    bool `json:"seen"`
	Liked   bool `json:"liked"`
	Unliked bool `json:"unliked"`
}

func NewInteractionOut(i *BlogInteraction) *InteractionOut {
	if i == nil {
		// no row yet: all flags read as false
		return &InteractionOut{}
	}
	return &InteractionOut{Seen: i.Seen, Liked: i.Liked, Unliked: i.Unliked}
}
