package models

import "time"

type Comment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	BlogID     uint      `json:"blog_id" gorm:"not null;index"`
	IsApproved bool      `json:"is_approved" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
