package models

import "time"

// Attachment references a file stored externally. FilePublicID is the
// external object id used when the file has to be deleted again.
type Attachment struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	FileURL      string    `json:"file_url" gorm:"not null"`
	FilePublicID string    `json:"file_public_id" gorm:"not null"`
	BlogID       uint      `json:"blog_id" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateAttachmentRequest struct {
	FileURL      string `json:"file_url" validate:"required,url"`
	FilePublicID string `json:"file_public_id" validate:"required"`
}
