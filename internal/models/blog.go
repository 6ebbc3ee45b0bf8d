package models

import "time"

type Blog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	Image       *string   `json:"image"`
	AuthorID    uint      `json:"author_id" gorm:"not null;index"`
	Author      User      `json:"-" gorm:"foreignKey:AuthorID"`
	IsPublished bool      `json:"is_published" gorm:"default:true"`
	ReadCount   int       `json:"read_count" gorm:"default:0"`
	Likes       int       `json:"likes" gorm:"default:0"`
	Unlikes     int       `json:"unlikes" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Comments     []Comment         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Interactions []BlogInteraction `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Attachments  []Attachment      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

type CreateBlogRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Content     string  `json:"content" validate:"required"`
	Image       *string `json:"image,omitempty" validate:"omitempty,url"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

// UpdateBlogRequest is a partial update: nil fields are left untouched.
type UpdateBlogRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Content     *string `json:"content,omitempty"`
	Image       *string `json:"image,omitempty" validate:"omitempty,url"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

// BlogOut is the API shape of a blog, with the author and, when the
// viewer is known, their interaction state.
type BlogOut struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Content     string          `json:"content"`
	Image       *string         `json:"image"`
	AuthorID    uint            `json:"author_id"`
	IsPublished bool            `json:"is_published"`
	ReadCount   int             `json:"read_count"`
	Likes       int             `json:"likes"`
	Unlikes     int             `json:"unlikes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Author      BlogAuthor      `json:"author"`
	Interaction *InteractionOut `json:"interaction,omitempty"`
}

func NewBlogOut(b *Blog) BlogOut {
	return BlogOut{
		ID:          b.ID,
		Title:       b.Title,
		Content:     b.Content,
		Image:       b.Image,
		AuthorID:    b.AuthorID,
		IsPublished: b.IsPublished,
		ReadCount:   b.ReadCount,
		Likes:       b.Likes,
		Unlikes:     b.Unlikes,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		Author:      NewBlogAuthor(&b.Author),
	}
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
}

type PaginatedBlogs struct {
	Data       []BlogOut  `json:"data"`
	Pagination Pagination `json:"pagination"`
}
