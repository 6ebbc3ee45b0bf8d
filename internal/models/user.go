package models

import "time"

type User struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Username       string     `json:"username" gorm:"uniqueIndex;not null"`
	Email          string     `json:"email" gorm:"uniqueIndex;not null"`
	HashedPassword string     `json:"-" gorm:"not null"` // bcrypt hash, never serialized
	ProfilePic     *string    `json:"profile_pic"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	IsSuperuser    bool       `json:"is_superuser" gorm:"default:false"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login"`

	Blogs        []Blog            `json:"-" gorm:"foreignKey:AuthorID"`
	Comments     []Comment         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Interactions []BlogInteraction `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// UpdateProfileRequest is a partial update: nil fields are left untouched.
type UpdateProfileRequest struct {
	Username   *string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	ProfilePic *string `json:"profile_pic,omitempty" validate:"omitempty,url"`
}

// BlogAuthor is the trimmed author shape embedded in blog responses.
type BlogAuthor struct {
	ID         uint    `json:"id"`
	Username   string  `json:"username"`
	ProfilePic *string `json:"profile_pic"`
}

func NewBlogAuthor(u *User) BlogAuthor {
	return BlogAuthor{ID: u.ID, Username: u.Username, ProfilePic: u.ProfilePic}
}
