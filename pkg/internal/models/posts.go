package models

import "time"

type Post struct {
	BaseModel

	UserID      string  `json:"user_id" gorm:"index"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Language    string  `json:"language"`
	ImageURL    *string `json:"image_url"`

	// Profile is a denormalized snapshot of the author's profile, resolved
	// against a placeholder when the profile row does not exist yet.
	Profile  Profile   `json:"profiles" gorm:"foreignKey:UserID;references:ID"`
	Likes    []Like    `json:"likes" gorm:"foreignKey:PostID"`
	Comments []Comment `json:"comments" gorm:"foreignKey:PostID"`
}

// Like rows are hard-deleted so the (user, post) uniqueness survives an
// unlike followed by a re-like.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_likes_user_post"`
	PostID    uint      `json:"post_id" gorm:"uniqueIndex:idx_likes_user_post"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	BaseModel

	UserID  string `json:"user_id" gorm:"index"`
	PostID  uint   `json:"post_id" gorm:"index"`
	Content string `json:"content"`

	Profile Profile `json:"profiles" gorm:"foreignKey:UserID;references:ID"`
}
