package models

import "time"

// Post is a user-authored text post. Author name and avatar are snapshotted
// at creation so the post keeps rendering after the account is deleted.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Likes     []Like    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"likes"`
	Comments  []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments"`
	CreatedAt time.Time `json:"date"`
}

// Like marks that a user liked a post. One like per user per post.
type Like struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	PostID uint `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"-"`
	UserID uint `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"user"`
}

// Comment is a reply on a post, with the same author snapshot as posts.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"-"`
	UserID    uint      `gorm:"not null" json:"user"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"date"`
}
