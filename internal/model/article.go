package model

import "time"

// Article is a blog post belonging to exactly one category.
type Article struct {
	ID           int64     `json:"articleId"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	IsPublished  bool      `json:"isPublished"`
	CategoryID   int64     `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ArticleListOptions filters article listings.
type ArticleListOptions struct {
	// PublishedOnly hides drafts (public listings).
	PublishedOnly bool
	// CategoryID restricts the listing to one category when non-zero.
	CategoryID int64
}
