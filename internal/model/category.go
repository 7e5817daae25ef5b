package model

import "time"

// Category groups articles.
type Category struct {
	ID           int64     `json:"categoryId"`
	Name         string    `json:"categoryName"`
	ArticleCount int       `json:"articleCount"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
}
