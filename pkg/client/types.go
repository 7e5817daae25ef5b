package client

import "time"

// Identity is the admin the server resolved from the cached token.
type Identity struct {
	AdminID   int64  `json:"adminId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Method    string `json:"method"`
	ExpiresAt int64  `json:"expiresAt"`
}

type Profile struct {
	FullName    string `json:"fullName"`
	JobTitle    string `json:"jobTitle"`
	AvatarURL   string `json:"avatarUrl"`
	BioSummary  string `json:"bioSummary"`
	Address     string `json:"address"`
	GitHubURL   string `json:"gitHubUrl"`
	LinkedInURL string `json:"linkedInUrl"`
	FacebookURL string `json:"facebookUrl"`
	ViewCount   int    `json:"viewCount"`
}

type ContactInfo struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	GitHubURL   string `json:"gitHubUrl"`
	LinkedInURL string `json:"linkedInUrl"`
	FacebookURL string `json:"facebookUrl"`
}

type Category struct {
	ID           int64  `json:"categoryId"`
	Name         string `json:"categoryName"`
	ArticleCount int    `json:"articleCount"`
}

type Article struct {
	ID           int64     `json:"articleId"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	IsPublished  bool      `json:"isPublished"`
	CategoryID   int64     `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Project struct {
	ID           int64  `json:"projectId"`
	Name         string `json:"projectName"`
	Description  string `json:"description"`
	GitHubURL    string `json:"gitHubUrl"`
	ProjectURL   string `json:"projectUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Technologies string `json:"technologies"`
	IsPublished  bool   `json:"isPublished"`
	ViewCount    int    `json:"viewCount"`
}

// ContactMessage is the public contact form payload.
type ContactMessage struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

type UploadResult struct {
	FileName         string `json:"fileName"`
	OriginalFileName string `json:"originalFileName"`
	URL              string `json:"url"`
	Size             int64  `json:"size"`
	ContentType      string `json:"contentType"`
	Category         string `json:"category"`
	Saved            bool   `json:"saved"`
}
