package service

// Request payloads accepted by the services. Handlers decode JSON straight
// into these; Version is optional and enables the optimistic concurrency check.

type CategoryInput struct {
	Name    string `json:"categoryName" validate:"required,max=100"`
	Version int    `json:"version" validate:"gte=0"`
}

type ArticleInput struct {
	Title        string `json:"title" validate:"required,max=200"`
	Content      string `json:"content" validate:"required"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"max=500"`
	IsPublished  bool   `json:"isPublished"`
	CategoryID   int64  `json:"categoryId" validate:"required,gt=0"`
	Version      int    `json:"version" validate:"gte=0"`
}

type ProjectInput struct {
	Name         string `json:"projectName" validate:"required,max=100"`
	Description  string `json:"description"`
	GitHubURL    string `json:"gitHubUrl" validate:"omitempty,max=255,url"`
	ProjectURL   string `json:"projectUrl" validate:"omitempty,max=255,url"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"max=500"`
	Technologies string `json:"technologies" validate:"max=255,technologies"`
	DisplayOrder int    `json:"displayOrder" validate:"gte=0"`
	// IsPublished defaults to true on create when omitted.
	IsPublished *bool `json:"isPublished"`
	Version     int   `json:"version" validate:"gte=0"`
}

type SiteConfigInput struct {
	FullName    string `json:"fullName" validate:"required,max=100"`
	JobTitle    string `json:"jobTitle" validate:"max=100"`
	AvatarURL   string `json:"avatarUrl" validate:"max=255"`
	BioSummary  string `json:"bioSummary"`
	Email       string `json:"email" validate:"omitempty,max=100,email"`
	PhoneNumber string `json:"phoneNumber" validate:"max=20"`
	Address     string `json:"address" validate:"max=255"`
	GitHubURL   string `json:"gitHubUrl" validate:"omitempty,max=255,url"`
	LinkedInURL string `json:"linkedInUrl" validate:"omitempty,max=255,url"`
	FacebookURL string `json:"facebookUrl" validate:"omitempty,max=255,url"`
	CVFilePath  string `json:"cvFilePath" validate:"max=255"`
	Version     int    `json:"version" validate:"gte=0"`
}

type AboutMeInput struct {
	FullName   string `json:"fullName" validate:"required,max=100"`
	JobTitle   string `json:"jobTitle" validate:"max=100"`
	AvatarURL  string `json:"avatarUrl" validate:"max=255"`
	BioSummary string `json:"bioSummary"`
	Version    int    `json:"version" validate:"gte=0"`
}

type ContactInfoInput struct {
	Email       string `json:"email" validate:"omitempty,max=100,email"`
	PhoneNumber string `json:"phoneNumber" validate:"max=20"`
	Address     string `json:"address" validate:"max=255"`
	GitHubURL   string `json:"gitHubUrl" validate:"omitempty,max=255,url"`
	LinkedInURL string `json:"linkedInUrl" validate:"omitempty,max=255,url"`
	FacebookURL string `json:"facebookUrl" validate:"omitempty,max=255,url"`
	Version     int    `json:"version" validate:"gte=0"`
}

type ContactSubmitInput struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,max=100,email"`
	Message  string `json:"message" validate:"required,max=5000"`
}

type ContactUpdateInput struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,max=100,email"`
	IsRead   bool   `json:"isRead"`
	Version  int    `json:"version" validate:"gte=0"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
}
