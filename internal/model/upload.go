package model

import "time"

// UploadResult describes a stored upload.
type UploadResult struct {
	FileName         string `json:"fileName"`
	OriginalFileName string `json:"originalFileName"`
	URL              string `json:"url"`
	Size             int64  `json:"size"`
	ContentType      string `json:"contentType"`
	Category         string `json:"category"`
	// Saved is true when the URL was also written to the owning record.
	Saved bool `json:"saved"`
}

// FileInfo describes a file already present in upload storage.
type FileInfo struct {
	FileName    string    `json:"fileName"`
	Category    string    `json:"category"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	ModifiedAt  time.Time `json:"modifiedAt"`
}

// DataCounts reports the number of rows per table.
type DataCounts struct {
	AdminUsers         int `json:"adminUsers"`
	SiteConfigurations int `json:"siteConfigurations"`
	Categories         int `json:"categories"`
	Articles           int `json:"articles"`
	Projects           int `json:"projects"`
	ContactMessages    int `json:"contactMessages"`
}
