package model

import (
	"strings"
	"time"
)

// Project is a portfolio entry.
type Project struct {
	ID           int64     `json:"projectId"`
	Name         string    `json:"projectName"`
	Description  string    `json:"description"`
	GitHubURL    string    `json:"gitHubUrl"`
	ProjectURL   string    `json:"projectUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Technologies string    `json:"technologies"`
	DisplayOrder int       `json:"displayOrder"`
	IsPublished  bool      `json:"isPublished"`
	ViewCount    int       `json:"viewCount"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TechnologyList splits the comma separated technologies field, dropping
// blank entries.
func (p *Project) TechnologyList() []string {
	return SplitTechnologies(p.Technologies)
}

// SplitTechnologies splits a comma separated list and trims each entry.
// Empty entries are ignored.
func SplitTechnologies(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
