package model

import "time"

// SiteConfigurationID is the key of the single site configuration row.
const SiteConfigurationID = 1

// DefaultFullName is the placeholder profile name of a fresh or reset configuration.
const DefaultFullName = "Not updated yet"

// SiteConfiguration holds the owner's profile, contact details and the site
// visit counter. Exactly one exists.
type SiteConfiguration struct {
	ID          int       `json:"configId"`
	FullName    string    `json:"fullName"`
	JobTitle    string    `json:"jobTitle"`
	AvatarURL   string    `json:"avatarUrl"`
	BioSummary  string    `json:"bioSummary"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Address     string    `json:"address"`
	GitHubURL   string    `json:"gitHubUrl"`
	LinkedInURL string    `json:"linkedInUrl"`
	FacebookURL string    `json:"facebookUrl"`
	CVFilePath  string    `json:"cvFilePath"`
	ViewCount   int       `json:"viewCount"`
	Version     int       `json:"version"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DefaultSiteConfiguration returns the values a reset restores.
func DefaultSiteConfiguration() *SiteConfiguration {
	return &SiteConfiguration{
		ID:       SiteConfigurationID,
		FullName: DefaultFullName,
	}
}

// PublicProfile is the subset shown to anonymous visitors.
type PublicProfile struct {
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

// AboutMe is the profile header block.
type AboutMe struct {
	FullName   string `json:"fullName"`
	JobTitle   string `json:"jobTitle"`
	AvatarURL  string `json:"avatarUrl"`
	BioSummary string `json:"bioSummary"`
}

// ContactInfo is the owner's public contact block.
type ContactInfo struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	GitHubURL   string `json:"gitHubUrl"`
	LinkedInURL string `json:"linkedInUrl"`
	FacebookURL string `json:"facebookUrl"`
}

func (c *SiteConfiguration) PublicProfile() PublicProfile {
	return PublicProfile{
		FullName:    c.FullName,
		JobTitle:    c.JobTitle,
		AvatarURL:   c.AvatarURL,
		BioSummary:  c.BioSummary,
		Address:     c.Address,
		GitHubURL:   c.GitHubURL,
		LinkedInURL: c.LinkedInURL,
		FacebookURL: c.FacebookURL,
		ViewCount:   c.ViewCount,
	}
}

func (c *SiteConfiguration) AboutMe() AboutMe {
	return AboutMe{
		FullName:   c.FullName,
		JobTitle:   c.JobTitle,
		AvatarURL:  c.AvatarURL,
		BioSummary: c.BioSummary,
	}
}

func (c *SiteConfiguration) ContactInfo() ContactInfo {
	return ContactInfo{
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Address:     c.Address,
		GitHubURL:   c.GitHubURL,
		LinkedInURL: c.LinkedInURL,
		FacebookURL: c.FacebookURL,
	}
}

// ApplyAboutMe copies the profile header fields onto c.
func (c *SiteConfiguration) ApplyAboutMe(a AboutMe) {
	c.FullName = a.FullName
	c.JobTitle = a.JobTitle
	c.AvatarURL = a.AvatarURL
	c.BioSummary = a.BioSummary
}

// ApplyContactInfo copies the contact block onto c.
func (c *SiteConfiguration) ApplyContactInfo(ci ContactInfo) {
	c.Email = ci.Email
	c.PhoneNumber = ci.PhoneNumber
	c.Address = ci.Address
	c.GitHubURL = ci.GitHubURL
	c.LinkedInURL = ci.LinkedInURL
	c.FacebookURL = ci.FacebookURL
}

// ViewResult reports the outcome of a site visit registration.
type ViewResult struct {
	ViewCount int  `json:"viewCount"`
	Counted   bool `json:"counted"`
}
