package model

import "time"

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID        int64     `json:"contactId"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	ReadCount int       `json:"readCount"`
	Version   int       `json:"version"`
	SentAt    time.Time `json:"sentDate"`
}

// ContactListOptions carries filter and pagination parameters for listing contact messages.
type ContactListOptions struct {
	// Status filters by read state: "", "all", "unread", "read".
	// Empty string and "all" return all messages.
	Status string
	Limit  int
	Offset int
}
