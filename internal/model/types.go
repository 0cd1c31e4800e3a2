// Package model holds the records exchanged with the shloks backend.
package model

import "time"

// Principal is the authenticated operator returned by /auth/login and /auth/me.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// DisplayName returns the name, falling back to the email and then the id.
func (p *Principal) DisplayName() string {
	switch {
	case p == nil:
		return ""
	case p.Name != "":
		return p.Name
	case p.Email != "":
		return p.Email
	default:
		return p.ID
	}
}

// Shlok is one content record. It has no stable key: the backend addresses it
// by absolute position in the unfiltered list.
type Shlok struct {
	ChapterName string `json:"chapterName"`
	Shlok       int    `json:"shlok"`
	Speaker     string `json:"speaker"`
	Theme       string `json:"theme"`
	Summary     string `json:"summary"`
	VideoFile   string `json:"videoFile"`
}

// VideoLink maps a video file key to its hosted URL.
type VideoLink struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// User is an end-user account, keyed by email.
type User struct {
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	DOB       string     `json:"dob,omitempty"`
	Bookmarks []Bookmark `json:"bookmarks,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Bookmark is a user's saved reference to a shlok.
type Bookmark struct {
	Key   string `json:"key"`
	Theme string `json:"theme,omitempty"`
}

// Pagination is the server-side paging metadata.
type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
}

// Page is an immutable fetch result snapshot.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}
