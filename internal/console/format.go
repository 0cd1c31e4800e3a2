package console

import (
	"time"

	"github.com/matheus3301/shlokadmin/internal/model"
)

const (
	// SummaryPreviewLen is the summary length shown in the shloks list.
	SummaryPreviewLen = 100
	// PopularPreviewLen is the summary length shown in the popular shloks table.
	PopularPreviewLen = 80

	notAvailable = "N/A"
)

// Preview cuts s to n runes and marks the cut with an ellipsis.
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// OrNA returns s, or "N/A" when it is empty.
func OrNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

// Date formats t as a calendar date, or "N/A".
func Date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return notAvailable
	}
	return t.Local().Format("2006-01-02")
}

// DateTime formats t with minutes, or "N/A".
func DateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return notAvailable
	}
	return t.Local().Format("2006-01-02 15:04")
}

// UserDetails is the display form of one account.
type UserDetails struct {
	Email     string
	Name      string
	Phone     string
	DOB       string
	Bookmarks int
	Joined    string
}

// DescribeUser converts an account to its display form.
func DescribeUser(u model.User) UserDetails {
	return UserDetails{
		Email:     u.Email,
		Name:      OrNA(u.Name),
		Phone:     OrNA(u.Phone),
		DOB:       OrNA(u.DOB),
		Bookmarks: len(u.Bookmarks),
		Joined:    DateTime(u.CreatedAt),
	}
}
