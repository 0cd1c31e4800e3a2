package model

import "time"

// Stats is the /analytics/stats dashboard payload.
type Stats struct {
	Overview    Overview       `json:"overview"`
	Themes      map[string]int `json:"themes"`
	Chapters    map[string]int `json:"chapters"`
	RecentUsers []RecentUser   `json:"recentUsers"`
}

// Overview holds the headline counters.
type Overview struct {
	TotalUsers     int `json:"totalUsers"`
	TotalShloks    int `json:"totalShloks"`
	TotalBookmarks int `json:"totalBookmarks"`
	TotalThemes    int `json:"totalThemes"`
}

// RecentUser is a user row on the dashboard.
type RecentUser struct {
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// PopularShlok is a row of /analytics/popular-shloks.
type PopularShlok struct {
	Key           string `json:"key"`
	ChapterName   string `json:"chapterName"`
	ShlokNum      int    `json:"shlokNum"`
	Theme         string `json:"theme"`
	Summary       string `json:"summary"`
	BookmarkCount int    `json:"bookmarkCount"`
}

// GrowthPoint is a row of /analytics/user-growth.
type GrowthPoint struct {
	Date       string `json:"date"`
	TotalUsers int    `json:"totalUsers"`
	NewUsers   int    `json:"newUsers"`
}

// ThemeCount is a row of /analytics/bookmarks-by-theme.
type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}
