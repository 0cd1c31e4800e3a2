package mockapi

import (
	"sort"

	"github.com/matheus3301/shlokadmin/internal/model"
)

const (
	recentUsers  = 5
	popularLimit = 10
)

// Stats computes the dashboard aggregates.
func (d *Data) Stats() model.Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := model.Stats{
		Themes:   make(map[string]int),
		Chapters: make(map[string]int),
	}
	for _, sh := range d.shloks {
		s.Themes[sh.Theme]++
		s.Chapters[sh.ChapterName]++
	}
	bookmarks := 0
	for _, u := range d.users {
		bookmarks += len(u.Bookmarks)
	}
	s.Overview = model.Overview{
		TotalUsers:     len(d.users),
		TotalShloks:    len(d.shloks),
		TotalBookmarks: bookmarks,
		TotalThemes:    len(s.Themes),
	}

	users := make([]model.User, len(d.users))
	copy(users, d.users)
	sort.SliceStable(users, func(i, j int) bool { return joined(users[i]).After(joined(users[j])) })
	for _, u := range users[:min(recentUsers, len(users))] {
		s.RecentUsers = append(s.RecentUsers, model.RecentUser{Name: u.Name, Email: u.Email, CreatedAt: joined(u)})
	}
	return s
}

// PopularShloks ranks records by how many users bookmarked them.
func (d *Data) PopularShloks() []model.PopularShlok {
	d.mu.RLock()
	defer d.mu.RUnlock()

	counts := make(map[string]int)
	for _, u := range d.users {
		for _, b := range u.Bookmarks {
			counts[b.Key]++
		}
	}
	byKey := make(map[string]model.Shlok, len(d.shloks))
	for _, sh := range d.shloks {
		byKey[ShlokKey(sh)] = sh
	}

	out := make([]model.PopularShlok, 0, len(counts))
	for key, n := range counts {
		p := model.PopularShlok{Key: key, BookmarkCount: n}
		if sh, ok := byKey[key]; ok {
			p.ChapterName = sh.ChapterName
			p.ShlokNum = sh.Shlok
			p.Theme = sh.Theme
			p.Summary = sh.Summary
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BookmarkCount != out[j].BookmarkCount {
			return out[i].BookmarkCount > out[j].BookmarkCount
		}
		return out[i].Key < out[j].Key
	})
	return out[:min(popularLimit, len(out))]
}

// UserGrowth returns new and cumulative user counts per join date.
func (d *Data) UserGrowth() []model.GrowthPoint {
	d.mu.RLock()
	defer d.mu.RUnlock()

	perDay := make(map[string]int)
	for _, u := range d.users {
		if u.CreatedAt == nil {
			continue
		}
		perDay[u.CreatedAt.UTC().Format("2006-01-02")]++
	}
	days := make([]string, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]model.GrowthPoint, 0, len(days))
	total := 0
	for _, day := range days {
		total += perDay[day]
		out = append(out, model.GrowthPoint{Date: day, TotalUsers: total, NewUsers: perDay[day]})
	}
	return out
}

// BookmarksByTheme counts bookmarks per theme, largest first.
func (d *Data) BookmarksByTheme() []model.ThemeCount {
	d.mu.RLock()
	defer d.mu.RUnlock()

	counts := make(map[string]int)
	for _, u := range d.users {
		for _, b := range u.Bookmarks {
			if b.Theme != "" {
				counts[b.Theme]++
			}
		}
	}
	out := make([]model.ThemeCount, 0, len(counts))
	for theme, n := range counts {
		out = append(out, model.ThemeCount{Theme: theme, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Theme < out[j].Theme
	})
	return out
}
