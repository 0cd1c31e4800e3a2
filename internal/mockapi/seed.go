package mockapi

import (
	"fmt"
	"time"

	"github.com/matheus3301/shlokadmin/internal/model"
)

// SeedOptions sizes the generated dataset.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	Shloks        int
	Users         int
	Videos        int
}

// DefaultSeed is the dataset cmd/shlokmock serves.
var DefaultSeed = SeedOptions{
	AdminEmail:    "admin@shloks.local",
	AdminPassword: "admin123",
	Shloks:        120,
	Users:         45,
	Videos:        8,
}

var (
	themes   = []string{"Karma", "Dharma", "Bhakti", "Jnana", "Detachment", "Devotion", "Duty", "Self-realization", "Meditation", "Surrender", "Equanimity", "Knowledge"}
	speakers = []string{"Krishna", "Arjuna", "Sanjaya", "Dhritarashtra"}
)

// Seed fills d with deterministic data. Records are spread over chapters of
// twenty verses each.
func Seed(d *Data, opts SeedOptions) error {
	if opts.AdminEmail != "" {
		if _, err := d.AddAdmin("Administrator", opts.AdminEmail, opts.AdminPassword); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	var all []model.Shlok
	for i := 0; i < opts.Shloks; i++ {
		sh := model.Shlok{
			ChapterName: fmt.Sprintf("Chapter %d", i/20+1),
			Shlok:       i%20 + 1,
			Speaker:     speakers[i%len(speakers)],
			Theme:       themes[i%len(themes)],
			Summary:     fmt.Sprintf("Verse %d of chapter %d on %s.", i%20+1, i/20+1, themes[i%len(themes)]),
		}
		if i < opts.Videos {
			sh.VideoFile = fmt.Sprintf("Chapter%d_%d.mp4", i/20+1, i%20+1)
			if err := d.AddVideo(model.VideoLink{Key: sh.VideoFile, URL: "https://videos.shloks.local/" + sh.VideoFile}); err != nil {
				return fmt.Errorf("seed video: %w", err)
			}
		}
		d.AddShlok(sh)
		all = append(all, sh)
	}

	start := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < opts.Users; i++ {
		joinedAt := start.Add(time.Duration(i/3) * 24 * time.Hour)
		u := model.User{
			Email:     fmt.Sprintf("user%02d@example.com", i+1),
			Name:      fmt.Sprintf("User %02d", i+1),
			CreatedAt: &joinedAt,
		}
		if i%4 != 0 {
			u.Phone = fmt.Sprintf("+91 98%08d", i)
			u.DOB = fmt.Sprintf("199%d-0%d-1%d", i%10, i%9+1, i%10)
		}
		for j := 0; len(all) > 0 && j < i%5; j++ {
			sh := all[(i*7+j*13)%len(all)]
			u.Bookmarks = append(u.Bookmarks, model.Bookmark{Key: ShlokKey(sh), Theme: sh.Theme})
		}
		d.AddUser(u)
	}
	return nil
}
