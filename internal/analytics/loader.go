// Package analytics loads the dashboard and reports views.
package analytics

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/matheus3301/shlokadmin/internal/api"
	"github.com/matheus3301/shlokadmin/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TopThemes is the number of themes shown on the dashboard.
const TopThemes = 10

// Report section names, as listed in Report.Skipped.
const (
	SectionPopular = "popular-shloks"
	SectionGrowth  = "user-growth"
	SectionThemes  = "bookmarks-by-theme"
)

// Source is the set of read endpoints the loader needs.
type Source interface {
	Stats(ctx context.Context) (*model.Stats, error)
	PopularShloks(ctx context.Context) ([]model.PopularShlok, error)
	UserGrowth(ctx context.Context) ([]model.GrowthPoint, error)
	BookmarksByTheme(ctx context.Context) ([]model.ThemeCount, error)
}

// ChapterCount is one bar of the chapter series.
type ChapterCount struct {
	Label string
	Count int
}

// Dashboard is the chart-ready form of /analytics/stats.
type Dashboard struct {
	Overview    model.Overview
	Themes      []model.ThemeCount
	Chapters    []ChapterCount
	RecentUsers []model.RecentUser
}

// Report groups the three analytics sections. A section the server rejected
// is left nil and named in Skipped.
type Report struct {
	Popular []model.PopularShlok
	Growth  []model.GrowthPoint
	Themes  []model.ThemeCount
	Skipped []string
}

// Loader reads analytics from a Source.
type Loader struct {
	src    Source
	logger *zap.Logger
}

// NewLoader creates a loader.
func NewLoader(src Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{src: src, logger: logger.Named("analytics")}
}

// Dashboard fetches the stats payload and derives its chart series.
func (l *Loader) Dashboard(ctx context.Context) (*Dashboard, error) {
	stats, err := l.src.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return BuildDashboard(stats), nil
}

// BuildDashboard derives the top themes and abbreviated chapter series.
func BuildDashboard(s *model.Stats) *Dashboard {
	d := &Dashboard{Overview: s.Overview, RecentUsers: s.RecentUsers}

	for theme, n := range s.Themes {
		d.Themes = append(d.Themes, model.ThemeCount{Theme: theme, Count: n})
	}
	sort.Slice(d.Themes, func(i, j int) bool {
		if d.Themes[i].Count != d.Themes[j].Count {
			return d.Themes[i].Count > d.Themes[j].Count
		}
		return d.Themes[i].Theme < d.Themes[j].Theme
	})
	if len(d.Themes) > TopThemes {
		d.Themes = d.Themes[:TopThemes]
	}

	for name, n := range s.Chapters {
		d.Chapters = append(d.Chapters, ChapterCount{Label: strings.Replace(name, "Chapter", "Ch", 1), Count: n})
	}
	sort.Slice(d.Chapters, func(i, j int) bool {
		ni, iok := chapterNumber(d.Chapters[i].Label)
		nj, jok := chapterNumber(d.Chapters[j].Label)
		if iok && jok && ni != nj {
			return ni < nj
		}
		if iok != jok {
			return iok
		}
		return d.Chapters[i].Label < d.Chapters[j].Label
	})
	return d
}

func chapterNumber(label string) (int, bool) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	return n, err == nil
}

// Report fetches the three sections concurrently. A transport failure of any
// section fails the whole report; a server rejection only skips its section.
func (l *Loader) Report(ctx context.Context) (*Report, error) {
	var (
		popular []model.PopularShlok
		growth  []model.GrowthPoint
		themes  []model.ThemeCount
		skipped [3]bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		popular, err = l.src.PopularShloks(gctx)
		return l.section(SectionPopular, err, &skipped[0])
	})
	g.Go(func() error {
		var err error
		growth, err = l.src.UserGrowth(gctx)
		return l.section(SectionGrowth, err, &skipped[1])
	})
	g.Go(func() error {
		var err error
		themes, err = l.src.BookmarksByTheme(gctx)
		return l.section(SectionThemes, err, &skipped[2])
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r := &Report{}
	for i, name := range []string{SectionPopular, SectionGrowth, SectionThemes} {
		if skipped[i] {
			r.Skipped = append(r.Skipped, name)
		}
	}
	if !skipped[0] {
		r.Popular = popular
	}
	if !skipped[1] {
		r.Growth = growth
	}
	if !skipped[2] {
		r.Themes = themes
	}
	return r, nil
}

func (l *Loader) section(name string, err error, skipped *bool) error {
	if err == nil {
		return nil
	}
	var rej *api.RejectedError
	if errors.As(err, &rej) {
		l.logger.Warn("section rejected", zap.String("section", name), zap.Error(err))
		*skipped = true
		return nil
	}
	return err
}
