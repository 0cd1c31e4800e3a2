package console

import (
	"context"

	"github.com/matheus3301/shlokadmin/internal/analytics"
	"github.com/matheus3301/shlokadmin/internal/api"
	"go.uber.org/zap"
)

// Analytics is the dashboard and reports page pair.
type Analytics struct {
	loader *analytics.Loader
}

// NewAnalytics creates the pages.
func NewAnalytics(src analytics.Source, logger *zap.Logger) *Analytics {
	return &Analytics{loader: analytics.NewLoader(src, logger)}
}

// Dashboard loads the overview page.
func (a *Analytics) Dashboard(ctx context.Context) (*analytics.Dashboard, error) {
	d, err := a.loader.Dashboard(ctx)
	if err != nil {
		return nil, &Failure{Message: api.Message(err, "Failed to fetch statistics"), Err: err}
	}
	return d, nil
}

// Report loads the analytics page.
func (a *Analytics) Report(ctx context.Context) (*analytics.Report, error) {
	r, err := a.loader.Report(ctx)
	if err != nil {
		return nil, &Failure{Message: api.Message(err, "Failed to fetch analytics"), Err: err}
	}
	return r, nil
}
