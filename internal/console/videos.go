package console

import (
	"context"
	"net/url"
	"strings"

	"github.com/matheus3301/shlokadmin/internal/bus"
	"github.com/matheus3301/shlokadmin/internal/crud"
	"github.com/matheus3301/shlokadmin/internal/listquery"
	"github.com/matheus3301/shlokadmin/internal/model"
	"go.uber.org/zap"
)

// VideoService is the video link surface of the backend.
type VideoService interface {
	ListVideos(ctx context.Context) ([]model.VideoLink, error)
	CreateVideo(ctx context.Context, v model.VideoLink) error
	UpdateVideo(ctx context.Context, key, rawURL string) error
	DeleteVideo(ctx context.Context, key string) error
}

// ValidationError is a local input error shown to the operator as is.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

const (
	ErrVideoFields ValidationError = "Key and URL are required"
	ErrVideoURL    ValidationError = "URL must be an absolute http or https address"
)

// ValidateVideo checks a link before it is sent.
func ValidateVideo(v model.VideoLink) error {
	if strings.TrimSpace(v.Key) == "" || strings.TrimSpace(v.URL) == "" {
		return ErrVideoFields
	}
	u, err := url.Parse(v.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrVideoURL
	}
	return nil
}

// Videos is the video link page. The list is unpaginated.
type Videos struct {
	List *listquery.Controller[model.VideoLink]
	svc  VideoService
	exec *crud.Executor
}

// NewVideos creates the page.
func NewVideos(svc VideoService, b *bus.Bus, logger *zap.Logger) *Videos {
	list := listquery.New("videos", 0, func(ctx context.Context, _ listquery.Query) (model.Page[model.VideoLink], error) {
		items, err := svc.ListVideos(ctx)
		if err != nil {
			return model.Page[model.VideoLink]{}, err
		}
		return model.Page[model.VideoLink]{Items: items, Pagination: model.Pagination{Page: 1, Pages: 1, Total: len(items)}}, nil
	}, b, logger)
	return &Videos{
		List: list,
		svc:  svc,
		exec: crud.NewExecutor("videos", list, b, logger),
	}
}

// Create adds a link after validating it locally.
func (v *Videos) Create(ctx context.Context, link model.VideoLink) crud.Result {
	link.Key = strings.TrimSpace(link.Key)
	link.URL = strings.TrimSpace(link.URL)
	if err := ValidateVideo(link); err != nil {
		return crud.Result{Error: err.Error()}
	}
	return v.exec.Execute(ctx, crud.Command{
		Verb:     crud.Add,
		Noun:     "video link",
		Fallback: "Failed to add video",
		Run:      func(ctx context.Context) error { return v.svc.CreateVideo(ctx, link) },
	})
}

// Update points key at a new URL. The key itself cannot change.
func (v *Videos) Update(ctx context.Context, key, rawURL string) crud.Result {
	rawURL = strings.TrimSpace(rawURL)
	if err := ValidateVideo(model.VideoLink{Key: key, URL: rawURL}); err != nil {
		return crud.Result{Error: err.Error()}
	}
	return v.exec.Execute(ctx, crud.Command{
		Verb:     crud.Update,
		Noun:     "video link",
		Fallback: "Failed to update video",
		Run:      func(ctx context.Context) error { return v.svc.UpdateVideo(ctx, key, rawURL) },
	})
}

// Delete removes the link for key.
func (v *Videos) Delete(ctx context.Context, key string) crud.Result {
	return v.exec.Execute(ctx, crud.Command{
		Verb:     crud.Delete,
		Noun:     "video link",
		Fallback: "Failed to delete video",
		Run:      func(ctx context.Context) error { return v.svc.DeleteVideo(ctx, key) },
	})
}

// DeletePrompt is the confirmation question for Delete.
func (v *Videos) DeletePrompt(key string) string { return "Delete video link for " + key + "?" }
