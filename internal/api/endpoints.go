package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/matheus3301/shlokadmin/internal/model"
)

// ListParams are the query parameters of the paginated list endpoints.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.Limit))
	q.Set("search", p.Search)
	return q
}

// LoginResult is the data of a successful /auth/login.
type LoginResult struct {
	Principal model.Principal `json:"admin"`
	Token     string          `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an operator.
func (c *Client) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: identifier, Password: secret}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Me returns the principal the current credential belongs to.
func (c *Client) Me(ctx context.Context) (*model.Principal, error) {
	var p model.Principal
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type shlokList struct {
	Shloks     []model.Shlok    `json:"shloks"`
	Pagination model.Pagination `json:"pagination"`
}

// ListShloks fetches one page of content records.
func (c *Client) ListShloks(ctx context.Context, p ListParams) (model.Page[model.Shlok], error) {
	var data shlokList
	if err := c.do(ctx, http.MethodGet, "/shloks", p.values(), nil, &data); err != nil {
		return model.Page[model.Shlok]{}, err
	}
	return model.Page[model.Shlok]{Items: data.Shloks, Pagination: data.Pagination}, nil
}

// UpdateShlok replaces the record at absolute position.
func (c *Client) UpdateShlok(ctx context.Context, position int, s model.Shlok) error {
	return c.do(ctx, http.MethodPut, "/shloks/"+strconv.Itoa(position), nil, s, nil)
}

// DeleteShlok removes the record at absolute position.
func (c *Client) DeleteShlok(ctx context.Context, position int) error {
	return c.do(ctx, http.MethodDelete, "/shloks/"+strconv.Itoa(position), nil, nil, nil)
}

type userList struct {
	Users      []model.User     `json:"users"`
	Pagination model.Pagination `json:"pagination"`
}

// ListUsers fetches one page of end-user accounts.
func (c *Client) ListUsers(ctx context.Context, p ListParams) (model.Page[model.User], error) {
	var data userList
	if err := c.do(ctx, http.MethodGet, "/users", p.values(), nil, &data); err != nil {
		return model.Page[model.User]{}, err
	}
	return model.Page[model.User]{Items: data.Users, Pagination: data.Pagination}, nil
}

// GetUser fetches one account by email.
func (c *Client) GetUser(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(email), nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes one account by email.
func (c *Client) DeleteUser(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(email), nil, nil, nil)
}

type videoList struct {
	Videos []model.VideoLink `json:"videos"`
}

// ListVideos fetches the whole video-link table.
func (c *Client) ListVideos(ctx context.Context) ([]model.VideoLink, error) {
	var data videoList
	if err := c.do(ctx, http.MethodGet, "/videos", nil, nil, &data); err != nil {
		return nil, err
	}
	return data.Videos, nil
}

// CreateVideo adds a video link.
func (c *Client) CreateVideo(ctx context.Context, v model.VideoLink) error {
	return c.do(ctx, http.MethodPost, "/videos", nil, v, nil)
}

type videoURL struct {
	URL string `json:"url"`
}

// UpdateVideo changes the URL of an existing key.
func (c *Client) UpdateVideo(ctx context.Context, key, rawURL string) error {
	return c.do(ctx, http.MethodPut, "/videos/"+url.PathEscape(key), nil, videoURL{URL: rawURL}, nil)
}

// DeleteVideo removes a video link by key.
func (c *Client) DeleteVideo(ctx context.Context, key string) error {
	return c.do(ctx, http.MethodDelete, "/videos/"+url.PathEscape(key), nil, nil, nil)
}

// Stats fetches the dashboard aggregates.
func (c *Client) Stats(ctx context.Context) (*model.Stats, error) {
	var s model.Stats
	if err := c.do(ctx, http.MethodGet, "/analytics/stats", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// PopularShloks fetches the most bookmarked records.
func (c *Client) PopularShloks(ctx context.Context) ([]model.PopularShlok, error) {
	var out []model.PopularShlok
	err := c.do(ctx, http.MethodGet, "/analytics/popular-shloks", nil, nil, &out)
	return out, err
}

// UserGrowth fetches the user growth series.
func (c *Client) UserGrowth(ctx context.Context) ([]model.GrowthPoint, error) {
	var out []model.GrowthPoint
	err := c.do(ctx, http.MethodGet, "/analytics/user-growth", nil, nil, &out)
	return out, err
}

// BookmarksByTheme fetches bookmark counts grouped by theme.
func (c *Client) BookmarksByTheme(ctx context.Context) ([]model.ThemeCount, error) {
	var out []model.ThemeCount
	err := c.do(ctx, http.MethodGet, "/analytics/bookmarks-by-theme", nil, nil, &out)
	return out, err
}
