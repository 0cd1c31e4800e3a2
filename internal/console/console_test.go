package console

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matheus3301/shlokadmin/internal/api"
	"github.com/matheus3301/shlokadmin/internal/bus"
	"github.com/matheus3301/shlokadmin/internal/listquery"
	"github.com/matheus3301/shlokadmin/internal/mockapi"
	"github.com/matheus3301/shlokadmin/internal/model"
	"github.com/matheus3301/shlokadmin/internal/session"
	"github.com/matheus3301/shlokadmin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@test"
	adminPassword = "pw"
)

type harness struct {
	console *Console
	db      *store.DB
	data    *mockapi.Data
	baseURL string

	mu       sync.Mutex
	requests []string
}

func (h *harness) seen() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.requests...)
}

func newHarness(t *testing.T, seed mockapi.SeedOptions) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	seed.AdminEmail, seed.AdminPassword = adminEmail, adminPassword
	router, data, err := mockapi.New(seed, mockapi.TokenConfig{Secret: "s", Expiry: time.Hour, Issuer: "test"}, nil)
	require.NoError(t, err)

	h := &harness{data: data}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.requests = append(h.requests, r.Method+" "+r.URL.RequestURI())
		h.mu.Unlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	db, _, err := store.OpenMigrated(filepath.Join(t.TempDir(), "console.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	h.db = db

	h.baseURL = srv.URL + "/api"
	client, err := api.New(h.baseURL)
	require.NoError(t, err)
	b := bus.New()
	sess := session.New(db, client, "adminToken", b, nil)
	h.console = New(client, sess, 20, b, nil)
	return h
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	res := h.console.Session.Login(context.Background(), adminEmail, adminPassword)
	require.True(t, res.OK, res.Error)
}

func load[T any](t *testing.T, c *listquery.Controller[T], trigger func()) listquery.Snapshot[T] {
	t.Helper()
	trigger()
	c.Wait()
	snap := c.Snapshot()
	require.Equal(t, listquery.Loaded, snap.Status, snap.Error)
	return snap
}

func TestLoginPersistsCredential(t *testing.T) {
	h := newHarness(t, mockapi.SeedOptions{})
	h.login(t)

	assert.True(t, h.console.Session.IsAuthenticated())
	assert.Equal(t, adminEmail, h.console.Session.Principal().Email)
	stored, err := h.db.LoadCredential(context.Background(), "adminToken")
	require.NoError(t, err)
	assert.Equal(t, h.console.Session.Credential(), stored)
	_, hasExpiry := h.console.Session.TokenExpiry()
	assert.True(t, hasExpiry)
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := newHarness(t, mockapi.SeedOptions{})

	res := h.console.Session.Login(context.Background(), adminEmail, "wrong")
	assert.False(t, res.OK)
	assert.Equal(t, "Invalid credentials", res.Error)
	assert.False(t, h.console.Session.IsAuthenticated())
	_, err := h.db.LoadCredential(context.Background(), "adminToken")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUnauthenticatedListFails(t *testing.T) {
	h := newHarness(t, mockapi.SeedOptions{Shloks: 5})
	list := h.console.Shloks.List

	list.Start(context.Background())
	list.Wait()
	snap := list.Snapshot()
	assert.Equal(t, listquery.Failed, snap.Status)
	assert.Equal(t, "No token provided", snap.Error)
}

func TestDeleteShlokOnSecondPage(t *testing.T) {
	h := newHarness(t, mockapi.SeedOptions{Shloks: 45})
	h.login(t)
	ctx := context.Background()
	shloks := h.console.Shloks

	snap := load(t, shloks.List, func() { shloks.List.Start(ctx) })
	require.GreaterOrEqual(t, snap.Pagination.Pages, 2)

	snap = load(t, shloks.List, func() { shloks.List.SetPage(ctx, 2) })
	require.Len(t, snap.Items, 20)
	target, next := snap.Items[1], snap.Items[2]

	res := shloks.Delete(ctx, 1)
	require.True(t, res.OK, res.Error)
	assert.Equal(t, "Shlok deleted successfully", res.Message)
	shloks.List.Wait()

	reqs := h.seen()
	assert.Contains(t, reqs, "DELETE /api/shloks/21")
	assert.Equal(t, "GET /api/shloks?limit=20&page=2&search=", reqs[len(reqs)-1], "refetch keeps the current page")

	snap = shloks.List.Snapshot()
	assert.Equal(t, 2, snap.Query.Page)
	assert.Equal(t, next, snap.Items[1])
	assert.NotContains(t, snap.Items, target)
}

func TestUpdateShlokFailureLeavesList(t *testing.T) {
	h := newHarness(t, mockapi.SeedOptions{Shloks: 3})
	h.login(t)
	ctx := context.Background()
	shloks := h.console.Shloks
	load(t, shloks.List, func() { shloks.List.Start(ctx) })
	before := len(h.seen())

	res := shloks.Update(ctx, 50, model.Shlok{ChapterName: "Chapter 1", Shlok: 1})
	assert.False(t, res.OK)
	assert.Equal(t, "Shlok not found", res.Error)
	assert.Len(t, h.seen(), before+1, "no refetch after a failure")
}

func TestSearchReturnsToFirstPage(t *testing.T) {
	h := newHarness(t, mockapi.SeedOptions{Shloks: 120})
	h.login(t)
	ctx := context.Background()
	list := h.console.Shloks.List

	load(t, list, func() { list.Start(ctx) })
	load(t, list, func() { list.SetPage(ctx, 4) })
	snap := load(t, list, func() { list.SetSearch(ctx, "karma") })

	assert.Equal(t, 1, snap.Query.Page)
	assert.Equal(t, 10, snap.Pagination.Total)
	assert.False(t, list.Controls().Visible)
}

func TestCreateVideoAppearsOnce(t *testing.T) {
	h := newHarness(t, mockapi.SeedOptions{Shloks: 5, Videos: 2})
	h.login(t)
	ctx := context.Background()
	videos := h.console.Videos
	load(t, videos.List, func() { videos.List.Start(ctx) })

	link := model.VideoLink{Key: "Chapter3_1.mp4", URL: "https://cdn.test/3_1.mp4"}
	res := videos.Create(ctx, link)
	require.True(t, res.OK, res.Error)
	assert.Equal(t, "Video link added successfully", res.Message)
	videos.List.Wait()

	count := 0
	for _, v := range videos.List.Snapshot().Items {
		if v == link {
			count++
		}
	}
	assert.Equal(t, 1, count)

	dup := videos.Create(ctx, link)
	assert.Equal(t, "Video key already exists", dup.Error)
}

func TestVideoValidationSkipsNetwork(t *testing.T) {
	h := newHarness(t, mockapi.SeedOptions{})
	h.login(t)
	before := len(h.seen())

	tests := []struct {
		link model.VideoLink
		want string
	}{
		{model.VideoLink{Key: "", URL: "https://x.test"}, string(ErrVideoFields)},
		{model.VideoLink{Key: "k", URL: "  "}, string(ErrVideoFields)},
		{model.VideoLink{Key: "k", URL: "ftp://x.test/a"}, string(ErrVideoURL)},
		{model.VideoLink{Key: "k", URL: "/relative"}, string(ErrVideoURL)},
	}
	for _, tt := range tests {
		res := h.console.Videos.Create(context.Background(), tt.link)
		assert.False(t, res.OK)
		assert.Equal(t, tt.want, res.Error)
	}
	assert.Len(t, h.seen(), before)
}

func TestDeleteOnlyVideoEmptiesList(t *testing.T) {
	h := newHarness(t, mockapi.SeedOptions{Shloks: 1, Videos: 1})
	h.login(t)
	ctx := context.Background()
	videos := h.console.Videos

	snap := load(t, videos.List, func() { videos.List.Start(ctx) })
	require.Len(t, snap.Items, 1)

	res := videos.Delete(ctx, snap.Items[0].Key)
	require.True(t, res.OK, res.Error)
	videos.List.Wait()

	snap = videos.List.Snapshot()
	assert.Equal(t, listquery.Loaded, snap.Status)
	assert.Empty(t, snap.Items)
}

func TestUserDetailsAndDelete(t *testing.T) {
	h := newHarness(t, mockapi.SeedOptions{Users: 3})
	h.login(t)
	ctx := context.Background()
	users := h.console.Users

	d, err := users.Details(ctx, "user01@example.com")
	require.NoError(t, err)
	assert.Equal(t, "User 01", d.Name)
	assert.Equal(t, "N/A", d.Phone)
	assert.Equal(t, "N/A", d.DOB)
	assert.NotEqual(t, "N/A", d.Joined)

	_, err = users.Details(ctx, "nobody@example.com")
	assert.EqualError(t, err, "User not found")

	load(t, users.List, func() { users.List.Start(ctx) })
	res := users.Delete(ctx, "user02@example.com")
	require.True(t, res.OK, res.Error)
	users.List.Wait()
	assert.Len(t, users.List.Snapshot().Items, 2)
}

func TestAnalyticsPages(t *testing.T) {
	h := newHarness(t, mockapi.SeedOptions{Shloks: 60, Users: 12})
	h.login(t)
	ctx := context.Background()

	d, err := h.console.Analytics.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, d.Overview.TotalShloks)
	assert.Len(t, d.Themes, 10)
	assert.Equal(t, "Ch 1", d.Chapters[0].Label)
	assert.Len(t, d.RecentUsers, 5)

	r, err := h.console.Analytics.Report(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, r.Popular)
	assert.NotEmpty(t, r.Growth)
	assert.NotEmpty(t, r.Themes)
}

func TestRestoreAcrossProcesses(t *testing.T) {
	h := newHarness(t, mockapi.SeedOptions{})
	h.login(t)
	token := h.console.Session.Credential()

	client, err := api.New(h.baseURL)
	require.NoError(t, err)
	restored := session.New(h.db, client, "adminToken", nil, nil)
	ok, err := restored.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, token, restored.Credential())
	assert.Equal(t, adminEmail, restored.Principal().Email)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 100))
	assert.Equal(t, "abc...", Preview("abcdef", 3))
	assert.Equal(t, "कर्...", Preview("कर्मण्येवाधिकारस्ते", 3))
}
