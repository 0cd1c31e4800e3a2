package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matheus3301/shlokadmin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCreds string

func (s staticCreds) Credential() string { return string(s) }

type recorded struct {
	Method string
	Path   string
	RawURI string
	Header http.Header
	Body   []byte
}

// backend replies with the given status and JSON body and records every request.
func backend(t *testing.T, status int, body string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var reqs []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		reqs = append(reqs, recorded{Method: r.Method, Path: r.URL.Path, RawURI: r.RequestURI, Header: r.Header.Clone(), Body: b})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func newClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(srv.URL + "/api")
	require.NoError(t, err)
	return c
}

func TestCredentialInjection(t *testing.T) {
	srv, reqs := backend(t, http.StatusOK, `{"success":true,"data":{"id":"a1","name":"Admin"}}`)
	c := newClient(t, srv)

	_, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Empty(t, (*reqs)[0].Header.Get("Authorization"), "no credential source: unauthenticated request")

	c.UseCredentials(staticCreds(""))
	_, err = c.Me(context.Background())
	require.NoError(t, err)
	assert.Empty(t, (*reqs)[1].Header.Get("Authorization"), "empty credential: unauthenticated request")

	c.UseCredentials(staticCreds("tok-123"))
	p, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", (*reqs)[2].Header.Get("Authorization"))
	assert.Equal(t, "/api/auth/me", (*reqs)[2].Path)
	assert.NotEmpty(t, (*reqs)[2].Header.Get("X-Request-ID"))
	assert.Equal(t, "Admin", p.Name)
}

func TestLoginSendsCredentialsAndDecodes(t *testing.T) {
	srv, reqs := backend(t, http.StatusOK, `{"success":true,"data":{"admin":{"id":"a1","name":"Admin"},"token":"jwt"}}`)
	c := newClient(t, srv)

	res, err := c.Login(context.Background(), "admin@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "jwt", res.Token)
	assert.Equal(t, "a1", res.Principal.ID)

	var sent map[string]string
	require.NoError(t, json.Unmarshal((*reqs)[0].Body, &sent))
	assert.Equal(t, map[string]string{"email": "admin@example.com", "password": "s3cret"}, sent)
	assert.Equal(t, http.MethodPost, (*reqs)[0].Method)
}

func TestListShloksQuery(t *testing.T) {
	srv, reqs := backend(t, http.StatusOK, `{"success":true,"data":{"shloks":[{"chapterName":"Chapter 2","shlok":47}],"pagination":{"page":2,"pages":5,"total":90}}}`)
	c := newClient(t, srv)

	page, err := c.ListShloks(context.Background(), ListParams{Page: 2, Limit: 20, Search: "karma yoga"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 47, page.Items[0].Shlok)
	assert.Equal(t, model.Pagination{Page: 2, Pages: 5, Total: 90}, page.Pagination)
	assert.Equal(t, "/api/shloks?limit=20&page=2&search=karma+yoga", (*reqs)[0].RawURI)
}

func TestKeyAddressedRoutesAreEscaped(t *testing.T) {
	srv, reqs := backend(t, http.StatusOK, `{"success":true}`)
	c := newClient(t, srv)
	ctx := context.Background()

	require.NoError(t, c.DeleteUser(ctx, "a b@example.com"))
	require.NoError(t, c.UpdateVideo(ctx, "Chapter1_1.mp4", "https://cdn.example/1.mp4"))
	require.NoError(t, c.DeleteShlok(ctx, 21))

	assert.Equal(t, "/api/users/a%20b@example.com", (*reqs)[0].RawURI)
	assert.Equal(t, http.MethodPut, (*reqs)[1].Method)
	assert.JSONEq(t, `{"url":"https://cdn.example/1.mp4"}`, string((*reqs)[1].Body))
	assert.Equal(t, "/api/shloks/21", (*reqs)[2].RawURI)
	assert.Equal(t, http.MethodDelete, (*reqs)[2].Method)
}

func TestRejectedCarriesServerMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"success false on 200", http.StatusOK, `{"success":false,"error":"Video key already exists"}`, "Video key already exists"},
		{"400 with message", http.StatusBadRequest, `{"success":false,"error":"Invalid credentials"}`, "Invalid credentials"},
		{"500 without envelope", http.StatusInternalServerError, `oops`, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := backend(t, tt.status, tt.body)
			c := newClient(t, srv)

			err := c.CreateVideo(context.Background(), model.VideoLink{Key: "k", URL: "https://x"})
			var rej *RejectedError
			require.ErrorAs(t, err, &rej)
			assert.Equal(t, tt.status, rej.Status)
			assert.Equal(t, tt.want, Message(err, "fallback"))
			assert.False(t, errors.Is(err, ErrNetwork))
		})
	}
}

func TestUnauthorizedFiresHook(t *testing.T) {
	srv, _ := backend(t, http.StatusUnauthorized, `{"success":false,"error":"Invalid token"}`)
	c := newClient(t, srv)
	fired := 0
	c.OnUnauthorized(func() { fired++ })

	_, err := c.ListUsers(context.Background(), ListParams{Page: 1, Limit: 20})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, fired)
}

func TestNetworkFailure(t *testing.T) {
	srv, _ := backend(t, http.StatusOK, `{}`)
	c := newClient(t, srv)
	srv.Close()

	_, err := c.ListVideos(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, "Failed to fetch videos", Message(err, "Failed to fetch videos"))
}

func TestMalformedSuccessBodyIsNetworkFailure(t *testing.T) {
	srv, _ := backend(t, http.StatusOK, `<html>proxy error</html>`)
	c := newClient(t, srv)

	_, err := c.Stats(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestNewRejectsRelativeBase(t *testing.T) {
	_, err := New("/api")
	assert.Error(t, err)
}
