package mockapi

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/matheus3301/shlokadmin/internal/model"
)

const (
	defaultLimit = 20
	maxLimit     = 200
)

type handlers struct {
	data   *Data
	tokens TokenConfig
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlers) login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" || body.Password == "" {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}
	p, found := h.data.Authenticate(body.Email, body.Password)
	if !found {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, err := CreateToken(p.ID, h.tokens)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Token creation failed")
		return
	}
	ok(c, gin.H{"admin": p, "token": token})
}

func (h *handlers) me(c *gin.Context) {
	p, found := h.data.Admin(c.GetString(adminIDKey))
	if !found {
		fail(c, http.StatusUnauthorized, "Admin not found")
		return
	}
	ok(c, p)
}

func listParams(c *gin.Context) (page, limit int, search string) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	return page, min(limit, maxLimit), c.Query("search")
}

func (h *handlers) listShloks(c *gin.Context) {
	page, limit, search := listParams(c)
	items, pg := h.data.Shloks(page, limit, search)
	ok(c, gin.H{"shloks": items, "pagination": pg})
}

func position(c *gin.Context) (int, bool) {
	pos, err := strconv.Atoi(c.Param("position"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid shlok index")
		return 0, false
	}
	return pos, true
}

func (h *handlers) updateShlok(c *gin.Context) {
	pos, valid := position(c)
	if !valid {
		return
	}
	var s model.Shlok
	if err := c.ShouldBindJSON(&s); err != nil {
		fail(c, http.StatusBadRequest, "Invalid shlok")
		return
	}
	if err := h.data.UpdateShlok(pos, s); err != nil {
		fail(c, http.StatusNotFound, "Shlok not found")
		return
	}
	ok(c, s)
}

func (h *handlers) deleteShlok(c *gin.Context) {
	pos, valid := position(c)
	if !valid {
		return
	}
	if err := h.data.DeleteShlok(pos); err != nil {
		fail(c, http.StatusNotFound, "Shlok not found")
		return
	}
	ok(c, nil)
}

func (h *handlers) listUsers(c *gin.Context) {
	page, limit, search := listParams(c)
	items, pg := h.data.Users(page, limit, search)
	ok(c, gin.H{"users": items, "pagination": pg})
}

func (h *handlers) getUser(c *gin.Context) {
	u, err := h.data.User(c.Param("email"))
	if err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	ok(c, u)
}

func (h *handlers) deleteUser(c *gin.Context) {
	if err := h.data.DeleteUser(c.Param("email")); err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	ok(c, nil)
}

func (h *handlers) listVideos(c *gin.Context) {
	ok(c, gin.H{"videos": h.data.Videos()})
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (h *handlers) createVideo(c *gin.Context) {
	var v model.VideoLink
	if err := c.ShouldBindJSON(&v); err != nil || v.Key == "" || v.URL == "" {
		fail(c, http.StatusBadRequest, "Key and URL are required")
		return
	}
	if !validURL(v.URL) {
		fail(c, http.StatusBadRequest, "Invalid URL")
		return
	}
	if err := h.data.AddVideo(v); errors.Is(err, ErrDuplicate) {
		fail(c, http.StatusBadRequest, "Video key already exists")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": v})
}

func (h *handlers) updateVideo(c *gin.Context) {
	var body struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.URL == "" {
		fail(c, http.StatusBadRequest, "URL is required")
		return
	}
	if !validURL(body.URL) {
		fail(c, http.StatusBadRequest, "Invalid URL")
		return
	}
	if err := h.data.UpdateVideo(c.Param("key"), body.URL); err != nil {
		fail(c, http.StatusNotFound, "Video not found")
		return
	}
	ok(c, model.VideoLink{Key: c.Param("key"), URL: body.URL})
}

func (h *handlers) deleteVideo(c *gin.Context) {
	if err := h.data.DeleteVideo(c.Param("key")); err != nil {
		fail(c, http.StatusNotFound, "Video not found")
		return
	}
	ok(c, nil)
}

func (h *handlers) stats(c *gin.Context) {
	ok(c, h.data.Stats())
}

func (h *handlers) popularShloks(c *gin.Context) {
	ok(c, h.data.PopularShloks())
}

func (h *handlers) userGrowth(c *gin.Context) {
	ok(c, h.data.UserGrowth())
}

func (h *handlers) bookmarksByTheme(c *gin.Context) {
	ok(c, h.data.BookmarksByTheme())
}
