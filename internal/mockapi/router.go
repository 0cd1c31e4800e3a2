// Package mockapi is an in-memory reference implementation of the shloks
// admin backend, used by integration tests and cmd/shlokmock.
package mockapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const adminIDKey = "adminID"

// Deps are the router's collaborators.
type Deps struct {
	Data   *Data
	Tokens TokenConfig
	Logger *zap.Logger
}

// New seeds a fresh dataset and returns the router serving it.
func New(seed SeedOptions, tokens TokenConfig, logger *zap.Logger) (*gin.Engine, *Data, error) {
	data := NewData()
	if err := Seed(data, seed); err != nil {
		return nil, nil, err
	}
	return NewRouter(Deps{Data: data, Tokens: tokens, Logger: logger}), data, nil
}

// NewRouter mounts every endpoint under /api.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(deps.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	h := &handlers{data: deps.Data, tokens: deps.Tokens}
	api := r.Group("/api")
	api.POST("/auth/login", h.login)

	protected := api.Group("")
	protected.Use(requireAuth(deps.Tokens))
	protected.GET("/auth/me", h.me)

	protected.GET("/shloks", h.listShloks)
	protected.PUT("/shloks/:position", h.updateShlok)
	protected.DELETE("/shloks/:position", h.deleteShlok)

	protected.GET("/users", h.listUsers)
	protected.GET("/users/:email", h.getUser)
	protected.DELETE("/users/:email", h.deleteUser)

	protected.GET("/videos", h.listVideos)
	protected.POST("/videos", h.createVideo)
	protected.PUT("/videos/:key", h.updateVideo)
	protected.DELETE("/videos/:key", h.deleteVideo)

	protected.GET("/analytics/stats", h.stats)
	protected.GET("/analytics/popular-shloks", h.popularShloks)
	protected.GET("/analytics/user-growth", h.userGrowth)
	protected.GET("/analytics/bookmarks-by-theme", h.bookmarksByTheme)

	return r
}

func requireAuth(cfg TokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			fail(c, http.StatusUnauthorized, "No token provided")
			c.Abort()
			return
		}
		adminID, err := VerifyToken(parts[1], cfg)
		if err != nil {
			fail(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}
		c.Set(adminIDKey, adminID)
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", id),
			zap.Duration("took", time.Since(start)),
		)
	}
}

func ok(c *gin.Context, data any) {
	if data == nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}
