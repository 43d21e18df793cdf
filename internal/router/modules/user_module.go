package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/user-cache-api/internal/interface/http"
	"github.com/oksasatya/user-cache-api/internal/interface/middleware"
)

// UserModule wires the user CRUD handlers:
// POST /users, GET /users, GET /users/search, GET /users/:id,
// PUT|PATCH /users/:id, DELETE /users/:id.
// Writes are rate-limited per IP and route when Redis is available.
type UserModule struct {
	Handler *handlers.UserHandler
	Redis   *redis.Client

	WriteLimit  int
	WriteWindow time.Duration
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client, writeLimit int, writeWindow time.Duration) *UserModule {
	return &UserModule{Handler: h, Redis: rdb, WriteLimit: writeLimit, WriteWindow: writeWindow}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	writeLimiter := middleware.RateLimit(m.Redis, m.WriteLimit, m.WriteWindow, middleware.KeyByIPAndPath(), nil)

	users := rg.Group("/users")
	{
		users.GET("", m.Handler.List)
		users.GET("/search", m.Handler.Search)
		users.GET("/:id", m.Handler.Get)

		users.POST("", writeLimiter, m.Handler.Create)
		users.PUT("/:id", writeLimiter, m.Handler.Update)
		users.PATCH("/:id", writeLimiter, m.Handler.Update)
		users.DELETE("/:id", writeLimiter, m.Handler.Delete)
	}
}
