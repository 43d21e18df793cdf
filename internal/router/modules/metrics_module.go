package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/user-cache-api/internal/interface/middleware"
)

type MetricsModule struct {
	Redis *redis.Client
}

func NewMetricsModule(rdb *redis.Client) *MetricsModule { return &MetricsModule{Redis: rdb} }

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	// Prometheus endpoint, rate-limited per IP; private-network scrapers bypass
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/metrics", rl, gin.WrapH(promhttp.Handler()))
}
