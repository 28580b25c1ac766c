package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"waste-monitor-backend/config"
	"waste-monitor-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestLogger(logger), mw.CORS(cfg.AllowedOrigins))

	r.GET("/healthz", h.GetHealth)

	api := r.Group("/api")
	api.Use(mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst))
	{
		// Subscriptions change outside HTTP (expired ones are dropped by the
		// alert workers), so they are never served from the cache.
		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	data := api.Group("")
	if cfg.CacheTTLSeconds > 0 {
		ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
		data.Use(mw.Cache(cache.New(ttl, 2*ttl), ttl))
	}
	{
		data.POST("/waste", h.CreateReading)
		data.GET("/waste/recent", h.GetRecent)
		data.GET("/waste/daily", h.GetDaily)

		data.GET("/bins/stats", h.GetBinStats)
		data.GET("/bins/score/:binId", h.GetBinScore)

		data.GET("/admin/top", h.GetTop)
	}

	return r
}
