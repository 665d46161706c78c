package main

import (
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	setupLogging()
	initHashingSalt()

	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	// Single instance runs on the in-memory counter; REDIS_ADDR switches to
	// the shared one without touching the rest of the pipeline.
	var limiter Limiter
	if addr := cfg.Env.RedisAddr; addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		limiter = NewRedisLimiter(rdb, cfg.Env.RateLimitWindow, cfg.Env.RateLimitMax)
		slog.Info("rate limiter using redis", "addr", addr)
	} else {
		limiter = NewMemoryLimiter(cfg.Env.RateLimitWindow, cfg.Env.RateLimitMax)
	}

	channels := buildChannels(cfg)
	if len(channels) == 0 {
		slog.Warn("no delivery channels configured; contact submissions will fail")
	} else {
		slog.Info("delivery channels configured", "count", len(channels))
	}

	processor := NewProcessor(cfg, limiter, channels)
	resume := newResumeHandler(cfg)
	releases := newReleaseRedirector(cfg.Env.DeliverTimeout)

	r := gin.Default()
	r.Use(pageviewMiddleware())

	r.Static("/images", "./images")
	r.Static("/static", "./static")

	r.GET("/healthz", healthHandler)
	r.GET("/api/site", siteHandler(cfg))
	r.POST("/api/contact", processor.Handle)
	r.GET("/resume", resume.Handle)
	r.HEAD("/resume", resume.Handle)
	r.GET("/download", releases.HandleQuery)
	r.GET("/d/*repo", releases.HandlePath)

	if err := r.Run(":" + cfg.Env.Port); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
