package main

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// pageviewMiddleware logs page hits with a hashed client IP. Static assets
// and health checks are skipped, and the Do Not Track header is respected.
func pageviewMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/images/") ||
			strings.HasPrefix(path, "/favicon") ||
			path == "/healthz" {
			c.Next()
			return
		}

		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		slog.Info("pageview",
			"path", path,
			"method", c.Request.Method,
			"visitor", hashIP(clientIP(c)),
		)
		c.Next()
	}
}
