package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// siteHandler exposes the declarative page content (hero, about, socials,
// section toggles) to the static frontend.
func siteHandler(cfg *Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, cfg.Site)
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
