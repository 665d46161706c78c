package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var filenameRx = regexp.MustCompile(`[^a-zA-Z0-9._\- ()]`)

// sanitizeFilename strips characters that break Content-Disposition across
// browsers.
func sanitizeFilename(name string) string {
	cleaned := strings.TrimSpace(filenameRx.ReplaceAllString(name, ""))
	if cleaned == "" {
		return "Resume.pdf"
	}
	return cleaned
}

// resumeHandler proxies the resume PDF from its configured source: a Google
// Doc export, a local file under public/, or a remote URL.
type resumeHandler struct {
	cfg    *Config
	client *http.Client
}

func newResumeHandler(cfg *Config) *resumeHandler {
	return &resumeHandler{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Env.DeliverTimeout},
	}
}

// Handle serves GET and HEAD /resume. Query params: dl=1 forces a download,
// noCache=1 disables caching, buster busts upstream caches.
func (h *resumeHandler) Handle(c *gin.Context) {
	r := h.cfg.Resume
	noCache := c.Query("noCache") == "1"
	buster := c.Query("buster")

	disposition := "inline"
	if c.Query("dl") == "1" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, sanitizeFilename(r.Filename)))

	if noCache {
		c.Header("Cache-Control", "no-store")
	} else {
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d, s-maxage=%d", r.CacheSeconds, r.CacheSeconds))
	}

	if strings.ToLower(r.Source) == "file" {
		if p := r.File.Path; p != "" && strings.HasPrefix(p, "/") {
			h.serveLocal(c, filepath.Join("public", filepath.Clean(p)))
			return
		}
		if u := r.File.URL; strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			h.serveRemote(c, withBuster(u, buster))
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resume source=file but no file.path or file.url configured"})
		return
	}

	// Google Doc export. Env wins over the config file so the doc id can stay
	// out of the repo.
	id := h.cfg.Env.ResumeGoogleDocID
	if id == "" {
		id = strings.TrimSpace(r.GoogleDocID)
	}
	if id == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resume source=google but no Google Doc ID provided"})
		return
	}
	exportURL := fmt.Sprintf("https://docs.google.com/document/d/%s/export?format=pdf", url.QueryEscape(id))
	h.serveRemote(c, withBuster(exportURL, buster))
}

func withBuster(raw, buster string) string {
	if buster == "" {
		return raw
	}
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return raw + sep + "cachebust=" + url.QueryEscape(buster)
}

func (h *resumeHandler) serveLocal(c *gin.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to serve resume PDF"})
		return
	}
	if stat, err := os.Stat(path); err == nil {
		setResumeModified(c, stat.ModTime())
	}
	c.Header("Content-Length", strconv.Itoa(len(data)))
	if c.Request.Method == http.MethodHead {
		c.Status(http.StatusOK)
		return
	}
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *resumeHandler) serveRemote(c *gin.Context, rawURL string) {
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, rawURL, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to serve resume PDF"})
		return
	}
	resp, err := h.client.Do(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to serve resume PDF"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("upstream fetch failed (%d)", resp.StatusCode)})
		return
	}

	lastMod := time.Now()
	if t, err := http.ParseTime(resp.Header.Get("Last-Modified")); err == nil {
		lastMod = t
	}
	setResumeModified(c, lastMod)

	length := int64(-1)
	if n, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64); err == nil {
		length = n
	}
	if c.Request.Method == http.MethodHead {
		if length >= 0 {
			c.Header("Content-Length", strconv.FormatInt(length, 10))
		}
		c.Status(http.StatusOK)
		return
	}
	c.DataFromReader(http.StatusOK, length, "application/pdf", resp.Body, nil)
}

// setResumeModified mirrors Last-Modified into x-resume-updated, which the
// frontend reads when browsers hide the standard header.
func setResumeModified(c *gin.Context, t time.Time) {
	lm := t.UTC().Format(http.TimeFormat)
	c.Header("Last-Modified", lm)
	c.Header("x-resume-updated", lm)
}
