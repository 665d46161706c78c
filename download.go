package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// parseGitHubRepo extracts owner/repo from "OWNER/REPO",
// "github.com/OWNER/REPO" or a full GitHub URL. A trailing .git is stripped.
func parseGitHubRepo(input string) (owner, repo string, ok bool) {
	trimmed := strings.TrimSpace(input)

	if !strings.Contains(trimmed, "://") && !strings.Contains(trimmed, "github.com") {
		parts := strings.Split(strings.Trim(trimmed, "/"), "/")
		if len(parts) < 2 {
			return "", "", false
		}
		return parts[0], strings.TrimSuffix(parts[1], ".git"), true
	}

	raw := trimmed
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || !strings.Contains(u.Hostname(), "github.com") {
		return "", "", false
	}

	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), true
}

// releaseRedirector sends visitors to a repo's latest release asset. The
// asset's browser_download_url is used so GitHub's download stats count it.
type releaseRedirector struct {
	client  *http.Client
	apiBase string
}

func newReleaseRedirector(timeout time.Duration) *releaseRedirector {
	return &releaseRedirector{
		client:  &http.Client{Timeout: timeout},
		apiBase: "https://api.github.com",
	}
}

// HandleQuery serves GET /download?repo=OWNER/REPO (also accepts url=).
func (r *releaseRedirector) HandleQuery(c *gin.Context) {
	repoParam := c.Query("repo")
	if repoParam == "" {
		repoParam = c.Query("url")
	}
	if repoParam == "" {
		c.String(http.StatusBadRequest, `Missing "repo" query param. Example: /download?repo=OWNER/REPO`)
		return
	}

	owner, repo, ok := parseGitHubRepo(repoParam)
	if !ok {
		c.String(http.StatusBadRequest, "Invalid GitHub value %q. Expected OWNER/REPO or github.com/OWNER/REPO", repoParam)
		return
	}
	r.redirect(c, owner, repo)
}

// HandlePath serves GET /d/*repo, e.g. /d/OWNER/REPO or /d/github.com/OWNER/REPO.
func (r *releaseRedirector) HandlePath(c *gin.Context) {
	input := strings.Trim(c.Param("repo"), "/")
	if len(strings.Split(input, "/")) < 2 {
		c.String(http.StatusBadRequest, "Missing repo path. Expected /d/OWNER/REPO or /d/github.com/OWNER/REPO")
		return
	}

	owner, repo, ok := parseGitHubRepo(input)
	if !ok {
		c.String(http.StatusBadRequest, "Invalid GitHub value %q. Expected OWNER/REPO or github.com/OWNER/REPO", input)
		return
	}
	r.redirect(c, owner, repo)
}

func (r *releaseRedirector) redirect(c *gin.Context, owner, repo string) {
	releasesURL := fmt.Sprintf("https://github.com/%s/%s/releases", owner, repo)

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet,
		fmt.Sprintf("%s/repos/%s/%s/releases/latest", r.apiBase, owner, repo), nil)
	if err != nil {
		c.Redirect(http.StatusFound, releasesURL)
		return
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := r.client.Do(req)
	if err != nil {
		c.Redirect(http.StatusFound, releasesURL)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.Redirect(http.StatusFound, releasesURL)
		return
	}

	var release struct {
		Assets []struct {
			BrowserDownloadURL string `json:"browser_download_url"`
		} `json:"assets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		c.Redirect(http.StatusFound, releasesURL)
		return
	}

	// Prefer a .zip asset, else the first one. A release without assets goes
	// to its page instead of a tag zipball, which GitHub doesn't count.
	target := ""
	for _, a := range release.Assets {
		if strings.HasSuffix(strings.ToLower(a.BrowserDownloadURL), ".zip") {
			target = a.BrowserDownloadURL
			break
		}
	}
	if target == "" && len(release.Assets) > 0 {
		target = release.Assets[0].BrowserDownloadURL
	}
	if target == "" {
		c.Redirect(http.StatusFound, releasesURL+"/latest")
		return
	}
	c.Redirect(http.StatusFound, target)
}
