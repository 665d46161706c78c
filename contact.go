package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	urlRx   = regexp.MustCompile(`(?i)https?://\S+`)
)

const maxLinks = 5

// contactRequest is the untrusted form payload. Hp is a honeypot field real
// users never fill in; StartedAt is the client-reported form-render time.
type contactRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Hp        string `json:"hp"`
	StartedAt int64  `json:"startedAt"`
	SendCopy  bool   `json:"sendCopy"`
}

// Submission is the normalized, validated form of a contact request.
// Timestamps come from the server clock, never from client input.
type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string

	TimestampISO string
	TimestampFmt string
	IP           string
	SendCopy     bool
}

// Payload carries the rendered per-channel message bodies for one submission.
type Payload struct {
	Sub *Submission

	DiscordContent string
	TelegramText   string

	EmailSubject string
	EmailText    string
	EmailHTML    string
	AckSubject   string
	AckText      string
	AckHTML      string
}

// Processor runs a contact submission through its gates: rate limit, parse,
// anti-abuse, validation, rendering, delivery, response assembly. Each gate is
// final; delivery failures are isolated per channel.
type Processor struct {
	cfg      *Config
	limiter  Limiter
	channels []Channel
	now      func() time.Time
	timeout  time.Duration
}

func NewProcessor(cfg *Config, limiter Limiter, channels []Channel) *Processor {
	return &Processor{
		cfg:      cfg,
		limiter:  limiter,
		channels: channels,
		now:      time.Now,
		timeout:  cfg.Env.DeliverTimeout,
	}
}

// Handle is the gin handler for POST /api/contact.
func (p *Processor) Handle(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	status, resp := p.process(c.Request.Context(), body, clientIP(c))
	c.JSON(status, resp)
}

func (p *Processor) process(ctx context.Context, body []byte, ip string) (int, gin.H) {
	log := slog.With("submission", uuid.NewString())

	if !p.limiter.Allow(ip) {
		log.Info("rate limited", "visitor", hashIP(ip))
		return http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again shortly."}
	}

	var req contactRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return http.StatusBadRequest, gin.H{"error": "Invalid JSON"}
	}

	// Honeypot: succeed silently so bots don't learn they were caught.
	if strings.TrimSpace(req.Hp) != "" {
		log.Info("honeypot tripped", "visitor", hashIP(ip))
		return http.StatusOK, gin.H{"ok": true}
	}
	if req.StartedAt > 0 && p.now().UnixMilli()-req.StartedAt < p.cfg.Env.MinDwell.Milliseconds() {
		return http.StatusBadRequest, gin.H{"error": "Please take a moment before submitting."}
	}

	sub := p.normalize(&req, ip)
	if msg := p.validate(sub); msg != "" {
		return http.StatusBadRequest, gin.H{"error": msg}
	}

	payload := p.render(sub)
	if len(payload.EmailText)+len(payload.EmailHTML) > p.cfg.Contact.Limits.EmailContentMax {
		return http.StatusBadRequest, gin.H{"error": "Email content too large."}
	}

	warnings := []string{}
	delivered := false
	for _, ch := range p.channels {
		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		err := ch.Send(attemptCtx, payload)
		cancel()
		if err != nil {
			log.Warn("channel delivery failed", "channel", ch.Name(), "error", err)
			warnings = append(warnings, ch.Name()+" delivery failed.")
			continue
		}
		delivered = true
	}

	if !delivered {
		msg := "Delivery failed. Please try again later."
		if len(warnings) > 0 {
			msg = warnings[0]
		}
		log.Error("all channels failed", "channels", len(p.channels))
		return http.StatusBadGateway, gin.H{"error": msg}
	}

	log.Info("submission delivered", "warnings", len(warnings))
	return http.StatusOK, gin.H{"ok": true, "warnings": warnings}
}

func (p *Processor) normalize(req *contactRequest, ip string) *Submission {
	l := p.cfg.Contact.Limits
	now := p.now()

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = p.cfg.DefaultSubject()
	}

	return &Submission{
		Name:    clip(strings.TrimSpace(req.Name), l.NameMax),
		Email:   clip(strings.ToLower(strings.TrimSpace(req.Email)), l.EmailMax),
		Subject: clip(subject, l.SubjectMax),
		Message: clip(strings.ReplaceAll(strings.TrimSpace(req.Message), "\r", ""), l.MessageMax),

		TimestampISO: now.UTC().Format(time.RFC3339),
		TimestampFmt: now.Format("Jan 02, 2006, 03:04:05 PM"),
		IP:           ip,
		SendCopy:     req.SendCopy,
	}
}

// validate returns a short client-facing message, or "" when the submission
// is acceptable.
func (p *Processor) validate(sub *Submission) string {
	if sub.Name == "" || sub.Email == "" || sub.Message == "" {
		return "Missing fields"
	}
	if !emailRx.MatchString(sub.Email) {
		return "Invalid email"
	}
	domain := strings.ToLower(sub.Email[strings.LastIndex(sub.Email, "@")+1:])
	if _, banned := p.cfg.DisposableDomainSet()[domain]; banned {
		return "Please use a real email address."
	}
	if len(urlRx.FindAllString(sub.Message, -1)) > maxLinks {
		return "Too many links in message"
	}
	return ""
}

func (p *Processor) render(sub *Submission) *Payload {
	raw := map[string]string{
		"name":          sub.Name,
		"email":         sub.Email,
		"subject":       sub.Subject,
		"message":       sub.Message,
		"timestamp":     sub.TimestampISO,
		"timestamp_fmt": sub.TimestampFmt,
		"ip":            sub.IP,
	}
	// HTML-escaped variable set for the HTML email body only.
	html := map[string]string{
		"name":          escapeHTML(sub.Name),
		"email":         escapeHTML(sub.Email),
		"subject":       escapeHTML(sub.Subject),
		"message":       escapeHTML(sub.Message),
		"timestamp":     sub.TimestampISO,
		"timestamp_fmt": sub.TimestampFmt,
		"ip":            sub.IP,
	}

	t := p.cfg.Contact.Templates
	l := p.cfg.Contact.Limits

	return &Payload{
		Sub: sub,

		DiscordContent: clipWithMarker(sanitizeForDiscord(fillTemplate(t.Discord.Content, raw)), l.DiscordMax),
		TelegramText:   clipWithMarker(fillTemplate(t.Telegram.Text, raw), l.TelegramMax),

		EmailSubject: fillTemplate(t.Email.Subject, raw),
		EmailText:    fillTemplate(t.Email.Text, raw),
		EmailHTML:    fillTemplate(t.Email.HTML, html),
		AckSubject:   fillTemplate(t.Email.AckSubject, raw),
		AckText:      fillTemplate(t.Email.AckText, raw),
		AckHTML:      fillTemplate(t.Email.AckHTML, html),
	}
}

// clientIP extracts the caller's address from proxy headers, best effort.
func clientIP(c *gin.Context) string {
	if xfwd := c.GetHeader("X-Forwarded-For"); xfwd != "" {
		if first := strings.TrimSpace(strings.Split(xfwd, ",")[0]); first != "" {
			return first
		}
	}
	if real := c.GetHeader("X-Real-IP"); real != "" {
		return real
	}
	return "0.0.0.0"
}
