package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full startup configuration: site content and contact/resume
// settings come from a JSON file (the same file the frontend reads), secrets
// and endpoints come from the environment. Loaded once in main, never re-read.
type Config struct {
	Site    SiteConfig    `json:"site"`
	Contact ContactConfig `json:"contact"`
	Resume  ResumeConfig  `json:"resume"`

	Env EnvConfig `json:"-"`
}

// SiteConfig is the declarative page content served to the frontend.
type SiteConfig struct {
	Name     string            `json:"name"`
	Title    string            `json:"title"`
	Tagline  string            `json:"tagline"`
	Location string            `json:"location"`
	Socials  map[string]string `json:"socials"`
	Sections map[string]bool   `json:"sections"`
	About    AboutConfig       `json:"about"`
}

type AboutConfig struct {
	Intro               []string `json:"intro"`
	CurrentlyLookingFor string   `json:"currentlyLookingFor"`
	AvatarURL           string   `json:"avatarUrl"`
	RecentTools         []string `json:"recentTools"`
}

// ContactConfig holds the editable limits, templates and denylist for the
// contact pipeline. Zero values fall back to the built-in defaults.
type ContactConfig struct {
	Limits            ContactLimits    `json:"limits"`
	SubjectOptions    []string         `json:"subjectOptions"`
	DisposableDomains []string         `json:"disposableDomains"`
	Templates         ContactTemplates `json:"templates"`
}

type ContactLimits struct {
	NameMax         int `json:"nameMax"`
	EmailMax        int `json:"emailMax"`
	SubjectMax      int `json:"subjectMax"`
	MessageMax      int `json:"messageMax"`
	DiscordMax      int `json:"discordMax"`
	TelegramMax     int `json:"telegramMax"`
	EmailContentMax int `json:"emailContentMax"`
}

type ContactTemplates struct {
	Discord struct {
		Content string `json:"content"`
	} `json:"discord"`
	Telegram struct {
		Text string `json:"text"`
	} `json:"telegram"`
	Email struct {
		Subject    string `json:"subject"`
		Text       string `json:"text"`
		HTML       string `json:"html"`
		AckSubject string `json:"ackSubject"`
		AckText    string `json:"ackText"`
		AckHTML    string `json:"ackHtml"`
	} `json:"email"`
}

// ResumeConfig controls the /resume proxy. Source is "google" or "file".
type ResumeConfig struct {
	Source       string `json:"source"`
	GoogleDocID  string `json:"googleDocId"`
	Filename     string `json:"filename"`
	CacheSeconds int    `json:"cacheSeconds"`
	File         struct {
		Path string `json:"path"`
		URL  string `json:"url"`
	} `json:"file"`
}

// EnvConfig carries everything sourced from process environment only.
type EnvConfig struct {
	Port              string
	DiscordWebhookURL string
	TelegramBotToken  string
	TelegramChatID    string
	ResendAPIKey      string
	ContactToEmail    string
	ContactFromEmail  string
	ResumeGoogleDocID string
	RedisAddr         string

	RateLimitWindow time.Duration
	RateLimitMax    int
	MinDwell        time.Duration
	DeliverTimeout  time.Duration
}

// LoadConfig reads the JSON config file (CONFIG_PATH, default config.json) and
// the environment. A missing config file is fine; everything has a fallback.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	path := envString("CONFIG_PATH", "config.json")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyDefaults()

	cfg.Env = EnvConfig{
		Port:              envString("PORT", "8080"),
		DiscordWebhookURL: os.Getenv("DISCORD_CONTACT_WEBHOOK_URL"),
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:    os.Getenv("TELEGRAM_CHAT_ID"),
		ResendAPIKey:      os.Getenv("RESEND_API_KEY"),
		ContactToEmail:    os.Getenv("CONTACT_TO_EMAIL"),
		ContactFromEmail:  envString("CONTACT_FROM_EMAIL", "onboarding@resend.dev"),
		ResumeGoogleDocID: strings.TrimSpace(os.Getenv("RESUME_GOOGLE_DOC_ID")),
		RedisAddr:         os.Getenv("REDIS_ADDR"),

		RateLimitWindow: time.Duration(envInt("RATE_LIMIT_WINDOW_MS", 60_000)) * time.Millisecond,
		RateLimitMax:    envInt("RATE_LIMIT_MAX", 5),
		MinDwell:        time.Duration(envInt("MIN_DWELL_MS", 1500)) * time.Millisecond,
		DeliverTimeout:  time.Duration(envInt("DELIVER_TIMEOUT_MS", 10_000)) * time.Millisecond,
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	l := &c.Contact.Limits
	if l.NameMax <= 0 {
		l.NameMax = 50
	}
	if l.EmailMax <= 0 {
		l.EmailMax = 50
	}
	if l.SubjectMax <= 0 {
		l.SubjectMax = 50
	}
	if l.MessageMax <= 0 {
		l.MessageMax = 1000
	}
	if l.DiscordMax <= 0 {
		l.DiscordMax = 2000
	}
	if l.TelegramMax <= 0 {
		l.TelegramMax = 2000
	}
	if l.EmailContentMax <= 0 {
		// Not an SMTP limit, just a guardrail on rendered content.
		l.EmailContentMax = 2000
	}

	if c.Contact.DisposableDomains == nil {
		c.Contact.DisposableDomains = []string{
			"mailinator.com",
			"guerrillamail.com",
			"10minutemail.com",
			"tempmail.com",
		}
	}

	t := &c.Contact.Templates
	if t.Discord.Content == "" {
		t.Discord.Content = defaultDiscordTemplate
	}
	if t.Telegram.Text == "" {
		t.Telegram.Text = defaultTelegramTemplate
	}
	if t.Email.Subject == "" {
		t.Email.Subject = defaultEmailSubjectTemplate
	}
	if t.Email.Text == "" {
		t.Email.Text = defaultEmailTextTemplate
	}
	if t.Email.HTML == "" {
		t.Email.HTML = defaultEmailHTMLTemplate
	}
	if t.Email.AckSubject == "" {
		t.Email.AckSubject = defaultAckSubjectTemplate
	}
	if t.Email.AckText == "" {
		t.Email.AckText = defaultAckTextTemplate
	}
	if t.Email.AckHTML == "" {
		t.Email.AckHTML = defaultAckHTMLTemplate
	}

	if c.Resume.Source == "" {
		c.Resume.Source = "google"
	}
	if c.Resume.Filename == "" {
		c.Resume.Filename = "Resume.pdf"
	}
	if c.Resume.CacheSeconds <= 0 {
		c.Resume.CacheSeconds = 3600
	}
}

// DefaultSubject is the subject used when the form sends none and no subject
// options are configured.
func (c *Config) DefaultSubject() string {
	if len(c.Contact.SubjectOptions) > 0 {
		return c.Contact.SubjectOptions[0]
	}
	return "General message"
}

// DisposableDomainSet returns the denylist as a lowercase lookup set.
func (c *Config) DisposableDomainSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Contact.DisposableDomains))
	for _, d := range c.Contact.DisposableDomains {
		set[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}
	return set
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
