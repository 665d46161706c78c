package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/resend/resend-go/v2"
)

// Channel is one external delivery target for a contact submission. Send must
// respect ctx and return an error on any non-success outcome; the processor
// turns errors into warnings and never lets them abort other channels.
type Channel interface {
	Name() string
	Send(ctx context.Context, p *Payload) error
}

// buildChannels assembles the configured delivery channels in attempt order.
// A channel missing its credentials is simply absent.
func buildChannels(cfg *Config) []Channel {
	client := &http.Client{
		Timeout: cfg.Env.DeliverTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}

	var channels []Channel
	if cfg.Env.DiscordWebhookURL != "" {
		channels = append(channels, &discordChannel{
			webhookURL: cfg.Env.DiscordWebhookURL,
			client:     client,
		})
	}
	if cfg.Env.TelegramBotToken != "" && cfg.Env.TelegramChatID != "" {
		channels = append(channels, &telegramChannel{
			token:   cfg.Env.TelegramBotToken,
			chatID:  cfg.Env.TelegramChatID,
			client:  client,
			apiBase: "https://api.telegram.org",
		})
	}
	if cfg.Env.ResendAPIKey != "" && cfg.Env.ContactToEmail != "" {
		channels = append(channels, &emailChannel{
			client:     resend.NewClient(cfg.Env.ResendAPIKey),
			from:       cfg.Env.ContactFromEmail,
			to:         cfg.Env.ContactToEmail,
			ackTimeout: cfg.Env.DeliverTimeout,
		})
	}
	return channels
}

// discordChannel posts the rendered content to a Discord webhook.
type discordChannel struct {
	webhookURL string
	client     *http.Client
}

func (d *discordChannel) Name() string { return "Discord" }

func (d *discordChannel) Send(ctx context.Context, p *Payload) error {
	return postJSON(ctx, d.client, d.webhookURL, map[string]string{
		"content": p.DiscordContent,
	})
}

// telegramChannel sends the rendered text through the Telegram bot API.
type telegramChannel struct {
	token   string
	chatID  string
	client  *http.Client
	apiBase string
}

func (t *telegramChannel) Name() string { return "Telegram" }

func (t *telegramChannel) Send(ctx context.Context, p *Payload) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	return postJSON(ctx, t.client, url, map[string]any{
		"chat_id":                  t.chatID,
		"text":                     p.TelegramText,
		"disable_web_page_preview": true,
	})
}

func postJSON(ctx context.Context, client *http.Client, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// emailChannel delivers through Resend. When the submitter asked for a copy,
// a second acknowledgment send runs detached after the primary succeeds; its
// failure is logged and otherwise discarded.
type emailChannel struct {
	client     *resend.Client
	from       string
	to         string
	ackTimeout time.Duration
}

func (e *emailChannel) Name() string { return "Email" }

func (e *emailChannel) Send(ctx context.Context, p *Payload) error {
	_, err := e.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    e.from,
		To:      []string{e.to},
		ReplyTo: fmt.Sprintf("%s <%s>", p.Sub.Name, p.Sub.Email),
		Subject: p.EmailSubject,
		Text:    p.EmailText,
		Html:    p.EmailHTML,
	})
	if err != nil {
		return err
	}

	if p.Sub.SendCopy && emailRx.MatchString(p.Sub.Email) {
		go e.sendAck(p)
	}
	return nil
}

func (e *emailChannel) sendAck(p *Payload) {
	ctx, cancel := context.WithTimeout(context.Background(), e.ackTimeout)
	defer cancel()

	_, err := e.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    e.from,
		To:      []string{p.Sub.Email},
		Subject: p.AckSubject,
		Text:    p.AckText,
		Html:    p.AckHTML,
	})
	if err != nil {
		slog.Warn("acknowledgment email failed", "error", err)
	}
}
