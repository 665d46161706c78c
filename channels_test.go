package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDiscordChannel_Send(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if ct := req.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		if err := json.NewDecoder(req.Body).Decode(&got); err != nil {
			t.Errorf("decode webhook body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ch := &discordChannel{webhookURL: srv.URL, client: srv.Client()}
	err := ch.Send(context.Background(), &Payload{DiscordContent: "rendered body"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["content"] != "rendered body" {
		t.Errorf("expected rendered content posted, got %v", got)
	}
}

func TestDiscordChannel_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "bad webhook", http.StatusNotFound)
	}))
	defer srv.Close()

	ch := &discordChannel{webhookURL: srv.URL, client: srv.Client()}
	if err := ch.Send(context.Background(), &Payload{}); err == nil {
		t.Error("non-2xx response must be an error")
	}
}

func TestTelegramChannel_Send(t *testing.T) {
	var got map[string]any
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path = req.URL.Path
		json.NewDecoder(req.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	ch := &telegramChannel{token: "TOKEN", chatID: "42", client: srv.Client(), apiBase: srv.URL}
	err := ch.Send(context.Background(), &Payload{TelegramText: "rendered text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/botTOKEN/sendMessage" {
		t.Errorf("unexpected path %q", path)
	}
	if got["chat_id"] != "42" || got["text"] != "rendered text" {
		t.Errorf("unexpected request body %v", got)
	}
	if got["disable_web_page_preview"] != true {
		t.Error("link previews must be disabled")
	}
}

func TestChannelSend_RespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ch := &discordChannel{webhookURL: srv.URL, client: srv.Client()}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := ch.Send(ctx, &Payload{}); err == nil {
		t.Error("expected timeout error")
	}
}

func TestBuildChannels_SkipsUnconfigured(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Env.DeliverTimeout = time.Second

	if got := buildChannels(cfg); len(got) != 0 {
		t.Errorf("expected no channels without credentials, got %d", len(got))
	}

	cfg.Env.DiscordWebhookURL = "https://discord.test/webhook"
	cfg.Env.TelegramBotToken = "tok"
	cfg.Env.TelegramChatID = "42"
	cfg.Env.ResendAPIKey = "re_123"
	cfg.Env.ContactToEmail = "me@example.com"
	cfg.Env.ContactFromEmail = "onboarding@resend.dev"

	got := buildChannels(cfg)
	if len(got) != 3 {
		t.Fatalf("expected 3 channels, got %d", len(got))
	}
	want := []string{"Discord", "Telegram", "Email"}
	for i, ch := range got {
		if ch.Name() != want[i] {
			t.Errorf("channel %d: expected %s, got %s", i, want[i], ch.Name())
		}
	}
}

func TestBuildChannels_TelegramNeedsBothTokenAndChat(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Env.DeliverTimeout = time.Second
	cfg.Env.TelegramBotToken = "tok"

	if got := buildChannels(cfg); len(got) != 0 {
		t.Errorf("token without chat id must not configure telegram, got %d channels", len(got))
	}
}
