package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"log/slog"
	"os"
	"strings"
)

// setupLogging configures the global slog default with a JSON handler.
// Log level comes from LOG_LEVEL (DEBUG, INFO, WARN, ERROR), default INFO.
func setupLogging() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	})
	slog.SetDefault(slog.New(handler))
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var hashingSalt string

func initHashingSalt() {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate hashing salt:", err)
	}
	hashingSalt = hex.EncodeToString(bytes)
}

// hashIP hashes an IP address for privacy-conscious logging (consistent per
// IP within one process lifetime).
func hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}
