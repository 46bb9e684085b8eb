package main

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the server settings loaded from the environment.
type Config struct {
	Addr           string
	DBPath         string
	AllowedOrigins []string
	MaxMessageSize int64
}

func defaultConfig() Config {
	return Config{
		Addr:           ":8080",
		DBPath:         "chatws.db",
		AllowedOrigins: []string{"*"},
		MaxMessageSize: 4096,
	}
}

// LoadConfig reads settings from environment variables, falling back to
// defaults on missing or unparseable values.
func LoadConfig() Config {
	cfg := defaultConfig()

	if port := os.Getenv("SERVER_PORT"); port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Addr = port
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		cfg.DBPath = path
	}
	if origins := parseOrigins(os.Getenv("ALLOWED_ORIGINS")); len(origins) > 0 {
		cfg.AllowedOrigins = origins
	}
	if raw := os.Getenv("MAX_MESSAGE_SIZE"); raw != "" {
		if size, err := strconv.ParseInt(raw, 10, 64); err == nil && size > 0 {
			cfg.MaxMessageSize = size
		}
	}

	return cfg
}

func parseOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
