package config

import (
	"os"
	"time"
)

type Config struct {
	Addr       string
	DataDir    string
	Password   string
	SessionTTL time.Duration
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load(flagAddr, flagDataDir string) Config {
	ttl := 24 * time.Hour
	if v := os.Getenv("VISIONBOARD_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		}
	}
	return Config{
		Addr:       getEnv("VISIONBOARD_ADDR", flagAddr),
		DataDir:    getEnv("VISIONBOARD_DATA_DIR", flagDataDir),
		Password:   getEnv("VISIONBOARD_PASSWORD", "visionboard"),
		SessionTTL: ttl,
	}
}
