package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// quizzes can also be served from a YAML fixture file in offline mode
	FixturePath string

	SessionStore string // memory|redis
	RedisAddr    string
	SessionTTL   time.Duration

	AuthSecret string

	// cap on rule-driven traversal length; 0 disables
	MaxSteps int

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           addr,
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		FixturePath:        os.Getenv("QUIZ_FIXTURE_PATH"),
		SessionStore:       envOr("SESSION_STORE", "memory"),
		RedisAddr:          envOr("REDIS_ADDR", "localhost:6379"),
		SessionTTL:         envDuration("SESSION_TTL", 30*time.Minute),
		AuthSecret:         envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		MaxSteps:           envInt("NAV_MAX_STEPS", 100),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://quiz.example.com"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
