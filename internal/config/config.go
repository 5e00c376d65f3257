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

	// Dual-format attempt ledger; JSONL is authoritative, CSV mirrors it.
	LedgerJSONLPath string
	LedgerCSVPath   string

	// AI grading collaborator (Gemini). With grading disabled or no key,
	// free-text items take their deterministic fallback paths.
	AIGradingEnabled bool
	GeminiAPIKey     string
	GeminiModel      string
	AITimeout        time.Duration

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
		Mode:     mode,
		HTTPAddr: addr,

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		LedgerJSONLPath: envOr("LEDGER_JSONL_PATH", "./data/attempts.jsonl"),
		LedgerCSVPath:   envOr("LEDGER_CSV_PATH", "./data/attempts.csv"),

		AIGradingEnabled: envBool("AI_GRADING_ENABLED", true),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      envOr("GEMINI_MODEL", "gemini-2.5-pro"),
		AITimeout:        time.Duration(envInt("AI_TIMEOUT_SEC", 20)) * time.Second,

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://classroom.example.edu"),
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

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return def
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
