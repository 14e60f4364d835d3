package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            int
	LogLevel        string
	DatabaseURL     string
	NatsURL         string
	NatsToken       string
	AnthropicAPIKey string
	AgentModel      string
	AnalyticsModel  string
	MaxTurns        int
	TypingDelayMS   int
}

func Load() Config {
	return Config{
		Port:            envInt("CALLSIM_PORT", 8760),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		NatsURL:         envStr("NATS_URL", ""),
		NatsToken:       envStr("NATS_TOKEN", ""),
		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		AgentModel:      envStr("CALLSIM_AGENT_MODEL", "claude-haiku-4-5-20251001"),
		AnalyticsModel:  envStr("CALLSIM_ANALYTICS_MODEL", "claude-haiku-4-5-20251001"),
		MaxTurns:        envInt("CALLSIM_MAX_TURNS", 14),
		TypingDelayMS:   envInt("CALLSIM_TYPING_DELAY_MS", 1000),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
