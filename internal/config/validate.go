package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1–65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1–65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1–65535, got %d", c.Redis.Port))
	}

	if !strings.HasPrefix(c.NATS.URL, "nats://") && !strings.HasPrefix(c.NATS.URL, "tls://") {
		errs = append(errs, "NATS_URL must start with nats:// or tls://")
	}

	// LLM
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Sprintf("LLM_TEMPERATURE must be 0–2, got %g", c.LLM.Temperature))
	}
	if c.Embeddings.Dimensions < 1 {
		errs = append(errs, fmt.Sprintf("EMBEDDINGS_DIMENSIONS must be positive, got %d", c.Embeddings.Dimensions))
	}

	// Dialog bounds
	if c.Dialog.HistoryWindow < 1 {
		errs = append(errs, fmt.Sprintf("DIALOG_HISTORY_WINDOW must be positive, got %d", c.Dialog.HistoryWindow))
	}
	if c.Dialog.MaxModelCalls < 1 {
		errs = append(errs, fmt.Sprintf("DIALOG_MAX_MODEL_CALLS must be positive, got %d", c.Dialog.MaxModelCalls))
	}
	if c.Dialog.ToolTimeout <= 0 {
		errs = append(errs, "DIALOG_TOOL_TIMEOUT must be positive")
	}
	if c.Dialog.StoreTimeout <= 0 {
		errs = append(errs, "DIALOG_STORE_TIMEOUT must be positive")
	}
	if c.Dialog.WelcomeCooldown < 0 {
		errs = append(errs, "DIALOG_WELCOME_COOLDOWN must not be negative")
	}

	// Backends
	switch c.Session.Backend {
	case "postgres", "redis":
	default:
		errs = append(errs, fmt.Sprintf("SESSION_BACKEND must be postgres or redis, got %q", c.Session.Backend))
	}
	switch c.Dedup.Backend {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Sprintf("DEDUP_BACKEND must be memory or redis, got %q", c.Dedup.Backend))
	}
	if c.Dedup.TTL <= 0 {
		errs = append(errs, "DEDUP_TTL must be positive")
	}

	// Logging
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be text or json, got %q", c.Log.Format))
	}

	// API key: warn only so local stub backends stay usable
	if c.LLM.APIKey == "" {
		slog.Warn("LLM_API_KEY is empty — model requests will be unauthenticated")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
