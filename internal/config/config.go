package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Redis      RedisConfig
	NATS       NATSConfig
	LLM        LLMConfig
	Embeddings EmbeddingsConfig
	Dialog     DialogConfig
	Session    SessionConfig
	Dedup      DedupConfig
	Migrations MigrationsConfig
	Log        LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	URL string
}

type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

type EmbeddingsConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	Dimensions int
	Timeout    time.Duration
}

// DialogConfig bounds one conversational turn.
type DialogConfig struct {
	HistoryWindow   int
	MaxModelCalls   int
	ToolTimeout     time.Duration
	StoreTimeout    time.Duration
	WelcomeCooldown time.Duration
	RulesPath       string
}

type SessionConfig struct {
	Backend string // "postgres" or "redis"
}

type DedupConfig struct {
	Backend string // "memory" or "redis"
	TTL     time.Duration
}

type MigrationsConfig struct {
	Path string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		DB: DBConfig{
			Host:     k.String("db.host"),
			Port:     k.Int("db.port"),
			User:     k.String("db.user"),
			Password: k.String("db.password"),
			Name:     k.String("db.name"),
			SSLMode:  k.String("db.sslmode"),
			MaxConns: int32(k.Int("db.max.conns")),
			MinConns: int32(k.Int("db.min.conns")),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		NATS: NATSConfig{
			URL: k.String("nats.url"),
		},
		LLM: LLMConfig{
			BaseURL:     k.String("llm.base.url"),
			APIKey:      k.String("llm.api.key"),
			Model:       k.String("llm.model"),
			Temperature: k.Float64("llm.temperature"),
		},
		Embeddings: EmbeddingsConfig{
			BaseURL:    k.String("embeddings.base.url"),
			APIKey:     k.String("embeddings.api.key"),
			Model:      k.String("embeddings.model"),
			Dimensions: k.Int("embeddings.dimensions"),
		},
		Dialog: DialogConfig{
			HistoryWindow: k.Int("dialog.history.window"),
			MaxModelCalls: k.Int("dialog.max.model.calls"),
			RulesPath:     k.String("dialog.rules.path"),
		},
		Session: SessionConfig{
			Backend: k.String("session.backend"),
		},
		Dedup: DedupConfig{
			Backend: k.String("dedup.backend"),
		},
		Migrations: MigrationsConfig{
			Path: k.String("migrations.path"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "lifeclover"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "lifeclover"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 25
	}
	if cfg.DB.MinConns == 0 {
		cfg.DB.MinConns = 2
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://localhost:4222"
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.Embeddings.BaseURL == "" {
		cfg.Embeddings.BaseURL = cfg.LLM.BaseURL
	}
	if cfg.Embeddings.APIKey == "" {
		cfg.Embeddings.APIKey = cfg.LLM.APIKey
	}
	if cfg.Embeddings.Model == "" {
		cfg.Embeddings.Model = "text-embedding-3-small"
	}
	if cfg.Embeddings.Dimensions == 0 {
		cfg.Embeddings.Dimensions = 1536
	}
	if cfg.Dialog.HistoryWindow == 0 {
		cfg.Dialog.HistoryWindow = 8
	}
	if cfg.Dialog.MaxModelCalls == 0 {
		cfg.Dialog.MaxModelCalls = 6
	}
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = "postgres"
	}
	if cfg.Dedup.Backend == "" {
		cfg.Dedup.Backend = "redis"
	}
	if cfg.Migrations.Path == "" {
		cfg.Migrations.Path = "migrations"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Parse durations
	cfg.LLM.Timeout, err = parseDuration(k.String("llm.timeout"), "60s", "llm timeout")
	if err != nil {
		return nil, err
	}
	cfg.Embeddings.Timeout, err = parseDuration(k.String("embeddings.timeout"), "30s", "embeddings timeout")
	if err != nil {
		return nil, err
	}
	cfg.Dialog.ToolTimeout, err = parseDuration(k.String("dialog.tool.timeout"), "15s", "dialog tool timeout")
	if err != nil {
		return nil, err
	}
	cfg.Dialog.StoreTimeout, err = parseDuration(k.String("dialog.store.timeout"), "5s", "dialog store timeout")
	if err != nil {
		return nil, err
	}
	cfg.Dialog.WelcomeCooldown, err = parseDuration(k.String("dialog.welcome.cooldown"), "30m", "welcome cooldown")
	if err != nil {
		return nil, err
	}
	cfg.Dedup.TTL, err = parseDuration(k.String("dedup.ttl"), "24h", "dedup ttl")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(raw, fallback, what string) (time.Duration, error) {
	if raw == "" {
		raw = fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", what, err)
	}
	return d, nil
}
