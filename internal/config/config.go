package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Cron      CronConfig      `mapstructure:"cron"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Discord   DiscordConfig   `mapstructure:"discord"`
	Feed      FeedConfig      `mapstructure:"feed"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
	// ClientIPHeader is the trusted proxy header carrying the original
	// client address; requests without it are bucketed under "unknown".
	ClientIPHeader string `mapstructure:"client_ip_header"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type AuthConfig struct {
	// IngestSecret is the shared HMAC secret for POST /api/signals.
	// Ingestion is rejected outright when it is unset.
	IngestSecret string `mapstructure:"ingest_secret"`
	// MaxSkew bounds how far the signed timestamp may drift from server
	// time. Zero disables the freshness check and restores the legacy
	// replayable behavior.
	MaxSkew time.Duration `mapstructure:"max_skew"`
}

type RateLimitConfig struct {
	DefaultPerMin int           `mapstructure:"default_per_min"`
	IngestPerMin  int           `mapstructure:"ingest_per_min"`
	Retention     time.Duration `mapstructure:"retention"`
}

type CronConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	CounterPrune string `mapstructure:"counter_prune"`
}

type AlertsConfig struct {
	// MinConfidence is the dispatch threshold; zero disables alerting.
	MinConfidence float64       `mapstructure:"min_confidence"`
	QueueSize     int           `mapstructure:"queue_size"`
	SendTimeout   time.Duration `mapstructure:"send_timeout"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

type DiscordConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

type FeedConfig struct {
	Buffer    int           `mapstructure:"buffer"`
	Heartbeat time.Duration `mapstructure:"heartbeat"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.client_ip_header", "cf-connecting-ip")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "signalboard.db")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("auth.ingest_secret", "")
	v.SetDefault("auth.max_skew", "5m")
	v.SetDefault("rate_limit.default_per_min", 60)
	v.SetDefault("rate_limit.ingest_per_min", 240)
	v.SetDefault("rate_limit.retention", "1h")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.counter_prune", "@every 5m")
	v.SetDefault("alerts.min_confidence", 0.0)
	v.SetDefault("alerts.queue_size", 256)
	v.SetDefault("alerts.send_timeout", "10s")
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.api_base", "https://api.telegram.org")
	v.SetDefault("discord.webhook_url", "")
	v.SetDefault("feed.buffer", 16)
	v.SetDefault("feed.heartbeat", "15s")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
