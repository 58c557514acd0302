package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr    string `env:"LISTEN_ADDR" envDefault:":8080"`
	DBDriver      string `env:"DB_DRIVER" envDefault:"mysql"`
	DBHost        string `env:"DB_HOST" envDefault:"localhost"`
	DBPort        string `env:"DB_PORT" envDefault:"3306"`
	DBUser        string `env:"DB_USER" envDefault:"todorace"`
	DBPassword    string `env:"DB_PASSWORD" envDefault:"todorace"`
	DBName        string `env:"DB_NAME" envDefault:"todorace"`
	RedisHost     string `env:"REDIS_HOST"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"default-secret-key-change-me"`
	GinMode       string `env:"GIN_MODE" envDefault:"debug"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`

	Realtime RealtimeConfig
}

// RealtimeConfig controls the notification channel: websocket tickets and the
// reconnection policy used by the Redis subscriber and the Go client.
type RealtimeConfig struct {
	TicketSecret      string        `env:"REALTIME_TICKET_SECRET"`
	TicketTTL         time.Duration `env:"REALTIME_TICKET_TTL" envDefault:"60s"`
	Channel           string        `env:"REALTIME_CHANNEL" envDefault:"todorace:notifications"`
	ReconnectAttempts uint          `env:"REALTIME_RECONNECT_ATTEMPTS" envDefault:"5"`
	ReconnectDelay    time.Duration `env:"REALTIME_RECONNECT_DELAY" envDefault:"1s"`
	ReconnectMaxDelay time.Duration `env:"REALTIME_RECONNECT_MAX_DELAY" envDefault:"30s"`
}

// Load reads configuration from the environment, after merging a .env file
// when one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Realtime.TicketSecret == "" {
		cfg.Realtime.TicketSecret = cfg.SessionSecret
	}

	return &cfg, nil
}

// RedisAddr returns host:port, or an empty string when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}
