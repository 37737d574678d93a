package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppHost  string
	HTTPPort string
	AppEnv   string
	LogLevel string

	// FormAccessToken — общий секрет из ссылки на форму. Пустое значение не мешает старту,
	// но каждый запрос получит 500 (сломанная конфигурация), а не 401.
	FormAccessToken string
	// WorkflowURL — webhook внешнего workflow, куда пересылается ответ оператора.
	WorkflowURL string

	StoreTimeout    time.Duration
	WorkflowTimeout time.Duration

	DebugTokenEndpoint bool

	KafkaBrokers    []string
	KafkaTopicReply string

	RedisURL         string
	ReplyDedupWindow time.Duration

	OTelEndpoint string
	OTelInsecure bool

	DB struct {
		Host        string
		Port        string
		User        string
		Password    string
		Database    string
		SSLMode     string
		AutoMigrate bool
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		AppHost:         getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort:        firstEnv("APP_PORT", "HTTP_PORT", "8097"),
		AppEnv:          getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		FormAccessToken: os.Getenv("FORM_ACCESS_TOKEN"),
		WorkflowURL:     firstEnv("WORKFLOW_WEBHOOK_URL", "N8N_WEBHOOK_URL", ""),
		KafkaTopicReply: getEnv("KAFKA_TOPIC_REPLY", "ticket.replies"),
		RedisURL:        getEnv("REDIS_URL", ""),
		OTelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		KafkaBrokers:    ParseList(getEnv("KAFKA_BROKERS", "")),
	}

	var err error
	if cfg.StoreTimeout, err = getDuration("STORE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.WorkflowTimeout, err = getDuration("WORKFLOW_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ReplyDedupWindow, err = getDuration("REPLY_DEDUP_WINDOW", 0); err != nil {
		return nil, err
	}
	if cfg.DebugTokenEndpoint, err = getBool("DEBUG_TOKEN_ENDPOINT", false); err != nil {
		return nil, err
	}
	if cfg.OTelInsecure, err = getBool("OTEL_EXPORTER_OTLP_INSECURE", false); err != nil {
		return nil, err
	}

	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.Database = getEnv("DB_DATABASE", "ticket_reply")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	if cfg.DB.AutoMigrate, err = getBool("DB_AUTO_MIGRATE", true); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DB.Host == "" || c.DB.Database == "" {
		return errors.New("config: DB_HOST and DB_DATABASE are required")
	}
	if c.IsProduction() && c.DB.Password == "" {
		return errors.New("config: in production DB_PASSWORD is required")
	}
	if c.WorkflowURL != "" {
		u, err := url.Parse(c.WorkflowURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config: WORKFLOW_WEBHOOK_URL must be an absolute http(s) url")
		}
	}
	if c.StoreTimeout <= 0 || c.WorkflowTimeout <= 0 {
		return errors.New("config: STORE_TIMEOUT and WORKFLOW_TIMEOUT must be positive")
	}
	if c.ReplyDedupWindow < 0 {
		return errors.New("config: REPLY_DEDUP_WINDOW must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DebugTokenEnabled reports whether the redacted secret diagnostic may be served.
func (c *Config) DebugTokenEnabled() bool {
	return c.DebugTokenEndpoint && !c.IsProduction()
}

// DedupEnabled reports whether submissions are guarded per ticket_id.
func (c *Config) DedupEnabled() bool {
	return c.RedisURL != "" && c.ReplyDedupWindow > 0
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) DatabaseURL() string {
	pass := url.QueryEscape(c.DB.Password)
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, pass, c.DB.Host, c.DB.Port, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

// ParseList разбивает строку "host1:9092,host2:9092" на слайс.
func ParseList(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	for _, k := range keysAndDef[:len(keysAndDef)-1] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}
