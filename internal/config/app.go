package config

import (
	"fmt"
	"time"
)

// Config holds every runtime setting. It is built once in main and handed to
// constructors; nothing in the module reads the environment after Load.
type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	WhatsApp  WhatsAppConfig
	RabbitMQ  RabbitMQConfig
	Log       LogConfig
	Recaptcha RecaptchaConfig
	BasicAuth BasicAuthConfig
}

type AppConfig struct {
	Host          string
	Port          string
	Timezone      string
	PublicBaseURL string
	TempLinkTTL   time.Duration
}

type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
	MaxConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret         string
	StaffTTL       time.Duration
	VisitorFormTTL time.Duration
}

type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
	Prefix  string
}

type WhatsAppConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
	Queue    string
}

type LogConfig struct {
	Level  string
	Format string
}

type RecaptchaConfig struct {
	SecretKey string
	MinScore  float64
}

type BasicAuthConfig struct {
	User     string
	Password string
}

// Load reads the environment (after LoadEnv) into a Config.
func Load() Config {
	return Config{
		App: AppConfig{
			Host:          GetEnv("APP_HOST", ""),
			Port:          GetEnv("APP_PORT", "8080"),
			Timezone:      GetEnv("APP_TIMEZONE", "Asia/Jakarta"),
			PublicBaseURL: GetEnv("APP_PUBLIC_URL", "http://localhost:3000"),
			TempLinkTTL:   GetEnvDuration("TEMP_LINK_TTL", 15*time.Minute),
		},
		DB: DBConfig{
			User:     GetEnv("DB_USER", "root"),
			Password: GetEnv("DB_PASSWORD", ""),
			Host:     GetEnv("DB_HOST", "127.0.0.1"),
			Port:     GetEnv("DB_PORT", "3306"),
			Name:     GetEnv("DB_NAME", "antrian_pst"),
			MaxConns: GetEnvInt("DB_MAX_CONNS", 25),
		},
		Redis: RedisConfig{
			Addr:     GetEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:         GetEnv("JWT_SECRET", ""),
			StaffTTL:       GetEnvDuration("JWT_STAFF_TTL", 24*time.Hour),
			VisitorFormTTL: GetEnvDuration("JWT_VISITOR_FORM_TTL", 30*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Enabled: GetEnvBool("RATE_LIMIT_ENABLED", true),
			Limit:   GetEnvInt("RATE_LIMIT_LIMIT", 10),
			Window:  GetEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
			Prefix:  GetEnv("RATE_LIMIT_PREFIX", "rl"),
		},
		WhatsApp: WhatsAppConfig{
			BaseURL: GetEnv("WHATSAPP_BASE_URL", "https://api.fonnte.com"),
			Token:   GetEnv("WHATSAPP_TOKEN", ""),
			Timeout: GetEnvDuration("WHATSAPP_TIMEOUT", 10*time.Second),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      GetEnv("RABBITMQ_URL", ""),
			Exchange: GetEnv("RABBITMQ_EXCHANGE", "antrian.events"),
			Queue:    GetEnv("RABBITMQ_QUEUE", "antrian.notifications"),
		},
		Log: LogConfig{
			Level:  GetEnv("LOG_LEVEL", "info"),
			Format: GetEnv("LOG_FORMAT", "json"),
		},
		Recaptcha: RecaptchaConfig{
			SecretKey: GetEnv("RECAPTCHA_SECRET_KEY", ""),
			MinScore:  0.5,
		},
		BasicAuth: BasicAuthConfig{
			User:     GetEnv("BASIC_AUTH_USER", ""),
			Password: GetEnv("BASIC_AUTH_PASS", ""),
		},
	}
}

func (c Config) ListenAddr() string {
	return c.App.Host + ":" + c.App.Port
}

func (c Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET wajib diisi")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Limit < 1 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit tidak valid: limit=%d window=%s", c.RateLimit.Limit, c.RateLimit.Window)
	}
	return nil
}
