package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string
	// DbAutoMigrate включает прогон встроенных миграций при старте.
	DbAutoMigrate bool

	JWTSecret    string
	JWTExpiresIn string

	Log      string
	LogLevel string
	Env      string // dev|prod

	// Подписка
	PlanPrice            float64
	PlanDurationDays     int
	SubscriptionSweepTTL string

	// Файлы
	AvatarMaxFileBytes int64
	UploadMaxFileBytes int64
	StorageDir         string
	PublicBaseURL      string

	// Redis (пустой адрес = кэш выключен)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      string

	AuthRateLimit float64
	AuthRateBurst int
	// X-Forwarded-For учитывается только за доверенным прокси
	TrustProxy bool

	RecsBreakerFailures uint32
	RecsBreakerTimeout  string

	CORSOrigins []string
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует - чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	var errs []string
	num := func(key, d string) float64 {
		raw := def(os.Getenv(key), d)
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %q is not a number", key, raw))
			f, _ = strconv.ParseFloat(d, 64)
		}
		return f
	}

	cfg := &Config{
		Port:          def(os.Getenv("PORT"), "8080"),
		DbHost:        os.Getenv("DB_HOST"),
		DbPort:        def(os.Getenv("DB_PORT"), "5432"),
		DbUser:        os.Getenv("DB_USER"),
		DbPass:        os.Getenv("DB_PASSWORD"),
		DbName:        os.Getenv("DB_NAME"),
		DbSSLMode:     def(os.Getenv("DB_SSLMODE"), "disable"),
		DbAutoMigrate: strings.ToLower(def(os.Getenv("DB_AUTO_MIGRATE"), "true")) == "true",

		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTExpiresIn: def(os.Getenv("JWT_EXPIRES_IN"), "168h"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		PlanPrice:            num("SUBSCRIPTION_PRICE", "4.99"),
		PlanDurationDays:     int(num("SUBSCRIPTION_DURATION_DAYS", "30")),
		SubscriptionSweepTTL: def(os.Getenv("SUBSCRIPTION_SWEEP_INTERVAL"), "0"),

		AvatarMaxFileBytes: int64(num("AVATAR_MAX_FILE_BYTES", "3145728")),
		UploadMaxFileBytes: int64(num("UPLOAD_MAX_FILE_BYTES", "20971520")),
		StorageDir:         def(os.Getenv("STORAGE_DIR"), "uploaded"),
		PublicBaseURL:      strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       int(num("REDIS_DB", "0")),
		CacheTTL:      def(os.Getenv("CACHE_TTL"), "5m"),

		AuthRateLimit: num("AUTH_RATE_LIMIT", "5"),
		AuthRateBurst: int(num("AUTH_RATE_BURST", "10")),
		TrustProxy:    strings.EqualFold(os.Getenv("TRUST_PROXY"), "true"),

		RecsBreakerFailures: uint32(num("RECS_BREAKER_FAILURES", "3")),
		RecsBreakerTimeout:  def(os.Getenv("RECS_BREAKER_TIMEOUT"), "30s"),

		CORSOrigins: splitList(def(os.Getenv("CORS_ORIGINS"), "*")),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	// Критичные: БД
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
	}

	// Без секрета токены подделываются тривиально
	if strings.TrimSpace(c.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	if c.PlanPrice < 0 {
		return nil, fmt.Errorf("SUBSCRIPTION_PRICE must not be negative")
	}
	if c.PlanDurationDays <= 0 {
		return nil, fmt.Errorf("SUBSCRIPTION_DURATION_DAYS must be positive")
	}

	for name, raw := range map[string]string{
		"JWT_EXPIRES_IN":              c.JWTExpiresIn,
		"SUBSCRIPTION_SWEEP_INTERVAL": c.SubscriptionSweepTTL,
		"CACHE_TTL":                   c.CacheTTL,
		"RECS_BREAKER_TIMEOUT":        c.RecsBreakerTimeout,
	} {
		if _, perr := time.ParseDuration(raw); perr != nil {
			return nil, fmt.Errorf("%s: %w", name, perr)
		}
	}

	if c.RedisAddr == "" {
		warnings = append(warnings, "REDIS_ADDR is empty, cache disabled")
	}
	if c.PublicBaseURL == "" {
		warnings = append(warnings, "PUBLIC_BASE_URL is empty, file URLs will be relative")
	}

	// PORT
	if c.Port == "" {
		warnings = append(warnings, "PORT is empty, using default 8080")
	}

	return warnings, nil
}

// GetDSN - полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe - DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

func (c *Config) TokenTTL() time.Duration       { return mustDuration(c.JWTExpiresIn, 7*24*time.Hour) }

// SweepInterval - период фоновой пролонгации. По умолчанию 0: продление только при чтении.
func (c *Config) SweepInterval() time.Duration {
	if strings.TrimSpace(c.SubscriptionSweepTTL) == "0" {
		return 0
	}
	return mustDuration(c.SubscriptionSweepTTL, 0)
}

func (c *Config) CacheDuration() time.Duration  { return mustDuration(c.CacheTTL, 5*time.Minute) }
func (c *Config) BreakerTimeout() time.Duration { return mustDuration(c.RecsBreakerTimeout, 30*time.Second) }

// PlanDuration - длительность одного периода подписки в днях.
func (c *Config) PlanDuration() int { return c.PlanDurationDays }

func mustDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
