package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Decided-report policies accepted by MODERATION_DECIDED_POLICY.
const (
	DecidedPolicyRevert = "revert"
	DecidedPolicyStrict = "strict"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Sentry       SentryConfig
	Geocode      GeocodeConfig
	Moderation   ModerationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSAllowOrigins      string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr               string
	Password           string
	DB                 int
	ReportTypeCacheTTL int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret         string
	SessionTTLMinutes int
	GatewayKeyHash    string
	AdminCanModerate  bool
}

// NotificationConfig controls where moderation events are published.
type NotificationConfig struct {
	KafkaBrokers  []string
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string
	KafkaTLS      bool
}

// SentryConfig enables error tracking when DSN is set.
type SentryConfig struct {
	DSN              string
	TracesSampleRate float64
}

// GeocodeConfig configures reverse geocoding of report coordinates.
type GeocodeConfig struct {
	Enabled        bool
	BaseURL        string
	UserAgent      string
	TimeoutSeconds int
	CacheTTLHours  int
}

// ModerationConfig selects how already decided reports react to approve/reject.
type ModerationConfig struct {
	DecidedPolicy string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	policy := strings.ToLower(getEnv("MODERATION_DECIDED_POLICY", DecidedPolicyRevert))
	if policy != DecidedPolicyRevert && policy != DecidedPolicyStrict {
		return nil, fmt.Errorf("invalid MODERATION_DECIDED_POLICY %q: want %q or %q", policy, DecidedPolicyRevert, DecidedPolicyStrict)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "roadwatch-hazard-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSAllowOrigins:      getEnv("HTTP_CORS_ALLOW_ORIGINS", "*"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:               getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:           os.Getenv("REDIS_PASSWORD"),
			DB:                 redisDB,
			ReportTypeCacheTTL: getEnvAsInt("REDIS_REPORT_TYPE_CACHE_TTL_SECONDS", 300),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("AUTH_JWT_SECRET", "dev-secret"),
			SessionTTLMinutes: getEnvAsInt("AUTH_SESSION_TTL_MINUTES", 30*24*60),
			GatewayKeyHash:    os.Getenv("AUTH_GATEWAY_KEY_HASH"),
			AdminCanModerate:  getEnvAsBool("AUTH_ADMIN_CAN_MODERATE", false),
		},
		Notification: NotificationConfig{
			KafkaBrokers:  getEnvAsList("KAFKA_BROKERS"),
			KafkaTopic:    getEnv("KAFKA_TOPIC", "report-moderation"),
			KafkaUsername: os.Getenv("KAFKA_USERNAME"),
			KafkaPassword: os.Getenv("KAFKA_PASSWORD"),
			KafkaTLS:      getEnvAsBool("KAFKA_TLS", false),
		},
		Sentry: SentryConfig{
			DSN:              os.Getenv("SENTRY_DSN"),
			TracesSampleRate: getEnvAsFloat("SENTRY_TRACES_SAMPLE_RATE", 0.2),
		},
		Geocode: GeocodeConfig{
			Enabled:        getEnvAsBool("GEOCODE_ENABLED", true),
			BaseURL:        getEnv("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent:      getEnv("GEOCODE_USER_AGENT", "roadwatch-hazard-service"),
			TimeoutSeconds: getEnvAsInt("GEOCODE_TIMEOUT_SECONDS", 3),
			CacheTTLHours:  getEnvAsInt("GEOCODE_CACHE_TTL_HOURS", 24),
		},
		Moderation: ModerationConfig{
			DecidedPolicy: policy,
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ReportTypeTTL returns how long report types stay cached.
func (r RedisConfig) ReportTypeTTL() time.Duration {
	if r.ReportTypeCacheTTL <= 0 {
		return 0
	}
	return time.Duration(r.ReportTypeCacheTTL) * time.Second
}

// Timeout returns the reverse geocoding request timeout.
func (g GeocodeConfig) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long resolved addresses stay cached.
func (g GeocodeConfig) CacheTTL() time.Duration {
	return time.Duration(g.CacheTTLHours) * time.Hour
}

// KafkaEnabled reports whether events should be published to Kafka.
func (n NotificationConfig) KafkaEnabled() bool {
	return len(n.KafkaBrokers) > 0 && n.KafkaTopic != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
