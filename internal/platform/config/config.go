package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr        string
	Environment string
	DatabaseURL string
	Redis       RedisConfig
	Auth        AuthConfig
	Audit       AuditConfig
	Log         LogConfig

	// DefaultPolicyVersion is the current terms version until a release
	// publishes a policy change.
	DefaultPolicyVersion string

	// SeedGraphsFile optionally points at a YAML/JSON file of knowledge
	// graphs loaded at boot.
	SeedGraphsFile string
}

// RedisConfig configures the consent KV connection. Empty URL means in-memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuthConfig configures bearer token validation.
type AuthConfig struct {
	JWTSigningKey string
	JWTIssuer     string
}

// AuditConfig configures the outbox relay. No brokers disables the relay.
type AuditConfig struct {
	KafkaBrokers       []string
	Topic              string
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// IsDevelopment reports whether development defaults are acceptable.
func (s Server) IsDevelopment() bool {
	return s.Environment == "" || s.Environment == "development" || s.Environment == "local"
}

// DevJWTSigningKey is the fallback signing key. It is refused outside
// development.
const DevJWTSigningKey = "dev-secret-key-change-in-production"

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = DevJWTSigningKey
	}

	return Server{
		Addr:        getEnv("CLMS_ADDR", ":8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Auth: AuthConfig{
			JWTSigningKey: jwtSigningKey,
			JWTIssuer:     getEnv("JWT_ISSUER", "clms"),
		},
		Audit: AuditConfig{
			KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:              getEnv("AUDIT_TOPIC", "clms.audit"),
			OutboxPollInterval: getEnvDuration("OUTBOX_POLL_INTERVAL", time.Second),
			OutboxBatchSize:    getEnvInt("OUTBOX_BATCH_SIZE", 100),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		DefaultPolicyVersion: getEnv("DEFAULT_POLICY_VERSION", "v1.0.0"),
		SeedGraphsFile:       os.Getenv("SEED_GRAPHS_FILE"),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
