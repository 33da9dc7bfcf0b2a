package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	SQLite     SQLiteConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	Escalation EscalationConfig
	Gemini     GeminiConfig
	Retrieval  RetrievalConfig
	SMTP       SMTPConfig
	Kafka      KafkaConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values. An empty DSN selects SQLite.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// SQLiteConfig configures the embedded ticket store.
type SQLiteConfig struct {
	Path string
}

// RedisConfig holds Redis connection values. An empty Addr disables the retrieval cache.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	CacheTTLMin int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines staff authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	StaffEmail            string
	StaffPasswordHash     string
}

// EscalationConfig holds the thresholds shared read-only by every session.
type EscalationConfig struct {
	NegativeThreshold float64 `yaml:"negative_threshold"`
	EscalationCount   int     `yaml:"escalation_count"`
	MemoryWindowSize  int     `yaml:"memory_window_size"`
	RetrievalTopK     int     `yaml:"retrieval_top_k"`
}

// GeminiConfig configures the generation, summarization and embedding models.
type GeminiConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	TimeoutSeconds int
}

// RetrievalConfig points at the vector index used for knowledge-base lookups.
type RetrievalConfig struct {
	IndexHost string
	APIKey    string
	Namespace string
	Dimension int
}

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	From           string
	SupportEmail   string
	TimeoutSeconds int
}

// KafkaConfig configures optional ticket event streaming.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Load reads configuration from environment variables, applying defaults where possible.
// When CONFIG_FILE names a YAML file, its escalation section overrides the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "support-chat-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 60),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "data/tickets.db"),
		},
		Redis: RedisConfig{
			Addr:        os.Getenv("REDIS_ADDR"),
			Password:    os.Getenv("REDIS_PASSWORD"),
			DB:          redisDB,
			CacheTTLMin: getEnvAsInt("REDIS_CACHE_TTL_MINUTES", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			StaffEmail:            os.Getenv("STAFF_EMAIL"),
			StaffPasswordHash:     os.Getenv("STAFF_PASSWORD_HASH"),
		},
		Escalation: EscalationConfig{
			NegativeThreshold: getEnvAsFloat("NEGATIVE_THRESHOLD", 0.6),
			EscalationCount:   getEnvAsInt("ESCALATION_COUNT", 2),
			MemoryWindowSize:  getEnvAsInt("MEMORY_WINDOW_SIZE", 10),
			RetrievalTopK:     getEnvAsInt("RAG_TOP_K", 3),
		},
		Gemini: GeminiConfig{
			APIKey:         os.Getenv("GOOGLE_API_KEY"),
			Model:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
			TimeoutSeconds: getEnvAsInt("GEMINI_TIMEOUT_SECONDS", 20),
		},
		Retrieval: RetrievalConfig{
			IndexHost: os.Getenv("PINECONE_INDEX_HOST"),
			APIKey:    os.Getenv("PINECONE_API_KEY"),
			Namespace: os.Getenv("PINECONE_NAMESPACE"),
			Dimension: getEnvAsInt("PINECONE_DIMENSION", 384),
		},
		SMTP: SMTPConfig{
			Host:           getEnv("SMTP_SERVER", "smtp.gmail.com"),
			Port:           getEnvAsInt("SMTP_PORT", 587),
			Username:       os.Getenv("GMAIL_EMAIL"),
			Password:       os.Getenv("GMAIL_APP_PASSWORD"),
			From:           os.Getenv("GMAIL_EMAIL"),
			SupportEmail:   os.Getenv("SUPPORT_EMAIL"),
			TimeoutSeconds: getEnvAsInt("SMTP_TIMEOUT_SECONDS", 10),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TICKET_TOPIC", "support-ticket-events"),
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Escalation.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type fileOverlay struct {
	Escalation *EscalationConfig `yaml:"escalation"`
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	overlay := fileOverlay{Escalation: &cfg.Escalation}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects thresholds that would make the policy meaningless.
func (e EscalationConfig) Validate() error {
	if e.NegativeThreshold < 0 || e.NegativeThreshold > 1 {
		return fmt.Errorf("negative threshold must be within [0,1], got %v", e.NegativeThreshold)
	}
	if e.EscalationCount < 1 {
		return fmt.Errorf("escalation count must be positive, got %d", e.EscalationCount)
	}
	if e.MemoryWindowSize < 1 {
		return fmt.Errorf("memory window size must be positive, got %d", e.MemoryWindowSize)
	}
	return nil
}

// DefaultEscalation returns the stock thresholds.
func DefaultEscalation() EscalationConfig {
	return EscalationConfig{
		NegativeThreshold: 0.6,
		EscalationCount:   2,
		MemoryWindowSize:  10,
		RetrievalTopK:     3,
	}
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

// Timeout bounds a single model call.
func (g GeminiConfig) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long retrieval results stay cached.
func (r RedisConfig) CacheTTL() time.Duration {
	return time.Duration(r.CacheTTLMin) * time.Minute
}

// Timeout bounds one SMTP exchange, from dial to QUIT.
func (s SMTPConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Addr returns host:port for the SMTP relay.
func (s SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
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

func splitList(val string) []string {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
