package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Municode   MunicodeConfig
	Cablecast  CablecastConfig
	Assembly   AssemblyAIConfig
	OpenRouter OpenRouterConfig
	Resend     ResendConfig
	Admin      AdminConfig
	Pipeline   PipelineConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	PublicBaseURL   string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// StorageConfig holds transcript object storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// MunicodeConfig holds the meeting calendar source configuration
type MunicodeConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// CablecastConfig holds the video catalog configuration
type CablecastConfig struct {
	BaseURL     string
	SearchQuery string
	PageSize    int
	Timeout     time.Duration
}

// AssemblyAIConfig holds speech-to-text provider configuration
type AssemblyAIConfig struct {
	APIKey string
}

// OpenRouterConfig holds LLM provider configuration
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Referer string
	Title   string
}

// ResendConfig holds the email provider configuration
type ResendConfig struct {
	APIKey    string
	BaseURL   string
	FromEmail string
}

// AdminConfig holds admin API authentication configuration
type AdminConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
}

// PipelineConfig holds orchestrator tuning
type PipelineConfig struct {
	ClaimLease         time.Duration
	MinTranscriptChars int
	MaxTranscriptChars int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "cicero"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "cicero-transcripts"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
		Municode: MunicodeConfig{
			BaseURL:   getEnv("MUNICODE_BASE_URL", "https://fortcollins-co.municodemeetings.com"),
			UserAgent: getEnv("MUNICODE_USER_AGENT", "Mozilla/5.0 (compatible; Cicero/1.0)"),
			Timeout:   getEnvAsDuration("MUNICODE_TIMEOUT", "30s"),
		},
		Cablecast: CablecastConfig{
			BaseURL:     getEnv("CABLECAST_BASE_URL", "https://reflect-vod-fcgov.cablecast.tv/cablecastapi/v1"),
			SearchQuery: getEnv("CABLECAST_SEARCH_QUERY", "city council"),
			PageSize:    getEnvAsInt("CABLECAST_PAGE_SIZE", 50),
			Timeout:     getEnvAsDuration("CABLECAST_TIMEOUT", "30s"),
		},
		Assembly: AssemblyAIConfig{
			APIKey: getEnv("ASSEMBLYAI_API_KEY", ""),
		},
		OpenRouter: OpenRouterConfig{
			APIKey:  getEnv("OPENROUTER_API_KEY", ""),
			BaseURL: getEnv("OPENROUTER_API_URL", "https://openrouter.ai/api/v1"),
			Model:   getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
			Referer: getEnv("OPENROUTER_REFERER", "https://cicero.app"),
			Title:   getEnv("OPENROUTER_TITLE", "Cicero Council Summaries"),
		},
		Resend: ResendConfig{
			APIKey:    getEnv("RESEND_API_KEY", ""),
			BaseURL:   getEnv("RESEND_API_URL", "https://api.resend.com"),
			FromEmail: getEnv("RESEND_FROM_EMAIL", "Cicero <notifications@resend.dev>"),
		},
		Admin: AdminConfig{
			JWTSecret:   getEnv("ADMIN_JWT_SECRET", "change-me-in-production"),
			TokenExpiry: getEnvAsDuration("ADMIN_TOKEN_EXPIRY", "24h"),
		},
		Pipeline: PipelineConfig{
			ClaimLease:         getEnvAsDuration("PIPELINE_CLAIM_LEASE", "30m"),
			MinTranscriptChars: getEnvAsInt("PIPELINE_MIN_TRANSCRIPT_CHARS", 100),
			MaxTranscriptChars: getEnvAsInt("PIPELINE_MAX_TRANSCRIPT_CHARS", 100000),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Environment == "production" {
		if c.Assembly.APIKey == "" {
			return fmt.Errorf("ASSEMBLYAI_API_KEY is required")
		}
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is required")
		}
		if c.Admin.JWTSecret == "change-me-in-production" {
			return fmt.Errorf("ADMIN_JWT_SECRET must be set in production")
		}
	}
	if c.Pipeline.MinTranscriptChars <= 0 {
		return fmt.Errorf("PIPELINE_MIN_TRANSCRIPT_CHARS must be positive")
	}
	if c.Pipeline.MaxTranscriptChars < c.Pipeline.MinTranscriptChars {
		return fmt.Errorf("PIPELINE_MAX_TRANSCRIPT_CHARS must be >= PIPELINE_MIN_TRANSCRIPT_CHARS")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
