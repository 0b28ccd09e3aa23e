package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	SMTP      SMTPConfig
	Storage   StorageConfig
	Mistral   MistralConfig
	Anwalt    AnwaltConfig
	Push      PushConfig
	OAuth     OAuthConfig
	RateLimit RateLimitConfig
	SSE       SSEConfig
	Otel      OtelConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	Version            string
	LogFilePath        string
	RealtimeLogPath    string
	CorsAllowedOrigins string
	FrontendURL        string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
	LogSQL     bool
}

type JWTConfig struct {
	Secret        string
	ExpireMinutes int
}

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	SenderName string
	FromEmail  string
}

type StorageConfig struct {
	Driver          string // "s3", "minio" or "memory"
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

type MistralConfig struct {
	APIKey      string
	BaseURL     string
	AgentModel  string
	VisionModel string
	OCRModel    string
	LibraryID   string
	// Pinned agent IDs. Empty values are resolved through the registry.
	Agents map[string]string
}

type AnwaltConfig struct {
	BaseURL string
	APIKey  string
}

type PushConfig struct {
	ExpoURL string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type RateLimitConfig struct {
	LoginPerMinute int
	ChatPerSecond  float64
	ChatBurst      int
}

type SSEConfig struct {
	PollInterval time.Duration
	Keepalive    time.Duration
}

type OtelConfig struct {
	Enabled  bool
	Endpoint string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("ENVIRONMENT", "development"),
			Version:            getEnv("APP_VERSION", "0.1.0"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			RealtimeLogPath:    getEnv("REALTIME_LOG_PATH", "logs/realtime.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			FrontendURL:        strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:8081"), "/"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Connection: getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=sumii_dev port=5432 sslmode=disable"),
			LogSQL:     getEnvAsBool("DB_LOG_SQL", false),
		},
		JWT: JWTConfig{
			Secret:        getEnv("SECRET_KEY", "development-secret-key"),
			ExpireMinutes: getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Username:   getEnv("SMTP_USERNAME", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Sumii"),
			FromEmail:  getEnv("SMTP_FROM_EMAIL", "noreply@sumii.de"),
		},
		Storage: StorageConfig{
			Driver:          getEnv("STORAGE_DRIVER", "s3"),
			Bucket:          getEnv("S3_BUCKET", "sumii-pdfs-dev"),
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			UseSSL:          getEnvAsBool("S3_USE_SSL", true),
		},
		Mistral: MistralConfig{
			APIKey:      getEnv("MISTRAL_API_KEY", ""),
			BaseURL:     getEnv("MISTRAL_BASE_URL", "https://api.mistral.ai"),
			AgentModel:  getEnv("MISTRAL_AGENT_MODEL", "mistral-medium-2505"),
			VisionModel: getEnv("MISTRAL_VISION_MODEL", "pixtral-large-latest"),
			OCRModel:    getEnv("MISTRAL_OCR_MODEL", "mistral-ocr-latest"),
			LibraryID:   getEnv("MISTRAL_LIBRARY_ID", ""),
			Agents: map[string]string{
				"router":    getEnv("MISTRAL_ROUTER_AGENT_ID", ""),
				"intake":    getEnv("MISTRAL_INTAKE_AGENT_ID", ""),
				"reasoning": getEnv("MISTRAL_REASONING_AGENT_ID", ""),
				"summary":   getEnv("MISTRAL_SUMMARY_AGENT_ID", ""),
			},
		},
		Anwalt: AnwaltConfig{
			BaseURL: strings.TrimRight(getEnv("ANWALT_API_BASE_URL", "http://localhost:8001"), "/"),
			APIKey:  getEnv("ANWALT_API_KEY", ""),
		},
		Push: PushConfig{
			ExpoURL: getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8000/api/v1/auth/google/callback"),
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute: getEnvAsInt("RATE_LIMIT_LOGIN_PER_MINUTE", 10),
			ChatPerSecond:  getEnvAsFloat("RATE_LIMIT_CHAT_PER_SECOND", 1),
			ChatBurst:      getEnvAsInt("RATE_LIMIT_CHAT_BURST", 5),
		},
		SSE: SSEConfig{
			PollInterval: getEnvAsDuration("SSE_POLL_INTERVAL", time.Second),
			Keepalive:    getEnvAsDuration("SSE_KEEPALIVE", 15*time.Second),
		},
		Otel: OtelConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
