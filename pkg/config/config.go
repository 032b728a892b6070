package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT
	JWTSecret string

	// AWS S3
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSEndpoint        string
	S3UseSSL           string
	S3BucketName       string

	// RabbitMQ
	RabbitMQHost     string
	RabbitMQPort     string
	RabbitMQUser     string
	RabbitMQPassword string

	// Platform API base URLs (overridable for sandbox environments)
	FacebookAPIURL string
	LinkedInAPIURL string
	XAPIURL        string
	YouTubeAPIURL  string

	// Quota plans: successful posts allowed per cycle
	PlanStarterQuota      int
	PlanGrowthQuota       int
	PlanProfessionalQuota int
	QuotaCycleDays        int

	// Background enforcer
	EnforcerInterval    time.Duration
	EnforcerBatchSize   int
	EnforcerWorkers     int
	EnforcerMaxAttempts int
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	config := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "agencypulse"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       0,

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpoint:        getEnv("AWS_ENDPOINT", ""),
		S3UseSSL:           getEnv("S3_USE_SSL", "true"),
		S3BucketName:       getEnv("S3_BUCKET_NAME", "agency-pulse-media"),

		RabbitMQHost:     getEnv("RABBITMQ_HOST", "localhost"),
		RabbitMQPort:     getEnv("RABBITMQ_PORT", "5672"),
		RabbitMQUser:     getEnv("RABBITMQ_USER", "guest"),
		RabbitMQPassword: getEnv("RABBITMQ_PASSWORD", "guest"),

		FacebookAPIURL: getEnv("FACEBOOK_API_URL", "https://graph.facebook.com/v19.0"),
		LinkedInAPIURL: getEnv("LINKEDIN_API_URL", "https://api.linkedin.com"),
		XAPIURL:        getEnv("X_API_URL", "https://api.twitter.com"),
		YouTubeAPIURL:  getEnv("YOUTUBE_API_URL", "https://www.googleapis.com/youtube/v3"),

		PlanStarterQuota:      getEnvInt("PLAN_STARTER_QUOTA", 12),
		PlanGrowthQuota:       getEnvInt("PLAN_GROWTH_QUOTA", 27),
		PlanProfessionalQuota: getEnvInt("PLAN_PROFESSIONAL_QUOTA", 52),
		QuotaCycleDays:        getEnvInt("QUOTA_CYCLE_DAYS", 30),

		EnforcerInterval:    getEnvDuration("ENFORCER_INTERVAL", 30*time.Second),
		EnforcerBatchSize:   getEnvInt("ENFORCER_BATCH_SIZE", 20),
		EnforcerWorkers:     getEnvInt("ENFORCER_WORKERS", 5),
		EnforcerMaxAttempts: getEnvInt("ENFORCER_MAX_ATTEMPTS", 5),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
