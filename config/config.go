package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Security   SecurityConfig
	Cloudinary CloudinaryConfig
	Reports    ReportsConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret           string
	ExpiryHours      int
	RefreshTokenDays int
}

type SecurityConfig struct {
	AllowedOrigins       []string
	RateLimitPerMinute   int
	RateLimitBurst       int
	ActivityLogRetention int // days
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Enabled reports whether uploads can be sent to Cloudinary.
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type ReportsConfig struct {
	S3Bucket  string
	AWSRegion string
}

var AppConfig *Config

func Load() {
	AppConfig = &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DB_URL", ""),
		},
		JWT: JWTConfig{
			Secret:           getEnv("JWT_SECRET", "change-this-volunteer-match-secret"),
			ExpiryHours:      getEnvAsInt("JWT_EXPIRY_HOURS", 24),
			RefreshTokenDays: getEnvAsInt("REFRESH_TOKEN_DAYS", 7),
		},
		Security: SecurityConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost:5173",
			}),
			RateLimitPerMinute:   getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			RateLimitBurst:       getEnvAsInt("RATE_LIMIT_BURST", 20),
			ActivityLogRetention: getEnvAsInt("ACTIVITY_LOG_RETENTION_DAYS", 90),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},
		Reports: ReportsConfig{
			S3Bucket:  getEnv("REPORTS_S3_BUCKET", ""),
			AWSRegion: getEnv("AWS_REGION", "eu-central-1"),
		},
	}
}

// Get returns the loaded configuration, loading it from the environment on first use.
func Get() *Config {
	if AppConfig == nil {
		Load()
	}
	return AppConfig
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
