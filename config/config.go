package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server     ServerConfig
	JWT        JWTConfig
	Admin      AdminConfig
	Cloudinary CloudinaryConfig
	Retention  RetentionConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// AdminConfig guards the dev token issuer's admin role. KeyHash is a bcrypt
// hash of the shared admin key.
type AdminConfig struct {
	KeyHash string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type RetentionConfig struct {
	NotificationDays int
}

var AppConfig *Config

func Load() {
	AppConfig = &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-this-in-production"),
			ExpiryHours: getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		},
		Admin: AdminConfig{
			KeyHash: getEnv("ADMIN_KEY_HASH", ""),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},
		Retention: RetentionConfig{
			NotificationDays: getEnvAsInt("NOTIFICATION_RETENTION_DAYS", 30),
		},
	}
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
