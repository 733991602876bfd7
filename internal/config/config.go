package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string
	GinMode    string

	JWTSecret            string
	JWTExpirationSeconds int
}

func Load() *Config {
	// .env is optional; real environments set variables directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env file")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "taskuser"),
		DBPassword: getEnv("DB_PASSWORD", "taskpassword"),
		DBName:     getEnv("DB_NAME", "taskdb"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		ServerPort: getEnv("PORT", "8080"),
		GinMode:    getEnv("GIN_MODE", "debug"),

		JWTSecret:            getEnv("JWT_SECRET_KEY", "jwt-secret-key-change-in-production"),
		JWTExpirationSeconds: getEnvInt("JWT_ACCESS_TOKEN_EXPIRES", 3600),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return parsed
}
