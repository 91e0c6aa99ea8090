package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// WebConfig holds everything the web frontend needs to run. The backend API
// base URL and the server port are required; the Stripe publishable key and
// Redis address are optional (checkout and shared session persistence degrade
// gracefully without them).
type WebConfig struct {
	ServerPort           string
	APIBaseURL           string
	StripePublishableKey string
	RedisAddr            string
	SessionDir           string
	LogLevel             string
	TemplatesGlob        string
	StaticDir            string
}

func LoadWebConfig() *WebConfig {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}
	return &WebConfig{
		ServerPort:           getEnv("SERVER_PORT"),
		APIBaseURL:           getEnv("API_BASE_URL"),
		StripePublishableKey: getEnvOr("STRIPE_PUBLISHABLE_KEY", ""),
		RedisAddr:            getEnvOr("REDIS_ADDR", ""),
		SessionDir:           getEnvOr("SESSION_DIR", "./.sessions"),
		LogLevel:             getEnvOr("LOG_LEVEL", "info"),
		TemplatesGlob:        getEnvOr("TEMPLATES_GLOB", "templates/html/*.html"),
		StaticDir:            getEnvOr("STATIC_DIR", "static"),
	}
}

// getEnv retrieves the value of the environment variable named by the key.
func getEnv(key string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	} else {
		panic("critical config missing: " + key)
	}
}

func getEnvOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	log.Printf("config: %s not set, using default", key)
	return fallback
}
