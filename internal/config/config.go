package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the main application configuration
type Config struct {
	ServerPort    int             `json:"server_port"`
	CatalogPath   string          `json:"catalog_path"`
	FirstQuestion string          `json:"first_question"`
	Embedding     EmbeddingConfig `json:"embedding"`
	Events        EventsConfig    `json:"events"`
	Store         StoreConfig     `json:"store"`
	Auth          AuthConfig      `json:"auth"`
}

// EmbeddingConfig holds the credentials and limits for the embedding service
type EmbeddingConfig struct {
	APIKey    string `json:"api_key"`
	Endpoint  string `json:"endpoint"`
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
}

// EventsConfig configures the Kafka event producer
type EventsConfig struct {
	Enable  bool     `json:"enable"`
	Brokers []string `json:"brokers"`
	Topic   string   `json:"topic"`
}

// StoreConfig configures the persistent response archive
type StoreConfig struct {
	Enable     bool   `json:"enable"`
	Path       string `json:"path"`
	Collection string `json:"collection"`
}

// AuthConfig configures API authentication
type AuthConfig struct {
	Enable     bool   `json:"enable"`
	JWTSecret  string `json:"jwt_secret"`
	SessionKey string `json:"session_key"`
}

// LoadDotEnv loads a .env file into the process environment if one exists.
// A missing file is not an error.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		ServerPort:    getEnvInt("SERVER_PORT", 8080),
		CatalogPath:   getEnv("KNOWLEDGE_BASE_PATH", ""),
		FirstQuestion: getEnv("FIRST_QUESTION", "What is the compliance protocol you follow?"),
		Embedding: EmbeddingConfig{
			APIKey:    getEnv("EMBEDDING_API_KEY", ""),
			Endpoint:  getEnv("EMBEDDING_ENDPOINT", "https://embeddings.knirv.com"),
			Model:     getEnv("EMBEDDING_MODEL", "all-MiniLM-L6-v2"),
			MaxTokens: getEnvInt("EMBEDDING_MAX_TOKENS", 512),
		},
		Events: EventsConfig{
			Enable:  getEnvBool("KAFKA_ENABLE", false),
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "secsentry-events"),
		},
		Store: StoreConfig{
			Enable:     getEnvBool("STORE_ENABLE", true),
			Path:       getEnv("STORE_PATH", ""),
			Collection: getEnv("STORE_COLLECTION", "secsentry_responses"),
		},
		Auth: AuthConfig{
			Enable:     getEnvBool("AUTH_ENABLE", false),
			JWTSecret:  getEnv("JWT_SECRET", ""),
			SessionKey: getEnv("SESSION_KEY", ""),
		},
	}
}

// Validate reports the first configuration problem that would prevent the
// service from running.
func (c *Config) Validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("server_port must be between 1 and 65535, got %d", c.ServerPort)
	}

	if c.Embedding.Endpoint == "" {
		return fmt.Errorf("embedding endpoint is required")
	}

	if c.Embedding.MaxTokens <= 0 {
		return fmt.Errorf("embedding max_tokens must be positive, got %d", c.Embedding.MaxTokens)
	}

	if c.FirstQuestion == "" {
		return fmt.Errorf("first_question cannot be empty")
	}

	if c.Events.Enable && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("kafka is enabled but no brokers are configured")
	}

	if c.Auth.Enable {
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth is enabled but JWT_SECRET is not set")
		}
		if c.Auth.SessionKey == "" {
			return fmt.Errorf("auth is enabled but SESSION_KEY is not set")
		}
	}

	return nil
}

// getEnv retrieves environment variable with fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves boolean environment variable with fallback
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvInt retrieves integer environment variable with fallback
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
