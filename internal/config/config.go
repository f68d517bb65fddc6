package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Tracker  TrackerConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider   string // "ollama", "openai", etc
	LLMModel      string // e.g. "llama3", "qwen2.5"
	OllamaBaseURL string
}

// TrackerConfig holds the tunable thresholds of the context tracking pipeline.
// The confidence values are empirically chosen; they are configuration, not invariants.
type TrackerConfig struct {
	ExplicitConfidence   float64 // confidence assigned to explicit pattern matches
	ImplicitConfidence   float64 // base confidence for implicit pattern matches
	MatchedBoost         float64 // implicit confidence when the label matches a known intent
	SwitchConfidence     float64 // fixed confidence for topic-switch signals
	LLMMinConfidence     float64 // LLM fallback classifications below this are discarded
	ProcessMinConfidence float64 // signals below this are ignored entirely
	DecayAfterDays       int     // resolved intents older than this are reclassified as decayed
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:      getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Tracker: TrackerConfig{
			ExplicitConfidence:   getEnvAsFloat("TRACKER_EXPLICIT_CONFIDENCE", 0.85),
			ImplicitConfidence:   getEnvAsFloat("TRACKER_IMPLICIT_CONFIDENCE", 0.7),
			MatchedBoost:         getEnvAsFloat("TRACKER_MATCHED_BOOST", 0.8),
			SwitchConfidence:     getEnvAsFloat("TRACKER_SWITCH_CONFIDENCE", 0.65),
			LLMMinConfidence:     getEnvAsFloat("TRACKER_LLM_MIN_CONFIDENCE", 0.7),
			ProcessMinConfidence: getEnvAsFloat("TRACKER_PROCESS_MIN_CONFIDENCE", 0.6),
			DecayAfterDays:       getEnvAsInt("TRACKER_DECAY_AFTER_DAYS", 90),
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
