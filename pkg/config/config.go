package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Inference InferenceConfig
	GigaChat  GigaChatConfig
	Gemini    GeminiConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// InferenceConfig is the explicit configuration object of the inference
// layer: candidate order, per-attempt timeout and the backoff schedule are
// injected here instead of living in package-level state.
type InferenceConfig struct {
	// Candidates is the ordered backend list, entries formatted as
	// "provider:model", e.g. "gigachat:GigaChat" or "gemini:gemini-1.5-flash".
	Candidates      []string
	AttemptTimeout  time.Duration
	MaxAttempts     int
	BackoffSchedule []time.Duration
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	InsecureSkipVerify bool
}

type GeminiConfig struct {
	APIKey string
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// Missing .env is fine, environment variables are used directly
	// (useful for Docker/K8s)

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	attemptTimeout, _ := strconv.Atoi(getEnv("INFERENCE_ATTEMPT_TIMEOUT", "30"))
	maxAttempts, _ := strconv.Atoi(getEnv("INFERENCE_MAX_ATTEMPTS", "3"))
	insecureSkipVerify := getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true"

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Inference: InferenceConfig{
			Candidates: splitList(getEnv("INFERENCE_CANDIDATES",
				"gigachat:GigaChat,gemini:gemini-1.5-flash,gemini:gemini-1.5-pro")),
			AttemptTimeout:  time.Duration(attemptTimeout) * time.Second,
			MaxAttempts:     maxAttempts,
			BackoffSchedule: parseSchedule(getEnv("INFERENCE_BACKOFF_SCHEDULE", "5s,10s,20s")),
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			InsecureSkipVerify: insecureSkipVerify,
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseSchedule(value string) []time.Duration {
	var out []time.Duration
	for _, part := range splitList(value) {
		d, err := time.ParseDuration(part)
		if err != nil || d < 0 {
			continue
		}
		out = append(out, d)
	}
	return out
}
