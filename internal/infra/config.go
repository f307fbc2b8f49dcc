package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string
	Debug  bool

	MinImagesPerRequest int
	MaxImagesPerRequest int
	MaxFileSize         int64
	MaxRequestSize      int64

	VisionModel        string
	ChatModel          string
	ImageModelPrimary  string
	ImageModelFallback string
	ComposeStyle       bool

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIOrg     string

	GeminiAPIKey     string
	GeminiImageModel string

	PublicBaseURL string
	TempDir       string
	TempRetention time.Duration

	AITimeout        time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. An absent OpenAI credential is fatal outside
// development mode; in development the deterministic static backend is
// wired instead.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8066"),
		Debug:  getEnvBool("DEBUG", false),

		MinImagesPerRequest: getEnvInt("MIN_IMAGES_PER_REQUEST", 4),
		MaxImagesPerRequest: getEnvInt("MAX_IMAGES_PER_REQUEST", 6),
		MaxFileSize:         getEnvInt64("MAX_FILE_SIZE", 10<<20),
		MaxRequestSize:      getEnvInt64("MAX_REQUEST_SIZE", 30<<20),

		VisionModel:        getEnv("VISION_MODEL", "gpt-4o"),
		ChatModel:          getEnv("CHAT_MODEL", "gpt-4o-mini"),
		ImageModelPrimary:  getEnv("IMAGE_MODEL_PRIMARY", "dall-e-3"),
		ImageModelFallback: getEnv("IMAGE_MODEL_FALLBACK", "dall-e-2"),
		ComposeStyle:       getEnvBool("COMPOSE_STYLE", false),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:     os.Getenv("OPENAI_ORG"),

		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiImageModel: getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image-preview"),

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8066"),
		TempDir:       getEnv("TEMP_DIR", "temp_generated_images"),
		TempRetention: time.Minute * time.Duration(getEnvInt("TEMP_RETENTION_MINUTES", 10)),

		AITimeout:        time.Second * time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 60)),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.MinImagesPerRequest < 1 {
		return nil, fmt.Errorf("MIN_IMAGES_PER_REQUEST must be at least 1")
	}
	if cfg.MaxImagesPerRequest < cfg.MinImagesPerRequest {
		return nil, fmt.Errorf("MAX_IMAGES_PER_REQUEST must be >= MIN_IMAGES_PER_REQUEST")
	}
	if cfg.OpenAIAPIKey == "" && cfg.AppEnv != "development" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return fallback
}
