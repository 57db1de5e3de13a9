package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBDSN      string

	JWTSecret      string
	AccessTokenTTL time.Duration

	CORSOrigins []string

	GroqAPIKey             string
	GroqModel              string
	GroqBaseURL            string
	GeminiAPIKey           string
	GeminiModelTranslation string
	GeminiModelQuiz        string
	LLMTemperature         float32
	LLMMaxTokens           int
	LLMMaxInputChars       int
	ProviderTimeout        time.Duration

	WikipediaAPIURL    string
	WikipediaUserAgent string
	FetchTimeout       time.Duration

	QuizKeyTTL       time.Duration
	QuizKeyCacheSize int

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	SeedData    bool
	MaxUploadMB int64
}

// LoadConfig reads the process environment. Call godotenv.Load beforehand
// if a .env file should be honoured.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("APP_ENV", "local"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBDSN:      os.Getenv("DB_DSN"),

		JWTSecret:      os.Getenv("JWT_SECRET_KEY"),
		AccessTokenTTL: time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60)) * time.Minute,

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		GroqAPIKey:             os.Getenv("GROQ_API_KEY"),
		GroqModel:              getEnv("GROQ_MODEL_NAME", "llama-3.1-8b-instant"),
		GroqBaseURL:            getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GeminiAPIKey:           os.Getenv("GEMINI_API_KEY"),
		GeminiModelTranslation: getEnv("GEMINI_MODEL_TRANSLATION", "gemini-2.5-flash"),
		GeminiModelQuiz:        getEnv("GEMINI_MODEL_QUIZ", "gemini-2.5-flash"),
		LLMTemperature:         float32(getEnvFloat("LLM_TEMPERATURE", 0.3)),
		LLMMaxTokens:           getEnvInt("LLM_MAX_TOKENS", 1024),
		LLMMaxInputChars:       getEnvInt("LLM_MAX_INPUT_CHARS", 12000),
		ProviderTimeout:        time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 60)) * time.Second,

		WikipediaAPIURL:    getEnv("WIKIPEDIA_API_URL", "https://en.wikipedia.org/w/api.php"),
		WikipediaUserAgent: getEnv("WIKIPEDIA_USER_AGENT", "WikiSmartEdu/1.0 (contact@example.com)"),
		FetchTimeout:       time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 15)) * time.Second,

		QuizKeyTTL:       time.Duration(getEnvInt("QUIZ_KEY_TTL_MINUTES", 120)) * time.Minute,
		QuizKeyCacheSize: getEnvInt("QUIZ_KEY_CACHE_SIZE", 1024),

		SupabaseURL:    os.Getenv("SUPABASE_URL"),
		SupabaseKey:    os.Getenv("SUPABASE_KEY"),
		SupabaseBucket: getEnv("SUPABASE_BUCKET", "uploads"),

		SeedData:    getEnvBool("SEED_DATA", false),
		MaxUploadMB: int64(getEnvInt("MAX_UPLOAD_MB", 20)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.LLMMaxInputChars <= 0 {
		return errors.New("LLM_MAX_INPUT_CHARS must be positive")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// DSN returns DB_DSN when set, otherwise a postgres DSN built from the parts.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	if c.DBDriver == "sqlite" {
		return "wikismart.db"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
