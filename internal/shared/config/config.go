package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	DatabaseURL     string

	LibrarySource   string
	LibraryKey      string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	AIDefaultProvider string
	AIFallbackOrder   []string
	AITimeout         time.Duration
	AIPricingFile     string
	AIRateLimitRPS    float64
	AIRateLimitBurst  int
	ProviderKeys      ProviderKeys
}

// ProviderKeys carries one credential per upstream AI provider. An empty key disables that provider.
type ProviderKeys struct {
	OpenAI          string
	Anthropic       string
	Gemini          string
	Perplexity      string
	DeepSeek        string
	AzureOpenAI     string
	AzureEndpoint   string
	AzureDeployment string
}

// DefaultFallbackOrder is used when AI_FALLBACK_ORDER is unset.
var DefaultFallbackOrder = []string{"openai", "anthropic", "gemini", "perplexity", "deepseek", "azure"}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	librarySource := normalizeLibrarySource(getEnv("LIBRARY_SOURCE", ""), dbURL)

	if env == "production" && librarySource == "postgres" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	fallback := splitAndTrim(strings.ToLower(getEnv("AI_FALLBACK_ORDER", "")))
	if len(fallback) == 0 {
		fallback = append([]string(nil), DefaultFallbackOrder...)
	}

	return Config{
		Port:              getEnv("PORT", "8080"),
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:               env,
		DatabaseURL:       dbURL,
		LibrarySource:     librarySource,
		LibraryKey:        getEnv("LIBRARY_KEY", "library/snapshot.yaml"),
		ObjectStoreType:   normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:     getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:         getEnv("AWS_REGION", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Prefix:          getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:       getEnv("SSE_KMS_KEY_ID", ""),
		AIDefaultProvider: strings.ToLower(getEnv("AI_DEFAULT_PROVIDER", "openai")),
		AIFallbackOrder:   fallback,
		AITimeout:         time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 120)) * time.Second,
		AIPricingFile:     getEnv("AI_PRICING_FILE", ""),
		AIRateLimitRPS:    getEnvFloat("AI_RATE_LIMIT_RPS", 1),
		AIRateLimitBurst:  getEnvInt("AI_RATE_LIMIT_BURST", 10),
		ProviderKeys: ProviderKeys{
			OpenAI:          os.Getenv("OPENAI_API_KEY"),
			Anthropic:       os.Getenv("ANTHROPIC_API_KEY"),
			Gemini:          os.Getenv("GEMINI_API_KEY"),
			Perplexity:      os.Getenv("PERPLEXITY_API_KEY"),
			DeepSeek:        os.Getenv("DEEPSEEK_API_KEY"),
			AzureOpenAI:     os.Getenv("AZURE_OPENAI_API_KEY"),
			AzureEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
			AzureDeployment: getEnv("AZURE_OPENAI_DEPLOYMENT", "gpt-4o"),
		},
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config env %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val < 0 {
		log.Printf("config env %s invalid float %q, using %v", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

// normalizeLibrarySource picks postgres when a database is configured and no source was named.
func normalizeLibrarySource(raw, dbURL string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg", "db":
		return "postgres"
	case "file", "object":
		return "file"
	case "seed", "memory":
		return "seed"
	}
	if strings.TrimSpace(dbURL) != "" {
		return "postgres"
	}
	return "seed"
}
