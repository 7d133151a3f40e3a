package engine

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
)

// ConfigFromEnv reads the engine configuration from the environment.
// Clients (HTTP, stealth, model, archive) are left for Setup.
func ConfigFromEnv() Config {
	return Config{
		LLMProvider:          env.Str("LLM_PROVIDER", "openai"),
		LLMAPIKey:            APIKeyFromEnv(),
		LLMAPIKeyFallbacks:   env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:           env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:             env.Str("LLM_MODEL", "gemini-2.0-flash"),
		LLMTemperature:       env.Float("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:         env.Int("LLM_MAX_TOKENS", 8192),
		LLMTimeout:           env.Duration("LLM_TIMEOUT", 120*time.Second),
		LLMRPM:               env.Int("LLM_RPM", 0),
		LLMMaxRetries:        env.Int("LLM_MAX_RETRIES", 0),
		VertexProject:        env.Str("VERTEX_PROJECT", ""),
		VertexRegion:         env.Str("VERTEX_REGION", "us-central1"),
		OllamaURL:            env.Str("OLLAMA_URL", ""),
		ChunkChars:           env.Int("CHUNK_CHARS", DefaultChunkChars),
		ChunkDelay:           env.Duration("CHUNK_DELAY", DefaultChunkDelay),
		MCQCount:             env.Int("MCQ_COUNT", DefaultMCQCount),
		FlashcardCount:       env.Int("FLASHCARD_COUNT", DefaultFlashcardCount),
		TranscriptLangs:      env.List("TRANSCRIPT_LANGS", "en"),
		MaxPDFBytes:          int64(env.Int("MAX_PDF_BYTES", DefaultMaxPDFBytes)),
		ArtifactBucket:       env.Str("ARTIFACT_BUCKET", ""),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
	}
}

// APIKeyFromEnv reads the model API key: the file named by GOOGLE_API_KEY_FILE first,
// then GOOGLE_API_KEY, then LLM_API_KEY.
func APIKeyFromEnv() string {
	if path := env.Str("GOOGLE_API_KEY_FILE", ""); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("config: cannot read API key file", slog.String("path", path), slog.Any("error", err))
		} else if key := strings.TrimSpace(string(data)); key != "" {
			return key
		}
	}
	if key := env.Str("GOOGLE_API_KEY", ""); key != "" {
		return key
	}
	return env.Str("LLM_API_KEY", "")
}
