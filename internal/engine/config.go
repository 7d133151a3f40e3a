package engine

import (
	"net/http"
	"time"
)

// Defaults shared by the pipeline, the web UI and the MCP tools.
const (
	DefaultChunkChars     = 30000
	DefaultChunkDelay     = time.Second
	DefaultMCQCount       = 8
	DefaultFlashcardCount = 12
	DefaultMaxPDFBytes    = 20 << 20
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMProvider        string // openai (default), vertex, ollama
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int
	LLMTimeout         time.Duration
	LLMRPM             int // 0 = no process-wide cap
	LLMMaxRetries      int // 0 = a failed call is final
	VertexProject      string
	VertexRegion       string
	OllamaURL          string

	ChunkChars     int
	ChunkDelay     time.Duration
	MCQCount       int
	FlashcardCount int

	TranscriptLangs []string
	MaxPDFBytes     int64
	ArtifactBucket  string // empty = archive disabled

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	HTTPClient    *http.Client
	BrowserClient *BrowserClient // nil = stealth fallback disabled
	LLM           Model          // configured backend; set by main or tests
	Archive       Archiver       // nil = archive disabled
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources, web, studyserver).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
// Zero values fall back to the package defaults.
func Init(c Config) {
	if c.ChunkChars <= 0 {
		c.ChunkChars = DefaultChunkChars
	}
	if c.ChunkDelay < 0 {
		c.ChunkDelay = 0
	}
	if c.MCQCount <= 0 {
		c.MCQCount = DefaultMCQCount
	}
	if c.FlashcardCount <= 0 {
		c.FlashcardCount = DefaultFlashcardCount
	}
	if c.MaxPDFBytes <= 0 {
		c.MaxPDFBytes = DefaultMaxPDFBytes
	}
	if len(c.TranscriptLangs) == 0 {
		c.TranscriptLangs = []string{"en"}
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	cfg = c
	Cfg = &cfg
	initLimiter(c.LLMRPM)
}
