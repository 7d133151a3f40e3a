package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	LLMCalls           atomic.Int64
	LLMErrors          atomic.Int64
	Generations        atomic.Int64
	GenerationErrors   atomic.Int64
	TranscriptRequests atomic.Int64
	TranscriptErrors   atomic.Int64
	PDFExtractions     atomic.Int64
	PDFErrors          atomic.Int64
	ArchiveWrites      atomic.Int64
	ArchiveErrors      atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"llm_calls":           metrics.LLMCalls.Load(),
		"llm_errors":          metrics.LLMErrors.Load(),
		"generations":         metrics.Generations.Load(),
		"generation_errors":   metrics.GenerationErrors.Load(),
		"transcript_requests": metrics.TranscriptRequests.Load(),
		"transcript_errors":   metrics.TranscriptErrors.Load(),
		"pdf_extractions":     metrics.PDFExtractions.Load(),
		"pdf_errors":          metrics.PDFErrors.Load(),
		"archive_writes":      metrics.ArchiveWrites.Load(),
		"archive_errors":      metrics.ArchiveErrors.Load(),
		"cache_hits":          hits,
		"cache_misses":        misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"llm_calls", "llm_errors",
		"generations", "generation_errors",
		"transcript_requests", "transcript_errors",
		"pdf_extractions", "pdf_errors",
		"archive_writes", "archive_errors",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sources/ sub-package.
func IncrTranscript()      { metrics.TranscriptRequests.Add(1) }
func IncrTranscriptError() { metrics.TranscriptErrors.Add(1) }
func IncrPDF()             { metrics.PDFExtractions.Add(1) }
func IncrPDFError()        { metrics.PDFErrors.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, threshold time.Duration, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > threshold {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
