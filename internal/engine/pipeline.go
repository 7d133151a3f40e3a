package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
)

// Request describes one generation over a document's text.
type Request struct {
	Text   string
	Kind   TaskKind
	Count  int        // total questions or cards; ignored for summaries
	Source SourceKind // names the content type in summary prompts
}

// Result is the model output of one generation plus bookkeeping.
type Result struct {
	Markdown string
	Chunks   int
	Calls    int
}

// Progress is reported before every model call.
type Progress struct {
	Kind  TaskKind
	Step  int // 1-based
	Total int // chunk calls plus the merge call, if any
	Merge bool
}

// Pipeline sends chunked text to a model one call at a time.
type Pipeline struct {
	Model      Model
	ChunkChars int
	Delay      time.Duration
	OnProgress func(Progress)

	// sleep waits between calls; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPipeline builds a pipeline from the engine configuration.
func NewPipeline(m Model) *Pipeline {
	return &Pipeline{
		Model:      m,
		ChunkChars: cfg.ChunkChars,
		Delay:      cfg.ChunkDelay,
	}
}

// Generate runs the task over every chunk of req.Text, strictly in order.
// Summaries of more than one chunk are merged by one extra call.
// Questions and cards are concatenated with a blank line, without a merge pass.
func (p *Pipeline) Generate(ctx context.Context, req Request) (Result, error) {
	if strings.TrimFunc(req.Text, unicode.IsSpace) == "" {
		return Result{}, ErrEmptyText
	}
	if p.Model == nil {
		return Result{}, ErrNoModel
	}

	chunks := Chunk(req.Text, p.ChunkChars)
	res := Result{Chunks: len(chunks)}
	total := len(chunks)
	if req.Kind == KindSummary && len(chunks) > 1 {
		total++
	}

	perChunk := PerChunkCount(p.countFor(req), len(chunks))
	log := slog.With(slog.String("kind", string(req.Kind)), slog.Int("chunks", len(chunks)))
	log.Info("pipeline: start", slog.Int("chars", len(req.Text)))

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if i > 0 {
			if err := p.wait(ctx); err != nil {
				return res, err
			}
		}
		p.report(Progress{Kind: req.Kind, Step: i + 1, Total: total})

		prompt, err := buildPrompt(req.Kind, req.Source, chunk, perChunk)
		if err != nil {
			return res, err
		}
		out, err := callModel(ctx, p.Model, prompt)
		res.Calls++
		if err != nil {
			log.Error("pipeline: chunk call failed", slog.Int("chunk", i+1), slog.Any("error", err))
			return res, fmt.Errorf("%s chunk %d/%d: %w", req.Kind, i+1, len(chunks), err)
		}
		parts = append(parts, out)
	}

	if req.Kind != KindSummary {
		res.Markdown = strings.Join(parts, "\n\n")
		log.Info("pipeline: done", slog.Int("calls", res.Calls))
		return res, nil
	}

	if len(parts) == 1 {
		res.Markdown = parts[0]
		log.Info("pipeline: done", slog.Int("calls", res.Calls))
		return res, nil
	}

	if err := p.wait(ctx); err != nil {
		return res, err
	}
	p.report(Progress{Kind: req.Kind, Step: total, Total: total, Merge: true})
	merged, err := callModel(ctx, p.Model, fmt.Sprintf(mergeSummaryPrompt, listSummaries(parts)))
	res.Calls++
	if err != nil {
		log.Error("pipeline: merge call failed", slog.Any("error", err))
		return res, fmt.Errorf("summary merge: %w", err)
	}
	res.Markdown = merged
	log.Info("pipeline: done", slog.Int("calls", res.Calls))
	return res, nil
}

func (p *Pipeline) countFor(req Request) int {
	if req.Count > 0 {
		return req.Count
	}
	switch req.Kind {
	case KindMCQ:
		return cfg.MCQCount
	case KindFlashcards:
		return cfg.FlashcardCount
	}
	return 1
}

func (p *Pipeline) report(pr Progress) {
	if p.OnProgress != nil {
		p.OnProgress(pr)
	}
}

// wait applies the fixed inter-call delay.
func (p *Pipeline) wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	if p.sleep != nil {
		return p.sleep(ctx, p.Delay)
	}
	select {
	case <-time.After(p.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// buildPrompt embeds one chunk verbatim in the template for kind.
func buildPrompt(kind TaskKind, src SourceKind, chunk string, count int) (string, error) {
	switch kind {
	case KindSummary:
		ct := src.ContentType()
		return fmt.Sprintf(summaryPrompt, ct, capitalize(ct), chunk), nil
	case KindMCQ:
		return fmt.Sprintf(mcqPrompt, count, chunk), nil
	case KindFlashcards:
		return fmt.Sprintf(flashcardPrompt, count, chunk), nil
	}
	return "", fmt.Errorf("unknown task kind %q", kind)
}

// listSummaries numbers chunk summaries for the merge prompt.
func listSummaries(parts []string) string {
	var sb strings.Builder
	for i, s := range parts {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Summary %d:\n%s", i+1, s)
	}
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
