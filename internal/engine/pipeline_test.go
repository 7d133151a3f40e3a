package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeModel records prompts and answers "resp-<n>" for the n-th call.
type fakeModel struct {
	mu      sync.Mutex
	prompts []string
	failAt  int // 1-based call that fails; 0 = never
	err     error
}

func (f *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	n := len(f.prompts)
	if n == f.failAt {
		return "", f.err
	}
	return fmt.Sprintf("resp-%d", n), nil
}

func newTestPipeline(m Model, chunkChars int) (*Pipeline, *[]time.Duration) {
	Init(Config{})
	var sleeps []time.Duration
	p := &Pipeline{
		Model:      m,
		ChunkChars: chunkChars,
		Delay:      time.Second,
		sleep: func(ctx context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return ctx.Err()
		},
	}
	return p, &sleeps
}

// threeChunks splits into exactly three chunks at a 12-rune limit.
const threeChunks = "alpha beta gamma delta epsilon"

func TestPipelineSingleChunkSummary(t *testing.T) {
	m := &fakeModel{}
	p, sleeps := newTestPipeline(m, 1000)

	res, err := p.Generate(context.Background(), Request{Text: "short lecture", Kind: KindSummary, Source: SourceYouTube})
	require.NoError(t, err)
	assert.Equal(t, "resp-1", res.Markdown)
	assert.Equal(t, 1, res.Chunks)
	assert.Equal(t, 1, res.Calls)
	assert.Empty(t, *sleeps)

	require.Len(t, m.prompts, 1)
	assert.Contains(t, m.prompts[0], "summary of the following YouTube video.")
	assert.Contains(t, m.prompts[0], "YouTube video content:\nshort lecture")
}

func TestPipelineMultiChunkSummaryMerges(t *testing.T) {
	m := &fakeModel{}
	p, sleeps := newTestPipeline(m, 12)

	var progress []Progress
	p.OnProgress = func(pr Progress) { progress = append(progress, pr) }

	res, err := p.Generate(context.Background(), Request{Text: threeChunks, Kind: KindSummary, Source: SourcePDF})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Chunks)
	assert.Equal(t, 4, res.Calls)
	assert.Equal(t, "resp-4", res.Markdown)
	assert.Len(t, *sleeps, 3, "delay between every pair of calls")

	require.Len(t, m.prompts, 4)
	assert.Contains(t, m.prompts[0], "PDF document content:\nalpha beta")
	merge := m.prompts[3]
	assert.Contains(t, merge, "Summary 1:\nresp-1\n\nSummary 2:\nresp-2\n\nSummary 3:\nresp-3")
	assert.Contains(t, merge, "unified, comprehensive summary")

	require.Len(t, progress, 4)
	assert.Equal(t, Progress{Kind: KindSummary, Step: 1, Total: 4}, progress[0])
	assert.Equal(t, Progress{Kind: KindSummary, Step: 4, Total: 4, Merge: true}, progress[3])
}

func TestPipelineQuestionsConcatenate(t *testing.T) {
	for _, kind := range []TaskKind{KindMCQ, KindFlashcards} {
		t.Run(string(kind), func(t *testing.T) {
			m := &fakeModel{}
			p, sleeps := newTestPipeline(m, 12)

			res, err := p.Generate(context.Background(), Request{Text: threeChunks, Kind: kind, Count: 8})
			require.NoError(t, err)
			assert.Equal(t, 3, res.Calls, "no merge call")
			assert.Equal(t, "resp-1\n\nresp-2\n\nresp-3", res.Markdown)
			assert.Len(t, *sleeps, 2)
			for _, prompt := range m.prompts {
				assert.True(t, strings.HasPrefix(prompt, "Create 2 "), "per-chunk count in %q", prompt)
			}
		})
	}
}

func TestPipelineCountNeverBelowOne(t *testing.T) {
	m := &fakeModel{}
	p, _ := newTestPipeline(m, 12)

	_, err := p.Generate(context.Background(), Request{Text: threeChunks, Kind: KindFlashcards, Count: 2})
	require.NoError(t, err)
	for _, prompt := range m.prompts {
		assert.True(t, strings.HasPrefix(prompt, "Create 1 flashcards"))
	}
}

func TestPipelineDefaultCounts(t *testing.T) {
	m := &fakeModel{}
	p, _ := newTestPipeline(m, 1000)

	_, err := p.Generate(context.Background(), Request{Text: "text", Kind: KindMCQ})
	require.NoError(t, err)
	_, err = p.Generate(context.Background(), Request{Text: "text", Kind: KindFlashcards})
	require.NoError(t, err)

	require.Len(t, m.prompts, 2)
	assert.True(t, strings.HasPrefix(m.prompts[0], fmt.Sprintf("Create %d multiple-choice", DefaultMCQCount)))
	assert.True(t, strings.HasPrefix(m.prompts[1], fmt.Sprintf("Create %d flashcards", DefaultFlashcardCount)))
}

func TestPipelineChunkError(t *testing.T) {
	boom := errors.New("quota exceeded")
	m := &fakeModel{failAt: 2, err: boom}
	p, _ := newTestPipeline(m, 12)

	res, err := p.Generate(context.Background(), Request{Text: threeChunks, Kind: KindSummary})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "summary chunk 2/3")
	assert.Equal(t, 2, res.Calls, "stops at the first failure")
	assert.Empty(t, res.Markdown)
}

func TestPipelineMergeError(t *testing.T) {
	boom := errors.New("merge failed")
	m := &fakeModel{failAt: 4, err: boom}
	p, _ := newTestPipeline(m, 12)

	_, err := p.Generate(context.Background(), Request{Text: threeChunks, Kind: KindSummary})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "summary merge")
}

func TestPipelineRejectsEmptyInput(t *testing.T) {
	p, _ := newTestPipeline(&fakeModel{}, 100)

	_, err := p.Generate(context.Background(), Request{Text: " \n\t ", Kind: KindSummary})
	assert.ErrorIs(t, err, ErrEmptyText)

	p.Model = nil
	_, err = p.Generate(context.Background(), Request{Text: "text", Kind: KindSummary})
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestPipelineCanceledDuringDelay(t *testing.T) {
	m := &fakeModel{}
	p, _ := newTestPipeline(m, 12)
	ctx, cancel := context.WithCancel(context.Background())
	p.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	res, err := p.Generate(ctx, Request{Text: threeChunks, Kind: KindMCQ, Count: 3})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, res.Calls)
}

func TestPipelineRealDelay(t *testing.T) {
	Init(Config{})
	m := &fakeModel{}
	p := &Pipeline{Model: m, ChunkChars: 12, Delay: 5 * time.Millisecond}

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{Text: threeChunks, Kind: KindMCQ, Count: 3})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestBuildPromptUnknownKind(t *testing.T) {
	_, err := buildPrompt(TaskKind("essay"), SourcePDF, "x", 1)
	assert.Error(t, err)
}
