package toolutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormCount(t *testing.T) {
	engine.Init(engine.Config{})

	assert.Equal(t, engine.DefaultMCQCount, NormCount(engine.KindMCQ, 0))
	assert.Equal(t, engine.DefaultFlashcardCount, NormCount(engine.KindFlashcards, -3))
	assert.Equal(t, 0, NormCount(engine.KindSummary, 0))
	assert.Equal(t, 5, NormCount(engine.KindMCQ, 5))
	assert.Equal(t, MaxCount, NormCount(engine.KindMCQ, 1000))
}

func TestResolveDocumentValidation(t *testing.T) {
	engine.Init(engine.Config{})
	ctx := context.Background()

	_, err := ResolveDocument(ctx, engine.StudyInput{})
	assert.ErrorIs(t, err, ErrNoInput)

	_, err = ResolveDocument(ctx, engine.StudyInput{URL: "https://youtu.be/x", PDFPath: "/tmp/a.pdf"})
	assert.Error(t, err)

	_, err = ResolveDocument(ctx, engine.StudyInput{URL: "https://example.com/video"})
	assert.ErrorIs(t, err, engine.ErrInvalidVideoURL)

	_, err = ResolveDocument(ctx, engine.StudyInput{PDFBase64: "%%%not base64"})
	assert.Error(t, err)
}

func TestResolveDocumentPDFPath(t *testing.T) {
	engine.Init(engine.Config{MaxPDFBytes: 8})
	defer engine.Init(engine.Config{})
	ctx := context.Background()

	dir := t.TempDir()
	big := filepath.Join(dir, "big.pdf")
	require.NoError(t, os.WriteFile(big, []byte("0123456789"), 0o600))

	_, err := ResolveDocument(ctx, engine.StudyInput{PDFPath: big})
	assert.True(t, errors.Is(err, engine.ErrPDFTooLarge), "err = %v", err)

	_, err = ResolveDocument(ctx, engine.StudyInput{PDFPath: filepath.Join(dir, "missing.pdf")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ResolveDocument(ctx, engine.StudyInput{PDFPath: dir})
	assert.Error(t, err)
}
