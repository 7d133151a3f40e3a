package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/anatolykoptev/go_study/internal/engine"
)

// LoadYouTubeDocument resolves a video URL into a transcript document.
// An unrecognized URL fails with ErrInvalidVideoURL before any network call.
func LoadYouTubeDocument(ctx context.Context, rawURL string) (engine.Document, error) {
	id := ExtractVideoID(rawURL)
	if id == "" {
		return engine.Document{}, engine.ErrInvalidVideoURL
	}

	t, err := FetchYouTubeTranscript(ctx, id, engine.Cfg.TranscriptLangs)
	if err != nil {
		return engine.Document{}, fmt.Errorf("transcript %s: %w", id, err)
	}
	if strings.TrimSpace(t.Text) == "" {
		return engine.Document{}, engine.ErrNoTranscript
	}

	slog.Info("youtube: transcript loaded",
		slog.String("id", id), slog.Int("chars", len([]rune(t.Text))))
	return engine.Document{
		Source: engine.SourceYouTube,
		Title:  t.Title,
		Ref:    id,
		Text:   t.Text,
	}, nil
}

// LoadPDFDocument extracts the text of an uploaded PDF.
func LoadPDFDocument(ctx context.Context, r io.Reader, name string) (engine.Document, error) {
	pt, err := ReadPDF(ctx, r)
	if err != nil {
		return engine.Document{}, err
	}
	return pdfDocument(pt, name), nil
}

// LoadPDFBytes is LoadPDFDocument for an in-memory upload.
func LoadPDFBytes(ctx context.Context, data []byte, name string) (engine.Document, error) {
	pt, err := ExtractPDFText(ctx, data)
	if err != nil {
		return engine.Document{}, err
	}
	return pdfDocument(pt, name), nil
}

func pdfDocument(pt PDFText, name string) engine.Document {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" {
		name = ""
	}
	slog.Info("pdf: text extracted",
		slog.String("file", name), slog.Int("pages", pt.Pages), slog.Int("chars", len([]rune(pt.Text))))
	return engine.Document{
		Source: engine.SourcePDF,
		Title:  strings.TrimSuffix(name, filepath.Ext(name)),
		Ref:    name,
		Text:   pt.Text,
		Pages:  pt.Pages,
	}
}
