// Package toolutil provides shared helper functions for go_study MCP tools.
package toolutil

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/anatolykoptev/go_study/internal/engine/sources"
)

// MaxCount caps the number of questions or cards a tool call may ask for.
const MaxCount = 100

// ErrNoInput is returned when a tool call names no document.
var ErrNoInput = errors.New("one of url, pdf_path or pdf_base64 is required")

// NormCount applies the configured default for kind and caps count at MaxCount.
func NormCount(kind engine.TaskKind, count int) int {
	if count <= 0 {
		switch kind {
		case engine.KindMCQ:
			return engine.Cfg.MCQCount
		case engine.KindFlashcards:
			return engine.Cfg.FlashcardCount
		}
		return 0
	}
	return min(count, MaxCount)
}

// ResolveDocument loads the document named by exactly one of the input's source fields.
func ResolveDocument(ctx context.Context, in engine.StudyInput) (engine.Document, error) {
	in.URL = strings.TrimSpace(in.URL)
	in.PDFPath = strings.TrimSpace(in.PDFPath)
	in.PDFBase64 = strings.TrimSpace(in.PDFBase64)

	set := 0
	for _, v := range []string{in.URL, in.PDFPath, in.PDFBase64} {
		if v != "" {
			set++
		}
	}
	switch {
	case set == 0:
		return engine.Document{}, ErrNoInput
	case set > 1:
		return engine.Document{}, errors.New("pass only one of url, pdf_path or pdf_base64")
	}

	switch {
	case in.URL != "":
		return sources.LoadYouTubeDocument(ctx, in.URL)
	case in.PDFPath != "":
		return loadPDFPath(ctx, in.PDFPath)
	}

	data, err := base64.StdEncoding.DecodeString(in.PDFBase64)
	if err != nil {
		return engine.Document{}, fmt.Errorf("decode pdf_base64: %w", err)
	}
	return sources.LoadPDFBytes(ctx, data, "upload.pdf")
}

func loadPDFPath(ctx context.Context, path string) (engine.Document, error) {
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return engine.Document{}, fmt.Errorf("pdf_path: %w", err)
	}
	if info.IsDir() {
		return engine.Document{}, fmt.Errorf("pdf_path %s is a directory", path)
	}
	if limit := engine.Cfg.MaxPDFBytes; limit > 0 && info.Size() > limit {
		return engine.Document{}, engine.ErrPDFTooLarge
	}

	f, err := os.Open(path)
	if err != nil {
		return engine.Document{}, fmt.Errorf("pdf_path: %w", err)
	}
	defer f.Close()
	return sources.LoadPDFDocument(ctx, f, path)
}
