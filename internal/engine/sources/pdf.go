package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFText is the text layer of a PDF.
type PDFText struct {
	Text  string
	Pages int
}

// ReadPDF reads at most the configured upload limit from r and extracts its text.
func ReadPDF(ctx context.Context, r io.Reader) (PDFText, error) {
	limit := engine.Cfg.MaxPDFBytes
	if limit <= 0 {
		limit = engine.DefaultMaxPDFBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return PDFText{}, fmt.Errorf("read pdf: %w", err)
	}
	if int64(len(data)) > limit {
		return PDFText{}, engine.ErrPDFTooLarge
	}
	return ExtractPDFText(ctx, data)
}

// ExtractPDFText validates data as a PDF and concatenates the text of every page.
// Each page with text contributes its text plus "\n"; the result is trimmed.
func ExtractPDFText(ctx context.Context, data []byte) (PDFText, error) {
	engine.IncrPDF()
	out, err := extractPDFText(ctx, data)
	if err != nil {
		engine.IncrPDFError()
	}
	return out, err
}

func extractPDFText(ctx context.Context, data []byte) (PDFText, error) {
	if limit := engine.Cfg.MaxPDFBytes; limit > 0 && int64(len(data)) > limit {
		return PDFText{}, engine.ErrPDFTooLarge
	}
	if len(data) == 0 {
		return PDFText{}, errors.New("empty pdf upload")
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return PDFText{}, fmt.Errorf("invalid pdf: %w", err)
	}
	pageCount, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return PDFText{}, fmt.Errorf("pdf page count: %w", err)
	}

	rd, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return PDFText{}, fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= rd.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return PDFText{}, err
		}
		text, err := pageText(rd, i)
		if err != nil {
			slog.Debug("pdf: page text failed", slog.Int("page", i), slog.Any("error", err))
			continue
		}
		if text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return PDFText{Pages: pageCount}, engine.ErrNoPDFText
	}
	return PDFText{Text: text, Pages: pageCount}, nil
}

// pageText recovers from panics inside the text decoder, which some malformed fonts trigger.
func pageText(rd *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", num, r)
		}
	}()
	p := rd.Page(num)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}
