package sources

import (
	"context"
	"io"

	"github.com/anatolykoptev/go_study/internal/engine"
)

// StudyFromYouTube fetches the transcript behind rawURL and generates the requested kinds.
// With no kinds requested only the summary is generated.
func StudyFromYouTube(ctx context.Context, rawURL string, opts engine.StudyOpts) (engine.Document, []engine.Artifact, error) {
	doc, err := LoadYouTubeDocument(ctx, rawURL)
	if err != nil {
		return engine.Document{}, nil, err
	}
	if len(opts.Kinds) == 0 {
		opts.Kinds = []engine.TaskKind{engine.KindSummary}
	}
	return doc, engine.Study(ctx, doc, opts), nil
}

// StudyFromPDF extracts the text of an uploaded PDF and generates the requested kinds.
// With no kinds requested all of them are generated.
func StudyFromPDF(ctx context.Context, r io.Reader, name string, opts engine.StudyOpts) (engine.Document, []engine.Artifact, error) {
	doc, err := LoadPDFDocument(ctx, r, name)
	if err != nil {
		return engine.Document{}, nil, err
	}
	return doc, engine.Study(ctx, doc, opts), nil
}
