package engine

import (
	"context"
	"log/slog"
	"time"
)

// StudyOpts tunes one study run.
type StudyOpts struct {
	Kinds      []TaskKind       // default: all kinds
	Counts     map[TaskKind]int // total questions/cards per kind; 0 = configured default
	OnProgress func(Progress)
}

// Study generates one artifact per requested kind from an extracted document.
// Kinds fail independently: a failed kind yields a placeholder artifact carrying the error.
func Study(ctx context.Context, doc Document, opts StudyOpts) []Artifact {
	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = AllKinds
	}

	p := NewPipeline(cfg.LLM)
	p.OnProgress = opts.OnProgress

	artifacts := make([]Artifact, 0, len(kinds))
	for _, kind := range kinds {
		artifacts = append(artifacts, generateArtifact(ctx, p, doc, kind, opts.Counts[kind]))
		if ctx.Err() != nil {
			break
		}
	}

	archiveArtifacts(context.WithoutCancel(ctx), cfg.Archive, doc, artifacts)
	return artifacts
}

// GenerateArtifact runs a single kind with the configured model.
func GenerateArtifact(ctx context.Context, doc Document, kind TaskKind, count int) Artifact {
	a := generateArtifact(ctx, NewPipeline(cfg.LLM), doc, kind, count)
	archiveArtifacts(context.WithoutCancel(ctx), cfg.Archive, doc, []Artifact{a})
	return a
}

func generateArtifact(ctx context.Context, p *Pipeline, doc Document, kind TaskKind, count int) Artifact {
	a := Artifact{
		Kind:     kind,
		Title:    kind.Title(),
		FileName: ArtifactFileName(doc.Source, kind),
		MIMEType: MIMEMarkdown,
	}

	metrics.Generations.Add(1)
	var res Result
	err := TrackOperation(ctx, "generate:"+string(kind), 30*time.Second, func(ctx context.Context) error {
		var err error
		res, err = p.Generate(ctx, Request{Text: doc.Text, Kind: kind, Count: count, Source: doc.Source})
		return err
	})
	a.Chunks, a.Calls = res.Chunks, res.Calls
	if err != nil {
		metrics.GenerationErrors.Add(1)
		slog.Error("study: generation failed",
			slog.String("kind", string(kind)), slog.String("ref", doc.Ref), slog.Any("error", err))
		a.Markdown = kind.Placeholder()
		a.Error = err.Error()
		return a
	}
	a.Markdown = res.Markdown
	return a
}
