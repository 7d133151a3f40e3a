package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// Archiver keeps a copy of generated artifacts outside the process.
type Archiver interface {
	Save(ctx context.Context, objectName, content string) error
}

// GCSArchiver writes artifacts to a Cloud Storage bucket.
type GCSArchiver struct {
	client *storage.Client
	bucket string
}

// NewGCSArchiver creates a storage client for bucket.
func NewGCSArchiver(ctx context.Context, bucket string) (*GCSArchiver, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket must be provided to create an archiver")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSArchiver{client: client, bucket: bucket}, nil
}

// Save writes content only if the object doesn't already exist.
func (a *GCSArchiver) Save(ctx context.Context, objectName, content string) error {
	writer := a.client.Bucket(a.bucket).Object(objectName).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = MIMEMarkdown

	if _, err := io.Copy(writer, strings.NewReader(content)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 412 {
			slog.Info("archive: object already exists, skipping", slog.String("object", objectName))
			return nil
		}
		return fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	return nil
}

func (a *GCSArchiver) Close() error {
	return a.client.Close()
}

// ArchiveObjectName places an artifact under <date>/<ref>/<file name>.
func ArchiveObjectName(doc Document, a Artifact, now time.Time) string {
	ref := doc.Ref
	if ref == "" {
		ref = "unnamed"
	}
	ref = strings.NewReplacer("/", "_", " ", "_").Replace(ref)
	return fmt.Sprintf("%s/%s/%s", now.UTC().Format("2006-01-02"), ref, a.FileName)
}

// archiveArtifacts saves successful artifacts. Failures are logged only.
func archiveArtifacts(ctx context.Context, ar Archiver, doc Document, artifacts []Artifact) {
	if ar == nil {
		return
	}
	now := time.Now()
	for _, a := range artifacts {
		if a.Failed() {
			continue
		}
		name := ArchiveObjectName(doc, a, now)
		metrics.ArchiveWrites.Add(1)
		if err := ar.Save(ctx, name, a.Markdown); err != nil {
			metrics.ArchiveErrors.Add(1)
			slog.Warn("archive: save failed", slog.String("object", name), slog.Any("error", err))
		}
	}
}
