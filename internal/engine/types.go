package engine

import (
	"errors"
	"fmt"
	"strings"
)

// --- Task kinds ---

// TaskKind selects the prompt template and post-processing of a generation.
type TaskKind string

const (
	KindSummary    TaskKind = "summary"
	KindMCQ        TaskKind = "mcq"
	KindFlashcards TaskKind = "flashcards"
)

// AllKinds lists every task kind in display order.
var AllKinds = []TaskKind{KindSummary, KindMCQ, KindFlashcards}

// ParseKind maps user input ("mcqs", "Flashcards", ...) to a TaskKind.
func ParseKind(s string) (TaskKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "summary", "summarize":
		return KindSummary, nil
	case "mcq", "mcqs", "quiz":
		return KindMCQ, nil
	case "flashcard", "flashcards", "cards":
		return KindFlashcards, nil
	}
	return "", fmt.Errorf("unknown task kind %q", s)
}

// Title is the heading shown above a generated artifact.
func (k TaskKind) Title() string {
	switch k {
	case KindMCQ:
		return "Multiple Choice Questions"
	case KindFlashcards:
		return "Study Flashcards"
	}
	return "Summary"
}

// Placeholder is the text shown in place of an artifact whose generation failed.
func (k TaskKind) Placeholder() string {
	switch k {
	case KindMCQ:
		return "Failed to generate MCQs."
	case KindFlashcards:
		return "Failed to generate flashcards."
	}
	return "Failed to generate summary."
}

// fileSuffix is the kind part of a download file name.
func (k TaskKind) fileSuffix() string {
	switch k {
	case KindMCQ:
		return "mcqs"
	case KindFlashcards:
		return "flashcards"
	}
	return "summary"
}

// --- Sources ---

// SourceKind tells where a document's text came from.
type SourceKind string

const (
	SourceYouTube SourceKind = "youtube"
	SourcePDF     SourceKind = "pdf"
)

// ContentType is the phrase used in summary prompts.
func (s SourceKind) ContentType() string {
	switch s {
	case SourceYouTube:
		return "YouTube video"
	case SourcePDF:
		return "PDF document"
	}
	return "content"
}

// Document is the extracted text of one user action. It is never persisted.
type Document struct {
	Source SourceKind
	Title  string // video title or PDF file name, may be empty
	Ref    string // video id or file name
	Text   string
	Pages  int // PDF only
}

// --- Artifacts ---

// Artifact is one generated, downloadable study aid.
type Artifact struct {
	Kind     TaskKind `json:"kind"`
	Title    string   `json:"title"`
	Markdown string   `json:"markdown"`
	FileName string   `json:"file_name"`
	MIMEType string   `json:"mime_type"`
	Chunks   int      `json:"chunks"`
	Calls    int      `json:"calls"`
	Error    string   `json:"error,omitempty"`
}

// Failed reports whether the artifact holds a placeholder instead of model output.
func (a Artifact) Failed() bool { return a.Error != "" }

// ArtifactFileName follows the "<source>_<kind>.md" convention.
func ArtifactFileName(src SourceKind, kind TaskKind) string {
	prefix := string(src)
	if prefix == "" {
		prefix = "study"
	}
	return prefix + "_" + kind.fileSuffix() + ".md"
}

// MIMEMarkdown is the content type of every downloadable artifact.
const MIMEMarkdown = "text/markdown"

// --- Errors ---

var (
	ErrInvalidVideoURL = errors.New("invalid YouTube URL format")
	ErrNoTranscript    = errors.New("transcript unavailable")
	ErrNoPDFText       = errors.New("no text could be extracted from the PDF")
	ErrPDFTooLarge     = errors.New("PDF exceeds the upload size limit")
	ErrEmptyText       = errors.New("document has no text")
	ErrMissingAPIKey   = errors.New("API key not found: set GOOGLE_API_KEY")
	ErrNoModel         = errors.New("no language model configured")
)

// --- MCP tool I/O ---

// StudyInput is the input shared by the study_* MCP tools.
type StudyInput struct {
	URL       string `json:"url,omitempty" jsonschema:"YouTube video URL (watch, youtu.be or embed link)"`
	PDFPath   string `json:"pdf_path,omitempty" jsonschema:"Path to a PDF file readable by the server"`
	PDFBase64 string `json:"pdf_base64,omitempty" jsonschema:"Base64-encoded PDF bytes"`
	Count     int    `json:"count,omitempty" jsonschema:"Total number of questions or cards (default: 8 MCQs, 12 flashcards)"`
}

// StudyOutput is the structured output of the study_* MCP tools.
type StudyOutput struct {
	Source   SourceKind `json:"source"`
	Title    string     `json:"title,omitempty"`
	Chars    int        `json:"chars"`
	Artifact Artifact   `json:"artifact"`
}

// ExtractOutput is the structured output of study_extract.
type ExtractOutput struct {
	Source SourceKind `json:"source"`
	Title  string     `json:"title,omitempty"`
	Chars  int        `json:"chars"`
	Pages  int        `json:"pages,omitempty"`
	Chunks int        `json:"chunks"`
	Text   string     `json:"text"`
}
