package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/google/uuid"
)

// uploadOverhead is multipart framing allowed on top of the PDF size limit.
const uploadOverhead = 1 << 20

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	data := pageData{Theme: sess.Theme, Mode: parseMode(r.URL.Query().Get("mode"))}
	if id := r.URL.Query().Get("result"); id != "" {
		if res, ok := s.sessions.Result(sess.ID, id); ok {
			data.Result = s.render.resultView(res)
		}
	}
	s.writePage(w, http.StatusOK, data)
}

func (s *Server) handleYouTube(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	rawURL := strings.TrimSpace(r.FormValue("url"))
	data := pageData{Theme: sess.Theme, Mode: ModeYouTube, URL: rawURL}

	if rawURL == "" {
		data.add(LevelWarning, "Please enter a YouTube URL")
		s.writePage(w, http.StatusOK, data)
		return
	}

	doc, err := s.deps.LoadYouTube(r.Context(), rawURL)
	if err != nil {
		slog.Warn("web: transcript failed", slog.String("url", rawURL), slog.Any("error", err))
		if errors.Is(err, engine.ErrInvalidVideoURL) {
			data.add(LevelError, "Invalid YouTube URL format")
		} else {
			data.add(LevelError, "Error fetching transcript: %v", err)
			data.add(LevelInfo, "Make sure the video has captions/subtitles available")
		}
		s.writePage(w, http.StatusOK, data)
		return
	}
	data.add(LevelSuccess, "Transcript fetched! (%s characters)", formatCount(len([]rune(doc.Text))))

	arts := s.deps.Study(r.Context(), doc, engine.StudyOpts{Kinds: []engine.TaskKind{engine.KindSummary}})
	s.finish(w, sess, doc, arts, data)
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	data := pageData{Theme: sess.Theme, Mode: ModePDF}

	limit := engine.Cfg.MaxPDFBytes
	if limit <= 0 {
		limit = engine.DefaultMaxPDFBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+uploadOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			data.add(LevelError, "Error extracting PDF text: %v", engine.ErrPDFTooLarge)
		default:
			data.add(LevelWarning, "Please upload a PDF file")
		}
		s.writePage(w, http.StatusOK, data)
		return
	}
	defer file.Close()

	doc, err := s.deps.LoadPDF(r.Context(), file, header.Filename)
	if err != nil {
		slog.Warn("web: pdf extraction failed", slog.String("file", header.Filename), slog.Any("error", err))
		if errors.Is(err, engine.ErrNoPDFText) {
			data.add(LevelError, "No text could be extracted from the PDF")
		} else {
			data.add(LevelError, "Error extracting PDF text: %v", err)
		}
		s.writePage(w, http.StatusOK, data)
		return
	}
	data.add(LevelSuccess, "Text extracted successfully! (%s characters)", formatCount(len([]rune(doc.Text))))

	arts := s.deps.Study(r.Context(), doc, engine.StudyOpts{Kinds: engine.AllKinds})
	s.finish(w, sess, doc, arts, data)
}

// finish stores the artifacts for download and renders them.
func (s *Server) finish(w http.ResponseWriter, sess Session, doc engine.Document, arts []engine.Artifact, data pageData) {
	for _, a := range arts {
		if a.Failed() {
			data.add(LevelError, "Error generating %s: %s", failedNoun(a.Kind), a.Error)
		}
	}
	res := &Result{
		ID:        uuid.NewString(),
		Source:    doc.Source,
		Title:     doc.Title,
		Chars:     len([]rune(doc.Text)),
		Artifacts: arts,
		Created:   s.now(),
	}
	s.sessions.AddResult(sess.ID, res)
	data.Result = s.render.resultView(res)
	s.writePage(w, http.StatusOK, data)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	kind, err := engine.ParseKind(r.PathValue("kind"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	res, ok := s.sessions.Result(sess.ID, r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	a, ok := res.Artifact(kind)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", a.MIMEType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.FileName))
	_, _ = w.Write([]byte(a.Markdown))
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.sessions.SetTheme(sess.ID, sess.Theme.Toggle())
	http.Redirect(w, r, "/?mode="+string(parseMode(r.FormValue("mode"))), http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) writePage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.render.page(w, data); err != nil {
		slog.Error("web: render failed", slog.Any("error", err))
	}
}

func failedNoun(kind engine.TaskKind) string {
	switch kind {
	case engine.KindMCQ:
		return "MCQs"
	case engine.KindFlashcards:
		return "flashcards"
	}
	return "summary"
}
