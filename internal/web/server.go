// Package web serves the browser UI: a YouTube summarizer and a PDF learning assistant.
package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/anatolykoptev/go_study/internal/engine/sources"
)

const sessionCookie = "go_study_session"

// Deps are the extraction and generation steps behind the UI. Nil fields use the engine.
type Deps struct {
	LoadYouTube func(ctx context.Context, rawURL string) (engine.Document, error)
	LoadPDF     func(ctx context.Context, r io.Reader, name string) (engine.Document, error)
	Study       func(ctx context.Context, doc engine.Document, opts engine.StudyOpts) []engine.Artifact
}

// Server is the browser UI.
type Server struct {
	deps     Deps
	sessions *SessionStore
	render   *renderer
	now      func() time.Time
}

// New builds the UI on top of a session store.
func New(sessions *SessionStore, deps Deps) (*Server, error) {
	if deps.LoadYouTube == nil {
		deps.LoadYouTube = sources.LoadYouTubeDocument
	}
	if deps.LoadPDF == nil {
		deps.LoadPDF = sources.LoadPDFDocument
	}
	if deps.Study == nil {
		deps.Study = engine.Study
	}
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}
	return &Server{deps: deps, sessions: sessions, render: r, now: time.Now}, nil
}

// Handler returns the UI routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /youtube", s.handleYouTube)
	mux.HandleFunc("POST /pdf", s.handlePDF)
	mux.HandleFunc("GET /download/{id}/{kind}", s.handleDownload)
	mux.HandleFunc("POST /theme", s.handleTheme)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return logRequests(mux)
}

// session loads the caller's session and refreshes its cookie.
func (s *Server) session(w http.ResponseWriter, r *http.Request) Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}
	sess := s.sessions.Touch(id)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if r.URL.Path == "/healthz" {
			return
		}
		slog.Info("web: request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", time.Since(start)))
	})
}
