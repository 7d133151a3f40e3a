// go_study: study material generator for YouTube videos and PDF documents.
//
// Serves a browser UI on WEB_PORT and four MCP tools on MCP_PORT:
// study_summary, study_mcqs, study_flashcards, study_extract.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/anatolykoptev/go_study/internal/studyserver"
	"github.com/anatolykoptev/go_study/internal/web"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
	webPort = env.Str("WEB_PORT", "8501")
)

func main() {
	engine.InitLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	closeEngine, err := engine.Setup(ctx, engine.ConfigFromEnv())
	if err != nil {
		slog.Error("engine init failed", slog.Any("error", err))
		if errors.Is(err, engine.ErrMissingAPIKey) {
			slog.Info("To get an API key, visit: https://makersuite.google.com/app/apikey")
		}
		os.Exit(1)
	}
	defer closeEngine()

	slog.Info("starting go_study",
		slog.String("mcp_port", mcpPort),
		slog.String("web_port", webPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_study",
		Version: version,
	}, nil)

	studyserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", studyserver.ToolCount))

	sessions := web.NewSessionStore(env.Duration("SESSION_TTL", 2*time.Hour), env.Int("SESSION_MAX_RESULTS", 5))
	ui, err := web.New(sessions, web.Deps{})
	if err != nil {
		slog.Error("web ui init failed", slog.Any("error", err))
		os.Exit(1)
	}
	httpSrv := &http.Server{
		Addr:              ":" + webPort,
		Handler:           ui.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      600 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mcpserver.Run(server, mcpserver.Config{
			Name:         "go_study",
			Version:      version,
			Port:         mcpPort,
			WriteTimeout: 600 * time.Second,
			Metrics:      engine.FormatMetrics,
		})
	})
	g.Go(func() error {
		slog.Info("web ui listening", slog.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		sessions.Run(gctx, 5*time.Minute)
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}
