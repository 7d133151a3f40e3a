package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
)

// Setup builds the clients c leaves empty, then calls Init and InitCache.
// The returned close function releases the model and archive clients.
// A missing API key for the default provider is returned as ErrMissingAPIKey.
func Setup(ctx context.Context, c Config) (func(), error) {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		}
	}
	if c.BrowserClient == nil {
		c.BrowserClient = newBrowserClient()
	}

	var closers []io.Closer
	if c.LLM == nil {
		m, err := NewModel(ctx, c)
		if err != nil {
			return nil, err
		}
		if cl, ok := m.(io.Closer); ok {
			closers = append(closers, cl)
		}
		c.LLM = m
	}

	if c.Archive == nil && c.ArtifactBucket != "" {
		ar, err := NewGCSArchiver(ctx, c.ArtifactBucket)
		if err != nil {
			slog.Warn("archive init failed, artifacts will not be archived", slog.Any("error", err))
		} else {
			c.Archive = ar
			closers = append(closers, ar)
			slog.Info("artifact archive enabled", slog.String("bucket", c.ArtifactBucket))
		}
	}

	Init(c)
	InitCache(env.Str("REDIS_URL", ""), env.Duration("CACHE_TTL", 6*time.Hour), c.CacheMaxEntries, c.CacheCleanupInterval)

	slog.Info("engine ready",
		slog.String("provider", c.LLMProvider),
		slog.String("model", c.LLMModel),
		slog.Int("chunk_chars", cfg.ChunkChars),
		slog.Duration("chunk_delay", cfg.ChunkDelay))

	return func() {
		var errs []error
		for _, cl := range closers {
			errs = append(errs, cl.Close())
		}
		if err := errors.Join(errs...); err != nil {
			slog.Warn("engine close", slog.Any("error", err))
		}
	}, nil
}

// newBrowserClient builds the stealth client used when plain watch page fetches are blocked.
func newBrowserClient() *BrowserClient {
	opts := []stealth.ClientOption{stealth.WithTimeout(15)}

	if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
		pool, err := proxypool.NewWebshare(apiKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := stealth.NewClient(opts...)
	if err != nil {
		slog.Error("stealth client init failed", slog.Any("error", err))
		return nil
	}
	slog.Info("stealth browser client initialized")
	return bc
}
