package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go_study/internal/engine"
)

const (
	// ytInitialPlayerResponseMarker marks the start of the player response JSON in watch page HTML.
	ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "
	ytMaxPageBytes                = 6 * 1024 * 1024
)

// watchPage is the parsed part of a YouTube watch page.
type watchPage struct {
	Title  string
	Player playerResp
}

// fetchWatchPage downloads the watch page over plain HTTP, falling back to the
// stealth browser client when one is configured.
func fetchWatchPage(ctx context.Context, videoID string) ([]byte, error) {
	watchURL := WatchURL(videoID)

	body, err := fetchWatchPageHTTP(ctx, watchURL)
	if err == nil {
		return body, nil
	}
	bc := engine.Cfg.BrowserClient
	if bc == nil {
		return nil, err
	}
	slog.Warn("youtube: watch page fetch failed, trying stealth client",
		slog.String("id", videoID), slog.Any("err", err))

	headers := engine.ChromeHeaders()
	headers["accept-language"] = "en-US,en;q=0.9"
	data, _, status, berr := bc.Do(http.MethodGet, watchURL, headers, nil)
	if berr != nil {
		return nil, fmt.Errorf("stealth watch page: %w", berr)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("stealth watch page status %d", status)
	}
	return data, nil
}

func fetchWatchPageHTTP(ctx context.Context, watchURL string) ([]byte, error) {
	resp, err := engine.RetryHTTP(ctx, engine.HTTPRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.RandomUserAgent())
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watch page status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, ytMaxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read watch page: %w", err)
	}
	return body, nil
}

// parseWatchPage extracts the title and ytInitialPlayerResponse from watch page HTML.
func parseWatchPage(body []byte) (watchPage, error) {
	var page watchPage
	page.Title = pageTitle(body)

	idx := bytes.Index(body, []byte(ytInitialPlayerResponseMarker))
	if idx < 0 {
		return page, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return page, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}
	if err := json.Unmarshal(jsonData, &page.Player); err != nil {
		return page, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	if page.Title == "" {
		page.Title = page.Player.title()
	}
	return page, nil
}

// pageTitle reads og:title, then <title> without the " - YouTube" suffix.
func pageTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	if t, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	t := strings.TrimSpace(doc.Find("title").First().Text())
	return strings.TrimSpace(strings.TrimSuffix(t, "- YouTube"))
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}
