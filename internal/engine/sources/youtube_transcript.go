package sources

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_study/internal/engine"
)

// YouTube transcript fetching.
// Primary:  watch page ytInitialPlayerResponse → caption XML  (works from any IP)
// Fallback: /next → engagement panel → /get_transcript        (works from datacenter IPs)
// Fallback: ANDROID Innertube /player → captionTracks          (works from non-blocked IPs)

// Transcript is the caption text of one video.
type Transcript struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title,omitempty"`
	Text    string `json:"text"`
}

// getTranscriptRE extracts the continuation token from a raw /next JSON response.
var getTranscriptRE = regexp.MustCompile(`"getTranscriptEndpoint":\{"params":"([^"]+)"`)

func extractTranscriptToken(data []byte) (string, error) {
	if m := getTranscriptRE.FindSubmatch(data); len(m) >= 2 {
		// The params value in the /next JSON response is URL-encoded.
		// /get_transcript expects the decoded (raw base64) form.
		decoded, err := url.QueryUnescape(string(m[1]))
		if err != nil {
			return string(m[1]), nil
		}
		return decoded, nil
	}
	return "", errors.New("getTranscriptEndpoint not found in engagement panels")
}

// parseTranscriptSegments extracts plain text from a /get_transcript JSON response.
func parseTranscriptSegments(resp ytGetTranscriptResp) string {
	var parts []string
	for _, action := range resp.Actions {
		if action.UpdateEngagementPanelAction == nil {
			continue
		}
		segs := action.UpdateEngagementPanelAction.Content.
			TranscriptRenderer.Content.
			TranscriptSearchPanelRenderer.Body.
			TranscriptSegmentListRenderer.InitialSegments
		for _, seg := range segs {
			if seg.TranscriptSegmentRenderer == nil {
				continue
			}
			for _, run := range seg.TranscriptSegmentRenderer.Snippet.Runs {
				parts = append(parts, engine.CleanHTML(run.Text))
			}
		}
	}
	return engine.JoinNonEmpty(parts, " ")
}

// parseTimedText joins the lines of a timedtext XML document with single spaces.
func parseTimedText(body []byte) (string, error) {
	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}
	parts := make([]string, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		parts = append(parts, engine.CleanHTML(line.Text))
	}
	return engine.JoinNonEmpty(parts, " "), nil
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack selects the best usable caption track for the given language preferences.
// Skips tracks that require PoToken, which only work in a browser.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}
	// 1. Manual track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	// 2. Auto-generated track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	// 3. Any English track
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// fetchTimedText fetches and parses a YouTube timedtext XML caption URL.
func fetchTimedText(ctx context.Context, baseURL string) (string, error) {
	resp, err := engine.RetryHTTP(ctx, engine.HTTPRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timedtext status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return "", err
	}
	return parseTimedText(body)
}

// transcriptFromTracks picks a caption track and downloads it.
func transcriptFromTracks(ctx context.Context, tracks []captionTrack, langs []string) (string, error) {
	if len(tracks) == 0 {
		return "", errors.New("no caption tracks")
	}
	track, ok := pickBestTrack(tracks, langs)
	if !ok {
		return "", errors.New("all caption tracks require PoToken")
	}
	text, err := fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errors.New("empty caption track")
	}
	return text, nil
}

// fetchTranscriptViaPageScrape scrapes the watch page and follows its caption tracks.
// The page title is returned even when captions are missing.
func fetchTranscriptViaPageScrape(ctx context.Context, videoID string, langs []string) (text, title string, err error) {
	body, err := fetchWatchPage(ctx, videoID)
	if err != nil {
		return "", "", err
	}
	page, err := parseWatchPage(body)
	if err != nil {
		return "", page.Title, err
	}
	text, err = transcriptFromTracks(ctx, page.Player.tracks(), langs)
	return text, page.Title, err
}

// fetchTranscriptViaEngagementPanel fetches a transcript via:
//  1. POST /next → get engagementPanels containing transcript continuation token
//  2. POST /get_transcript with the token → JSON segments
//
// This approach works from datacenter IPs where /player returns LOGIN_REQUIRED.
func fetchTranscriptViaEngagementPanel(ctx context.Context, videoID string) (string, error) {
	visitorData := generateVisitorData()
	headers := webHeaders(visitorData)

	nextData, err := postInnerTube(ctx, ytNextURL, map[string]any{
		"videoId": videoID,
		"context": ytWebContext(visitorData),
	}, headers)
	if err != nil {
		return "", fmt.Errorf("/next: %w", err)
	}

	token, err := extractTranscriptToken(nextData)
	if err != nil {
		return "", fmt.Errorf("token: %w", err)
	}

	transcriptData, err := postInnerTube(ctx, ytGetTranscriptURL, map[string]any{
		"params":  token,
		"context": ytWebContext(visitorData),
	}, headers)
	if err != nil {
		return "", fmt.Errorf("/get_transcript: %w", err)
	}

	var transcriptResp ytGetTranscriptResp
	if err := json.Unmarshal(transcriptData, &transcriptResp); err != nil {
		return "", fmt.Errorf("decode transcript: %w", err)
	}

	text := parseTranscriptSegments(transcriptResp)
	if text == "" {
		return "", errors.New("empty transcript segments")
	}
	return text, nil
}

// fetchTranscriptViaPlayer uses the ANDROID Innertube /player endpoint.
func fetchTranscriptViaPlayer(ctx context.Context, videoID string, langs []string) (text, title string, err error) {
	data, err := postInnerTube(ctx, ytInnertubeURL, innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	}, androidHeaders())
	if err != nil {
		return "", "", fmt.Errorf("android innertube: %w", err)
	}

	var pr playerResp
	if err := json.Unmarshal(data, &pr); err != nil {
		return "", "", fmt.Errorf("decode player: %w", err)
	}
	if pr.Captions == nil {
		if pr.PlayabilityStatus != nil && pr.PlayabilityStatus.Reason != "" {
			return "", pr.title(), fmt.Errorf("captions unavailable: %s", pr.PlayabilityStatus.Reason)
		}
		return "", pr.title(), errors.New("no captions in player response")
	}
	text, err = transcriptFromTracks(ctx, pr.tracks(), langs)
	return text, pr.title(), err
}

// FetchYouTubeTranscript fetches the transcript for a video, trying every strategy in turn.
// Results are cached by video id and language preference.
func FetchYouTubeTranscript(ctx context.Context, videoID string, langs []string) (Transcript, error) {
	key := engine.CacheKey(append([]string{"transcript", videoID}, langs...)...)
	if t, ok := engine.CacheLoadJSON[Transcript](ctx, key); ok {
		return t, nil
	}

	engine.IncrTranscript()
	t, err := fetchTranscript(ctx, videoID, langs)
	if err != nil {
		engine.IncrTranscriptError()
		return Transcript{VideoID: videoID}, err
	}
	engine.CacheStoreJSON(ctx, key, t)
	return t, nil
}

func fetchTranscript(ctx context.Context, videoID string, langs []string) (Transcript, error) {
	t := Transcript{VideoID: videoID}

	text, title, err := fetchTranscriptViaPageScrape(ctx, videoID, langs)
	t.Title = title
	if err == nil {
		t.Text = text
		return t, nil
	}
	slog.Warn("youtube: page scrape failed, trying engagement panel",
		slog.String("id", videoID), slog.Any("err", err))
	if ctx.Err() != nil {
		return t, ctx.Err()
	}

	if text, err := fetchTranscriptViaEngagementPanel(ctx, videoID); err == nil {
		t.Text = text
		return t, nil
	} else {
		slog.Warn("youtube: engagement panel failed, trying player",
			slog.String("id", videoID), slog.Any("err", err))
	}
	if ctx.Err() != nil {
		return t, ctx.Err()
	}

	text, title, err = fetchTranscriptViaPlayer(ctx, videoID, langs)
	if t.Title == "" {
		t.Title = title
	}
	if err != nil {
		return t, fmt.Errorf("%w: %v", engine.ErrNoTranscript, err)
	}
	t.Text = text
	return t, nil
}
