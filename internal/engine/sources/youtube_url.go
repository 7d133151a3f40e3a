package sources

import (
	"regexp"
	"strings"
)

// videoIDPatterns are tried in order; the first match wins.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
}

// ExtractVideoID pulls the video id out of a YouTube URL.
// Returns "" when no pattern matches.
func ExtractVideoID(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(rawURL); len(m) >= 2 {
			return m[1]
		}
	}
	return ""
}

// WatchURL is the canonical watch page of a video.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
