package youtube

import (
	"net/url"
	"strings"
)

// ExtractVideoID pulls a video id out of the URL forms operators paste:
// watch URLs, youtu.be links, shorts links, or a bare 11-character id.
func ExtractVideoID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if !strings.Contains(raw, "/") && !strings.Contains(raw, "?") {
		if len(raw) == 11 {
			return raw, true
		}
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	if u.Host == "youtu.be" {
		id := strings.Trim(u.Path, "/")
		return id, id != ""
	}

	if id := u.Query().Get("v"); id != "" {
		return id, true
	}

	if i := strings.Index(u.Path, "/shorts/"); i >= 0 {
		id := strings.Trim(u.Path[i+len("/shorts/"):], "/")
		return id, id != ""
	}

	return "", false
}

// ExtractChannelID pulls a channel id out of a /channel/ URL or accepts a
// bare UC... id. Handles (@name) need an API lookup and are not resolved
// here.
func ExtractChannelID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if strings.HasPrefix(raw, "UC") && !strings.Contains(raw, "/") {
		return raw, true
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if i := strings.Index(u.Path, "/channel/"); i >= 0 {
		id := strings.Trim(u.Path[i+len("/channel/"):], "/")
		if j := strings.Index(id, "/"); j >= 0 {
			id = id[:j]
		}
		return id, id != ""
	}

	return "", false
}

// WatchURL builds the watch-page URL for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
}
