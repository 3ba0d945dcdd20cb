// Package browser opens video watch pages in the operator's browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/ytscout/ytscout/internal/youtube"
)

// OpenVideo opens the watch page for a video id.
func OpenVideo(videoID string) error {
	return Open(youtube.WatchURL(videoID))
}

// Open launches the default browser on rawURL. Only http and https schemes
// are allowed.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL).Start()
	case "linux":
		return exec.Command("xdg-open", rawURL).Start()
	case "windows":
		// Use rundll32 instead of cmd /c start to avoid shell interpretation
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL).Start()
	default:
		return exec.Command("xdg-open", rawURL).Start()
	}
}
