package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ytscout/ytscout/internal/store"
)

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

// formatCount renders large counters compactly: 1234 -> 1.2K, 998000 -> 998K.
func formatCount(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func formatScore(s float64) string {
	return fmt.Sprintf("%+.2f", s)
}

func renderListItem(v store.Snapshot, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(v.Title, width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(v.Title, width-4))
	}

	short := ""
	if v.IsShort {
		short = " · short"
	}
	meta := "  " + itemChannelStyle.Render(v.ChannelName) +
		" " + itemScoreStyle.Render(formatScore(v.OutlierScore)) +
		" " + itemTimeStyle.Render("· "+formatCount(v.Views)+" views · "+relativeTime(v.PublishedAt)+short)

	return title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func renderList(videos []store.Snapshot, cursor int, height int, width int) string {
	if len(videos) == 0 {
		return lipglossCenter("No videos found", width, height)
	}

	// Each item takes 2 lines plus a blank separator.
	perItem := 3
	visible := height / perItem
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(videos) {
		end = len(videos)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(videos[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		detailDimStyle.Render(s))
}
