package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(videoCount int, nicheLabel, sortLabel, kindLabel string, warnings int, width int, searching, refreshing bool) string {
	left := fmt.Sprintf(" %d videos · %s · sort %s", videoCount, nicheLabel, sortLabel)
	if kindLabel != "all" {
		left += " · " + kindLabel
	}
	if warnings > 0 {
		left += " · " + warnStyle.Render(fmt.Sprintf("%d warning(s)", warnings))
	}

	right := " / search  f niche  v kind  s sort  r refresh  ? help  q quit "

	if searching {
		right = " esc cancel  enter search "
	}
	if refreshing {
		left += " (refreshing...)"
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
