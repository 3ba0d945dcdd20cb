package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ytscout/ytscout/internal/store"
	"github.com/ytscout/ytscout/internal/youtube"
)

// renderDetail draws the right-hand pane: counters, score, description and
// the lazily loaded top comments.
func renderDetail(v *store.Snapshot, comments []youtube.Comment, commentsNote string, width, height, scroll int) string {
	if v == nil {
		return lipglossCenter("Select a video", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := detailTitleStyle.Width(contentWidth).Render(v.Title)
	channel := detailChannelStyle.Render(
		fmt.Sprintf("%s · %s", v.ChannelName, v.PublishedAt.Format("Jan 2, 2006")),
	)

	kind := "longform"
	if v.IsShort {
		kind = "short"
	}
	stats := detailStatStyle.Render(fmt.Sprintf(
		"%s views · %s likes · %s comments · %s",
		formatCount(v.Views), formatCount(v.Likes), formatCount(v.Comments), kind,
	))
	score := itemScoreStyle.Render("outlier score " + formatScore(v.OutlierScore))

	desc := v.Description
	if desc == "" {
		desc = "(No description available)"
	}
	body := detailBodyStyle.Width(contentWidth).Render(wrapText(desc, contentWidth))

	sections := []string{title, channel, stats, score, "", body}

	if commentsNote != "" {
		sections = append(sections, "", detailDimStyle.Render(commentsNote))
	}
	if len(comments) > 0 {
		sections = append(sections, "", detailStatStyle.Render("Top comments"))
		for _, c := range comments {
			author := commentAuthorStyle.Render(c.Author)
			meta := itemTimeStyle.Render(fmt.Sprintf(" · %s likes · %s", formatCount(c.Likes), relativeTime(c.Published)))
			sections = append(sections, author+meta,
				detailBodyStyle.Width(contentWidth).Render(wrapText(c.Text, contentWidth)))
		}
	}

	sections = append(sections, "", detailDimStyle.Render("Watch: "+youtube.WatchURL(v.VideoID)))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	// Apply scroll offset
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	// Pad to fill height
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
