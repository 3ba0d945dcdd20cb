package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// filterBar selects the active niche. Exactly one niche (or "All") is
// active at a time; the niche defines both the channel filter and the
// refetch targets.
type filterBar struct {
	niches       []string
	active       string
	filterMode   bool
	filterCursor int
}

func newFilterBar(niches []string) filterBar {
	return filterBar{niches: niches}
}

// entries returns the selectable labels, "All" first.
func (f *filterBar) entries() []string {
	return append([]string{"All"}, f.niches...)
}

func (f *filterBar) selectCurrent() {
	entries := f.entries()
	if f.filterCursor >= len(entries) {
		return
	}
	if f.filterCursor == 0 {
		f.active = ""
		return
	}
	f.active = entries[f.filterCursor]
}

func (f *filterBar) activeNiche() string {
	return f.active
}

func (f *filterBar) activeLabel() string {
	if f.active == "" {
		return "All"
	}
	return f.active
}

func (f *filterBar) moveLeft() {
	if f.filterCursor > 0 {
		f.filterCursor--
	}
}

func (f *filterBar) moveRight() {
	if f.filterCursor < len(f.entries())-1 {
		f.filterCursor++
	}
}

func (f *filterBar) render(width int) string {
	sep := tabSeparatorStyle.Render(" · ")
	var parts []string
	for i, name := range f.entries() {
		label := name
		selected := (i == 0 && f.active == "") || (i > 0 && name == f.active)
		if selected {
			label = "● " + label
		}
		if f.filterMode && i == f.filterCursor {
			parts = append(parts, tabActiveStyle.Render(label))
		} else {
			parts = append(parts, tabInactiveStyle.Render(label))
		}
	}
	bar := strings.Join(parts, sep)
	return lipgloss.NewStyle().Width(width).Render(bar)
}
