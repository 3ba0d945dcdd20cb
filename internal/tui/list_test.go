package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/ytscout/ytscout/internal/store"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hi", 2, "hi"},
		{"hello", 3, "hel"},
		{"", 5, ""},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateStr(tt.in, tt.n); got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1234, "1.2K"},
		{998000, "998.0K"},
		{1500000, "1.5M"},
		{2300000000, "2.3B"},
	}
	for _, tt := range tests {
		if got := formatCount(tt.in); got != tt.want {
			t.Errorf("formatCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatScore(t *testing.T) {
	if got := formatScore(673.2565); got != "+673.26" {
		t.Errorf("formatScore = %q, want %q", got, "+673.26")
	}
	if got := formatScore(-0.67); got != "-0.67" {
		t.Errorf("formatScore = %q, want %q", got, "-0.67")
	}
	if got := formatScore(0); got != "+0.00" {
		t.Errorf("formatScore = %q, want %q", got, "+0.00")
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-48 * time.Hour), "2d"},
	}
	for _, tt := range tests {
		if got := relativeTime(tt.t); got != tt.want {
			t.Errorf("relativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}

	old := now.Add(-30 * 24 * time.Hour)
	if got := relativeTime(old); got != old.Format("Jan 2") {
		t.Errorf("relativeTime(old) = %q, want %q", got, old.Format("Jan 2"))
	}
}

func TestRenderListEmpty(t *testing.T) {
	out := renderList(nil, 0, 10, 40)
	if !strings.Contains(out, "No videos found") {
		t.Errorf("empty list should render placeholder, got %q", out)
	}
}

func TestRenderListItemMarksShorts(t *testing.T) {
	v := store.Snapshot{
		VideoID:     "abc12345678",
		Title:       "Quick clip",
		ChannelName: "Clips",
		Views:       1200,
		PublishedAt: time.Now().Add(-2 * time.Hour),
		IsShort:     true,
	}
	out := renderListItem(v, false, 60)
	if !strings.Contains(out, "short") {
		t.Errorf("short video should be marked, got %q", out)
	}
}
