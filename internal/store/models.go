package store

import "time"

// Snapshot is the point-in-time record of one video. A re-fetch fully
// replaces the previous row; no history is kept.
type Snapshot struct {
	VideoID      string
	ChannelID    string
	ChannelName  string
	Title        string
	Description  string
	ThumbnailURL string
	PublishedAt  time.Time
	FetchedAt    time.Time
	Views        int64
	Likes        int64
	Comments     int64
	OutlierScore float64
	IsShort      bool
}

// Metric names accepted by MetricValue and scout.FindOpts.
const (
	MetricViews    = "views"
	MetricLikes    = "likes"
	MetricComments = "comments"
)

// MetricValue returns the counter selected by metric, defaulting to views.
func (s Snapshot) MetricValue(metric string) float64 {
	switch metric {
	case MetricLikes:
		return float64(s.Likes)
	case MetricComments:
		return float64(s.Comments)
	default:
		return float64(s.Views)
	}
}

// Video kind filters.
const (
	KindAll      = ""
	KindLongform = "longform"
	KindShorts   = "shorts"
)

type QueryOpts struct {
	// ChannelIDs restricts results to the given channels. Nil means all.
	ChannelIDs []string
	// Keyword is split on whitespace; every token must match title or
	// description, case-insensitively.
	Keyword string
	// MinScore filters to outlier_score >= MinScore when non-zero.
	MinScore float64
	// Kind is KindAll, KindLongform or KindShorts.
	Kind string
	// SortBy is one of "score", "views", "likes", "comments", "published".
	// Unknown values fall back to "score". Always descending.
	SortBy string
	Limit  int
}
