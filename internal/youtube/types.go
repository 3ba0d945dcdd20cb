package youtube

import (
	"context"
	"time"
)

// Video is the raw per-video metadata a lister returns. Counters live in
// Statistics and are fetched separately.
type Video struct {
	VideoID      string
	ChannelID    string
	ChannelName  string
	Title        string
	Description  string
	ThumbnailURL string
	PublishedAt  time.Time
}

// Statistics holds one video's counters plus the shorts flag derived from
// its duration.
type Statistics struct {
	Views    int64
	Likes    int64
	Comments int64
	IsShort  bool
}

// ChannelOverview summarizes a channel for the channel command.
type ChannelOverview struct {
	ChannelID    string
	Title        string
	ThumbnailURL string
	Subscribers  int64
	TotalViews   int64
	VideoCount   int64
}

// Comment is a top-level comment on a video.
type Comment struct {
	Author    string
	Text      string
	Likes     int64
	Published time.Time
}

// Lister enumerates a channel's uploads, newest first. since trims older
// videos when non-zero; max caps the result when positive.
type Lister interface {
	ListChannelVideos(ctx context.Context, channelID string, since time.Time, max int) ([]Video, error)
}
