package youtube

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSLister lists uploads from a channel's Atom feed. Feeds cost no API
// quota but only carry the newest ~15 videos and no counters, so statistics
// still go through the API client.
type RSSLister struct {
	parser *gofeed.Parser
}

func NewRSSLister() *RSSLister {
	return &RSSLister{parser: gofeed.NewParser()}
}

func feedURL(channelID string) string {
	return "https://www.youtube.com/feeds/videos.xml?channel_id=" + channelID
}

func (f *RSSLister) ListChannelVideos(ctx context.Context, channelID string, since time.Time, max int) ([]Video, error) {
	feed, err := f.parser.ParseURLWithContext(feedURL(channelID), ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching feed of %s: %w", channelID, err)
	}

	videos := make([]Video, 0, len(feed.Items))
	for _, item := range feed.Items {
		pub := time.Now()
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		}
		if !since.IsZero() && pub.Before(since) {
			continue
		}

		id := feedVideoID(item)
		if id == "" {
			continue
		}

		videos = append(videos, Video{
			VideoID:      id,
			ChannelID:    channelID,
			ChannelName:  feed.Title,
			Title:        item.Title,
			Description:  feedDescription(item),
			ThumbnailURL: feedThumbnail(item),
			PublishedAt:  pub,
		})
		if max > 0 && len(videos) >= max {
			break
		}
	}
	return videos, nil
}

// feedVideoID reads the yt:videoId extension, falling back to the
// "yt:video:ID" GUID form.
func feedVideoID(item *gofeed.Item) string {
	if ext, ok := item.Extensions["yt"]["videoId"]; ok && len(ext) > 0 {
		return ext[0].Value
	}
	if strings.HasPrefix(item.GUID, "yt:video:") {
		return strings.TrimPrefix(item.GUID, "yt:video:")
	}
	return ""
}

func feedDescription(item *gofeed.Item) string {
	if groups, ok := item.Extensions["media"]["group"]; ok && len(groups) > 0 {
		if descs, ok := groups[0].Children["description"]; ok && len(descs) > 0 {
			return descs[0].Value
		}
	}
	return item.Description
}

func feedThumbnail(item *gofeed.Item) string {
	if groups, ok := item.Extensions["media"]["group"]; ok && len(groups) > 0 {
		if thumbs, ok := groups[0].Children["thumbnail"]; ok && len(thumbs) > 0 {
			return thumbs[0].Attrs["url"]
		}
	}
	if item.Image != nil {
		return item.Image.URL
	}
	return ""
}
