// Package youtube talks to the YouTube Data API v3 and the channel Atom
// feeds. One channel's failure surfaces as an error for that call only;
// callers collect them as warnings.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// The API rejects more than 50 ids per videos.list call and more than
	// 50 results per page.
	maxIDsPerCall = 50
	pageSize      = 50
)

// Sentinel errors mapped from API error reasons.
var (
	ErrNotFound         = errors.New("youtube: not found")
	ErrQuotaExceeded    = errors.New("youtube: quota exceeded")
	ErrCommentsDisabled = errors.New("youtube: comments disabled")
)

// Client calls the Data API v3 with an API key.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(apiKey string, logger zerolog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		log:     logger,
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(endpoint, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) apiError(endpoint string, status int, body []byte) error {
	var e apiErrorBody
	if err := json.Unmarshal(body, &e); err == nil {
		for _, inner := range e.Error.Errors {
			switch inner.Reason {
			case "quotaExceeded", "rateLimitExceeded", "dailyLimitExceeded":
				return ErrQuotaExceeded
			case "commentsDisabled":
				return ErrCommentsDisabled
			case "notFound", "videoNotFound", "channelNotFound", "playlistNotFound":
				return ErrNotFound
			}
		}
		if e.Error.Message != "" {
			return fmt.Errorf("youtube: %s: %s (status %d)", endpoint, e.Error.Message, status)
		}
	}
	if status == http.StatusNotFound {
		return ErrNotFound
	}
	return fmt.Errorf("youtube: %s returned status %d", endpoint, status)
}

type channelListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title      string `json:"title"`
			Thumbnails struct {
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount       string `json:"viewCount"`
			SubscriberCount string `json:"subscriberCount"`
			VideoCount      string `json:"videoCount"`
		} `json:"statistics"`
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			PublishedAt  time.Time `json:"publishedAt"`
			ChannelID    string    `json:"channelId"`
			ChannelTitle string    `json:"channelTitle"`
			Title        string    `json:"title"`
			Description  string    `json:"description"`
			Thumbnails   struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
			ResourceID struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

type videoListResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type commentThreadsResponse struct {
	Items []struct {
		Snippet struct {
			TopLevelComment struct {
				Snippet struct {
					AuthorDisplayName string    `json:"authorDisplayName"`
					TextDisplay       string    `json:"textDisplay"`
					LikeCount         int64     `json:"likeCount"`
					PublishedAt       time.Time `json:"publishedAt"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}

// uploadsPlaylistID resolves a channel's uploads playlist.
func (c *Client) uploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", channelID)

	var resp channelListResponse
	if err := c.get(ctx, "channels", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
	}
	uploads := resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return "", fmt.Errorf("channel %s has no uploads playlist: %w", channelID, ErrNotFound)
	}
	return uploads, nil
}

// ListChannelVideos pages through a channel's uploads playlist, newest
// first, following nextPageToken until exhausted, max is reached, or an
// item predates since.
func (c *Client) ListChannelVideos(ctx context.Context, channelID string, since time.Time, max int) ([]Video, error) {
	uploads, err := c.uploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	var (
		videos    []Video
		pageToken string
	)
	for {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("playlistId", uploads)
		params.Set("maxResults", strconv.Itoa(pageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp playlistItemsResponse
		if err := c.get(ctx, "playlistItems", params, &resp); err != nil {
			return nil, fmt.Errorf("listing uploads of %s: %w", channelID, err)
		}

		for _, item := range resp.Items {
			sn := item.Snippet
			if !since.IsZero() && sn.PublishedAt.Before(since) {
				// Uploads are ordered newest first; everything after
				// this item is older still.
				return videos, nil
			}
			videos = append(videos, Video{
				VideoID:      sn.ResourceID.VideoID,
				ChannelID:    sn.ChannelID,
				ChannelName:  sn.ChannelTitle,
				Title:        sn.Title,
				Description:  sn.Description,
				ThumbnailURL: sn.Thumbnails.Medium.URL,
				PublishedAt:  sn.PublishedAt,
			})
			if max > 0 && len(videos) >= max {
				return videos, nil
			}
		}

		if resp.NextPageToken == "" {
			return videos, nil
		}
		pageToken = resp.NextPageToken
	}
}

// GetStatistics fetches counters for the given video ids, chunking requests
// to the API's 50-id limit. Ids the API does not return are absent from the
// result.
func (c *Client) GetStatistics(ctx context.Context, videoIDs []string) (map[string]Statistics, error) {
	stats := make(map[string]Statistics, len(videoIDs))

	for start := 0; start < len(videoIDs); start += maxIDsPerCall {
		end := start + maxIDsPerCall
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		chunk := videoIDs[start:end]

		params := url.Values{}
		params.Set("part", "statistics,contentDetails")
		params.Set("id", joinIDs(chunk))

		var resp videoListResponse
		if err := c.get(ctx, "videos", params, &resp); err != nil {
			return nil, fmt.Errorf("fetching statistics: %w", err)
		}

		for _, item := range resp.Items {
			d := parseISODuration(item.ContentDetails.Duration)
			stats[item.ID] = Statistics{
				Views:    parseCount(item.Statistics.ViewCount),
				Likes:    parseCount(item.Statistics.LikeCount),
				Comments: parseCount(item.Statistics.CommentCount),
				IsShort:  isShort(d),
			}
		}
	}

	c.log.Debug().Int("requested", len(videoIDs)).Int("returned", len(stats)).
		Msg("fetched video statistics")
	return stats, nil
}

// GetChannelOverview returns channel-level metadata and lifetime counters.
func (c *Client) GetChannelOverview(ctx context.Context, channelID string) (*ChannelOverview, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", channelID)

	var resp channelListResponse
	if err := c.get(ctx, "channels", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
	}

	item := resp.Items[0]
	return &ChannelOverview{
		ChannelID:    item.ID,
		Title:        item.Snippet.Title,
		ThumbnailURL: item.Snippet.Thumbnails.Default.URL,
		Subscribers:  parseCount(item.Statistics.SubscriberCount),
		TotalViews:   parseCount(item.Statistics.ViewCount),
		VideoCount:   parseCount(item.Statistics.VideoCount),
	}, nil
}

// GetTopComments returns up to max top-level comments, most relevant first.
// Videos with comments turned off yield ErrCommentsDisabled.
func (c *Client) GetTopComments(ctx context.Context, videoID string, max int) ([]Comment, error) {
	if max <= 0 {
		max = 10
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("order", "relevance")
	params.Set("maxResults", strconv.Itoa(max))

	var resp commentThreadsResponse
	if err := c.get(ctx, "commentThreads", params, &resp); err != nil {
		return nil, err
	}

	comments := make([]Comment, 0, len(resp.Items))
	for _, item := range resp.Items {
		sn := item.Snippet.TopLevelComment.Snippet
		comments = append(comments, Comment{
			Author:    sn.AuthorDisplayName,
			Text:      sn.TextDisplay,
			Likes:     sn.LikeCount,
			Published: sn.PublishedAt,
		})
	}
	return comments, nil
}

// parseCount reads the API's string-encoded counters. Hidden counters (an
// empty or absent field) read as zero.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func joinIDs(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += id
	}
	return out
}
