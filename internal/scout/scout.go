// Package scout runs the query pipeline: consult the cache, refetch when
// stale, score the merged batch, and return the filtered view.
package scout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytscout/ytscout/internal/config"
	"github.com/ytscout/ytscout/internal/freshness"
	"github.com/ytscout/ytscout/internal/outlier"
	"github.com/ytscout/ytscout/internal/store"
	"github.com/ytscout/ytscout/internal/youtube"
)

// StatsFetcher fetches per-video counters.
type StatsFetcher interface {
	GetStatistics(ctx context.Context, videoIDs []string) (map[string]youtube.Statistics, error)
}

type Finder struct {
	store  *store.Store
	lister youtube.Lister
	stats  StatsFetcher
	log    zerolog.Logger
}

func New(s *store.Store, lister youtube.Lister, stats StatsFetcher, logger zerolog.Logger) *Finder {
	return &Finder{store: s, lister: lister, stats: stats, log: logger}
}

type FindOpts struct {
	// Channels is the niche's channel set. It both filters the cached view
	// and names the refetch targets; empty means browse the whole cache
	// with no refetch.
	Channels      []config.Channel
	Keyword       string
	MinScore      float64
	Kind          string
	SortBy        string
	Metric        string
	MaxAge        time.Duration
	MaxPerChannel int
	// Since trims listings to videos published after it, when non-zero.
	Since time.Time
	// ForceRefresh bypasses the freshness check entirely.
	ForceRefresh bool
}

type Result struct {
	Snapshots []store.Snapshot
	// Warnings carries per-channel and per-call failures; they never abort
	// the whole operation.
	Warnings  []string
	Refreshed bool
}

func (o FindOpts) queryOpts() store.QueryOpts {
	ids := make([]string, len(o.Channels))
	for i, ch := range o.Channels {
		ids[i] = ch.ChannelID
	}
	if len(ids) == 0 {
		ids = nil
	}
	return store.QueryOpts{
		ChannelIDs: ids,
		Keyword:    o.Keyword,
		MinScore:   o.MinScore,
		Kind:       o.Kind,
		SortBy:     o.SortBy,
	}
}

// Find answers a query from the cache, refetching the niche first when the
// cached batch is stale or a refresh is forced.
func (f *Finder) Find(ctx context.Context, opts FindOpts) (Result, error) {
	queryOpts := opts.queryOpts()

	snapshots, err := f.store.Query(queryOpts)
	if err != nil {
		return Result{}, err
	}

	if !opts.ForceRefresh && !freshness.Stale(snapshots, opts.MaxAge) {
		return Result{Snapshots: snapshots}, nil
	}
	if len(opts.Channels) == 0 {
		// Nothing to refetch against; serve whatever is cached.
		return Result{Snapshots: snapshots}, nil
	}

	warnings := f.refresh(ctx, opts)

	snapshots, err = f.store.Query(queryOpts)
	if err != nil {
		return Result{Warnings: warnings, Refreshed: true}, err
	}
	return Result{Snapshots: snapshots, Warnings: warnings, Refreshed: true}, nil
}

// refresh lists every channel in the niche, merges the listings, scores the
// entire merged batch once, and upserts the result. Scoring never runs
// per-channel — scores must be comparable within one decision.
func (f *Finder) refresh(ctx context.Context, opts FindOpts) []string {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		merged   []youtube.Video
		warnings []string
	)

	// Listings are independent per channel; only the score-and-upsert
	// step below is serialized.
	for _, ch := range opts.Channels {
		wg.Add(1)
		go func(ch config.Channel) {
			defer wg.Done()
			videos, err := f.lister.ListChannelVideos(ctx, ch.ChannelID, opts.Since, opts.MaxPerChannel)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("channel %s: %v", channelLabel(ch), err))
				f.log.Warn().Str("channel", ch.ChannelID).Err(err).Msg("listing failed")
				return
			}
			for i := range videos {
				if videos[i].ChannelName == "" {
					videos[i].ChannelName = ch.ChannelName
				}
			}
			merged = append(merged, videos...)
		}(ch)
	}
	wg.Wait()

	// Overlapping sub-fetches may repeat a video; keep one row per id.
	seen := make(map[string]bool, len(merged))
	videos := merged[:0]
	for _, v := range merged {
		if v.VideoID == "" || seen[v.VideoID] {
			continue
		}
		seen[v.VideoID] = true
		videos = append(videos, v)
	}

	if len(videos) == 0 {
		return warnings
	}

	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.VideoID
	}

	stats, err := f.stats.GetStatistics(ctx, ids)
	if err != nil {
		// Without counters there is nothing meaningful to score or cache;
		// leave the previous snapshots untouched.
		warnings = append(warnings, fmt.Sprintf("statistics: %v", err))
		f.log.Warn().Err(err).Msg("statistics fetch failed")
		return warnings
	}

	snapshots := make([]store.Snapshot, 0, len(videos))
	metrics := make([]outlier.Metric, 0, len(videos))
	for _, v := range videos {
		st := stats[v.VideoID]
		snap := store.Snapshot{
			VideoID:      v.VideoID,
			ChannelID:    v.ChannelID,
			ChannelName:  v.ChannelName,
			Title:        v.Title,
			Description:  v.Description,
			ThumbnailURL: v.ThumbnailURL,
			PublishedAt:  v.PublishedAt,
			Views:        st.Views,
			Likes:        st.Likes,
			Comments:     st.Comments,
			IsShort:      st.IsShort,
		}
		snapshots = append(snapshots, snap)
		metrics = append(metrics, outlier.Metric{ID: v.VideoID, Value: snap.MetricValue(opts.Metric)})
	}

	scores := outlier.Scores(metrics)
	for i := range snapshots {
		snapshots[i].OutlierScore = scores[snapshots[i].VideoID]
	}

	if err := f.store.Upsert(snapshots); err != nil {
		warnings = append(warnings, fmt.Sprintf("caching snapshots: %v", err))
		f.log.Error().Err(err).Msg("upsert failed")
		return warnings
	}

	f.log.Info().Int("videos", len(snapshots)).Int("channels", len(opts.Channels)).
		Str("metric", opts.Metric).Msg("refreshed niche")
	return warnings
}

func channelLabel(ch config.Channel) string {
	if ch.ChannelName != "" {
		return ch.ChannelName
	}
	return ch.ChannelID
}
