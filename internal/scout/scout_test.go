package scout

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytscout/ytscout/internal/config"
	"github.com/ytscout/ytscout/internal/store"
	"github.com/ytscout/ytscout/internal/youtube"
)

type fakeLister struct {
	mu     sync.Mutex
	calls  int
	videos map[string][]youtube.Video
	errs   map[string]error
}

func (l *fakeLister) ListChannelVideos(ctx context.Context, channelID string, since time.Time, max int) ([]youtube.Video, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	if err := l.errs[channelID]; err != nil {
		return nil, err
	}
	return l.videos[channelID], nil
}

func (l *fakeLister) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

type fakeStats struct {
	stats map[string]youtube.Statistics
	err   error
}

func (s *fakeStats) GetStatistics(ctx context.Context, videoIDs []string) (map[string]youtube.Statistics, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]youtube.Statistics, len(videoIDs))
	for _, id := range videoIDs {
		if st, ok := s.stats[id]; ok {
			out[id] = st
		}
	}
	return out, nil
}

func testFinder(t *testing.T, lister *fakeLister, stats *fakeStats) *Finder {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return New(s, lister, stats, zerolog.Nop())
}

func video(id, channelID, title string) youtube.Video {
	return youtube.Video{
		VideoID:     id,
		ChannelID:   channelID,
		Title:       title,
		PublishedAt: time.Now().Add(-48 * time.Hour),
	}
}

func twoChannelFixture() (*fakeLister, *fakeStats) {
	lister := &fakeLister{
		videos: map[string][]youtube.Video{
			"UC1": {video("A", "UC1", "First upload"), video("B", "UC1", "Second upload")},
			"UC2": {video("C", "UC2", "Viral hit")},
		},
		errs: map[string]error{},
	}
	stats := &fakeStats{stats: map[string]youtube.Statistics{
		"A": {Views: 1000, Likes: 10, Comments: 1},
		"B": {Views: 2000, Likes: 20, Comments: 2},
		"C": {Views: 1000000, Likes: 90000, Comments: 4000},
	}}
	return lister, stats
}

var twoChannels = []config.Channel{
	{ChannelID: "UC1", ChannelName: "Alpha"},
	{ChannelID: "UC2", ChannelName: "Beta"},
}

func TestFindScoresWholeMergedBatch(t *testing.T) {
	lister, stats := twoChannelFixture()
	f := testFinder(t, lister, stats)

	res, err := f.Find(context.Background(), FindOpts{
		Channels: twoChannels,
		MaxAge:   24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !res.Refreshed {
		t.Error("empty cache should have triggered a refresh")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
	if len(res.Snapshots) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(res.Snapshots))
	}

	// Scores come from one batch spanning both channels: median 2000,
	// MAD 1000. Per-channel scoring would give entirely different values.
	want := map[string]float64{"A": -0.67, "B": 0, "C": 673.26}
	for _, v := range res.Snapshots {
		if v.OutlierScore != want[v.VideoID] {
			t.Errorf("score[%s] = %v, want %v", v.VideoID, v.OutlierScore, want[v.VideoID])
		}
	}

	// Default sort is score descending.
	if res.Snapshots[0].VideoID != "C" {
		t.Errorf("expected C first, got %s", res.Snapshots[0].VideoID)
	}
}

func TestFindServesFreshCache(t *testing.T) {
	lister, stats := twoChannelFixture()
	f := testFinder(t, lister, stats)
	opts := FindOpts{Channels: twoChannels, MaxAge: 24 * time.Hour}

	if _, err := f.Find(context.Background(), opts); err != nil {
		t.Fatalf("first find: %v", err)
	}
	callsAfterFirst := lister.callCount()

	res, err := f.Find(context.Background(), opts)
	if err != nil {
		t.Fatalf("second find: %v", err)
	}
	if res.Refreshed {
		t.Error("fresh cache must not refetch")
	}
	if lister.callCount() != callsAfterFirst {
		t.Errorf("lister called again on cache hit: %d -> %d", callsAfterFirst, lister.callCount())
	}
	if len(res.Snapshots) != 3 {
		t.Errorf("expected cached snapshots, got %d", len(res.Snapshots))
	}
}

func TestFindForceRefresh(t *testing.T) {
	lister, stats := twoChannelFixture()
	f := testFinder(t, lister, stats)
	opts := FindOpts{Channels: twoChannels, MaxAge: 24 * time.Hour}

	if _, err := f.Find(context.Background(), opts); err != nil {
		t.Fatalf("first find: %v", err)
	}
	callsAfterFirst := lister.callCount()

	opts.ForceRefresh = true
	res, err := f.Find(context.Background(), opts)
	if err != nil {
		t.Fatalf("forced find: %v", err)
	}
	if !res.Refreshed {
		t.Error("forced refresh must bypass the freshness check")
	}
	if lister.callCount() <= callsAfterFirst {
		t.Error("expected additional lister calls on forced refresh")
	}
}

func TestFindChannelFailureBecomesWarning(t *testing.T) {
	lister, stats := twoChannelFixture()
	lister.errs["UC2"] = errors.New("simulated API failure")
	f := testFinder(t, lister, stats)

	res, err := f.Find(context.Background(), FindOpts{
		Channels: twoChannels,
		MaxAge:   24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "Beta") {
		t.Errorf("expected a warning naming channel Beta, got %v", res.Warnings)
	}
	// The failing channel must not abort the rest of the niche.
	if len(res.Snapshots) != 2 {
		t.Errorf("expected UC1's 2 snapshots, got %d", len(res.Snapshots))
	}
}

func TestFindStatsFailureKeepsCache(t *testing.T) {
	lister, stats := twoChannelFixture()
	f := testFinder(t, lister, stats)
	opts := FindOpts{Channels: twoChannels, MaxAge: 24 * time.Hour}

	if _, err := f.Find(context.Background(), opts); err != nil {
		t.Fatalf("first find: %v", err)
	}

	stats.err = errors.New("quota exceeded")
	opts.ForceRefresh = true
	res, err := f.Find(context.Background(), opts)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "statistics") {
		t.Errorf("expected a statistics warning, got %v", res.Warnings)
	}
	// Previous snapshots survive a failed refresh.
	if len(res.Snapshots) != 3 {
		t.Errorf("expected cached snapshots to survive, got %d", len(res.Snapshots))
	}
	for _, v := range res.Snapshots {
		if v.Views == 0 {
			t.Errorf("snapshot %s lost its counters", v.VideoID)
		}
	}
}

func TestFindDedupesOverlappingListings(t *testing.T) {
	lister, stats := twoChannelFixture()
	// UC2 also lists video B, e.g. via an overlapping sub-fetch.
	lister.videos["UC2"] = append(lister.videos["UC2"], video("B", "UC1", "Second upload"))
	f := testFinder(t, lister, stats)

	res, err := f.Find(context.Background(), FindOpts{
		Channels: twoChannels,
		MaxAge:   24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	seen := map[string]int{}
	for _, v := range res.Snapshots {
		seen[v.VideoID]++
	}
	if seen["B"] != 1 {
		t.Errorf("expected exactly one row for B, got %d", seen["B"])
	}
	if len(res.Snapshots) != 3 {
		t.Errorf("expected 3 unique snapshots, got %d", len(res.Snapshots))
	}
}

func TestFindAppliesFiltersAfterRefresh(t *testing.T) {
	lister, stats := twoChannelFixture()
	f := testFinder(t, lister, stats)

	res, err := f.Find(context.Background(), FindOpts{
		Channels: twoChannels,
		Keyword:  "viral",
		MinScore: 100,
		MaxAge:   24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(res.Snapshots) != 1 || res.Snapshots[0].VideoID != "C" {
		t.Errorf("expected only C past keyword and score filters, got %v", res.Snapshots)
	}
}

func TestFindNoChannelsBrowsesCache(t *testing.T) {
	lister, stats := twoChannelFixture()
	f := testFinder(t, lister, stats)

	res, err := f.Find(context.Background(), FindOpts{MaxAge: 24 * time.Hour})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if res.Refreshed {
		t.Error("no channel set means nothing to refetch")
	}
	if lister.callCount() != 0 {
		t.Errorf("lister must not run without channels, got %d calls", lister.callCount())
	}
	if len(res.Snapshots) != 0 {
		t.Errorf("expected empty result from empty cache, got %d", len(res.Snapshots))
	}
}

func TestFindMetricSelection(t *testing.T) {
	lister, stats := twoChannelFixture()
	// Rank by comments: 1, 2, 4000. Median 2, MAD 1.
	f := testFinder(t, lister, stats)

	res, err := f.Find(context.Background(), FindOpts{
		Channels: twoChannels,
		Metric:   store.MetricComments,
		MaxAge:   24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	want := map[string]float64{"A": -0.67, "B": 0, "C": 2696.65}
	for _, v := range res.Snapshots {
		if v.OutlierScore != want[v.VideoID] {
			t.Errorf("score[%s] = %v, want %v", v.VideoID, v.OutlierScore, want[v.VideoID])
		}
	}
}
