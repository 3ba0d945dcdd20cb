package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytscout/ytscout/internal/config"
	"github.com/ytscout/ytscout/internal/scout"
	"github.com/ytscout/ytscout/internal/store"
	"github.com/ytscout/ytscout/internal/youtube"
)

var flagFindLimit int

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Print outliers to stdout without the TUI",
	Long: `Run one query against the niche's channels and print the results as a
table, suitable for scripts and pipes. Uses the same cache and freshness
rules as the TUI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}

		niches := loadNiches()
		var channels []config.Channel
		if flagNiche != "" {
			var ok bool
			channels, ok = niches[flagNiche]
			if !ok {
				return fmt.Errorf("unknown niche %q (known: %v)", flagNiche, niches.Names())
			}
		}

		db, err := store.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		finder, _ := buildFinder(cfg, db, newConsoleLogger())

		minScore := cfg.MinScore
		if cmd.Flags().Changed("min-score") {
			minScore = flagMinScore
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		res, err := finder.Find(ctx, scout.FindOpts{
			Channels:      channels,
			Keyword:       flagKeyword,
			MinScore:      minScore,
			Kind:          flagFindKind(),
			SortBy:        flagSort,
			Metric:        cfg.Metric,
			MaxAge:        cfg.MaxAgeDuration(),
			MaxPerChannel: cfg.GetMaxPerChannel(),
			ForceRefresh:  flagRefresh,
		})
		if err != nil {
			return err
		}

		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "[warn] %s\n", w)
		}

		printSnapshots(os.Stdout, res.Snapshots, flagFindLimit)
		return nil
	},
}

var flagKind string

func flagFindKind() string {
	switch flagKind {
	case "shorts":
		return store.KindShorts
	case "longform":
		return store.KindLongform
	default:
		return store.KindAll
	}
}

func printSnapshots(out io.Writer, snapshots []store.Snapshot, limit int) {
	if len(snapshots) == 0 {
		fmt.Fprintln(out, "No videos found.")
		return
	}
	if limit > 0 && len(snapshots) > limit {
		snapshots = snapshots[:limit]
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tVIEWS\tCHANNEL\tTITLE\tURL")
	for _, v := range snapshots {
		fmt.Fprintf(w, "%+.2f\t%d\t%s\t%s\t%s\n",
			v.OutlierScore, v.Views, v.ChannelName, v.Title, youtube.WatchURL(v.VideoID))
	}
	w.Flush()
}

func init() {
	findCmd.Flags().StringVarP(&flagNiche, "niche", "n", "", "query this niche's channels")
	findCmd.Flags().StringVarP(&flagKeyword, "keyword", "k", "", "require all keyword tokens in title or description")
	findCmd.Flags().Float64Var(&flagMinScore, "min-score", 0, "hide videos scoring below this")
	findCmd.Flags().StringVar(&flagSort, "sort", "", "sort key: score, views, likes, comments, published")
	findCmd.Flags().StringVar(&flagMetric, "metric", "", "outlier metric: views, likes, comments")
	findCmd.Flags().StringVar(&flagMaxAge, "max-age", "", "cached data older than this is refetched")
	findCmd.Flags().StringVar(&flagKind, "kind", "", "restrict to shorts or longform")
	findCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "force refetch before querying")
	findCmd.Flags().IntVar(&flagFindLimit, "limit", 25, "max rows to print (0 = all)")
}
