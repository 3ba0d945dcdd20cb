package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytscout/ytscout/internal/config"
	"github.com/ytscout/ytscout/internal/scout"
	"github.com/ytscout/ytscout/internal/store"
	"github.com/ytscout/ytscout/internal/youtube"
)

var flagChannelLimit int

var channelCmd = &cobra.Command{
	Use:   "channel <channel-url-or-id>",
	Short: "Inspect one channel and its current outliers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		channelID, ok := youtube.ExtractChannelID(args[0])
		if !ok {
			return fmt.Errorf("cannot parse channel id from %q", args[0])
		}

		cfg, err := loadSettings()
		if err != nil {
			return err
		}

		db, err := store.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		finder, client := buildFinder(cfg, db, newConsoleLogger())

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		overview, err := client.GetChannelOverview(ctx, channelID)
		if err != nil {
			return fmt.Errorf("fetching channel: %w", err)
		}

		fmt.Printf("%s\n", overview.Title)
		fmt.Printf("  Subscribers: %d\n", overview.Subscribers)
		fmt.Printf("  Videos:      %d\n", overview.VideoCount)
		fmt.Printf("  Total views: %d\n", overview.TotalViews)
		fmt.Println()

		res, err := finder.Find(ctx, scout.FindOpts{
			Channels:      []config.Channel{{ChannelID: channelID, ChannelName: overview.Title}},
			Metric:        cfg.Metric,
			MaxAge:        cfg.MaxAgeDuration(),
			MaxPerChannel: cfg.GetMaxPerChannel(),
			ForceRefresh:  flagRefresh,
		})
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			fmt.Printf("[warn] %s\n", w)
		}

		printSnapshots(os.Stdout, res.Snapshots, flagChannelLimit)
		return nil
	},
}

func init() {
	channelCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "force refetch of the channel's videos")
	channelCmd.Flags().IntVar(&flagChannelLimit, "limit", 10, "max rows to print (0 = all)")
}
