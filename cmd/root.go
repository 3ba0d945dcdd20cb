package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig   string
	flagNiches   string
	flagNiche    string
	flagKeyword  string
	flagMinScore float64
	flagSort     string
	flagMetric   string
	flagMaxAge   string
	flagRefresh  bool
)

var rootCmd = &cobra.Command{
	Use:   "ytscout",
	Short: "TUI YouTube outlier finder",
	Long: `ytscout watches curated sets of YouTube channels and surfaces the
videos that break out of each channel's usual performance, scored with a
robust outlier statistic over the fetched batch.`,
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagNiches, "niches", "", "path to niches file")
	rootCmd.Flags().StringVarP(&flagNiche, "niche", "n", "", "start with this niche selected")
	rootCmd.Flags().StringVarP(&flagKeyword, "keyword", "k", "", "start with this keyword search")
	rootCmd.Flags().Float64Var(&flagMinScore, "min-score", 0, "hide videos scoring below this")
	rootCmd.Flags().StringVar(&flagSort, "sort", "", "sort key: score, views, likes, comments, published")
	rootCmd.Flags().StringVar(&flagMetric, "metric", "", "outlier metric: views, likes, comments")
	rootCmd.Flags().StringVar(&flagMaxAge, "max-age", "", "cached data older than this is refetched (e.g., 24h, 7d)")
	rootCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "force refetch before launching")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(channelCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ytscout %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
