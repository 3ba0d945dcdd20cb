package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytscout/ytscout/internal/config"
	"github.com/ytscout/ytscout/internal/store"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached video snapshots",
	Long: `Empty the local cache. The next query refetches everything from the
network; scores are recomputed from the fresh batch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.CachePath()
		db, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		count, _, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}
		if err := db.Clear(); err != nil {
			return err
		}

		if count == 0 {
			fmt.Println("Cache was already empty.")
		} else {
			fmt.Printf("Cleared %d video(s).\n", count)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.CachePath()
		db, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		count, size, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("Cache: %s\n", dbPath)
		fmt.Printf("Videos: %d\n", count)
		fmt.Printf("Size: %s\n", formatBytes(size))
		return nil
	},
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
