package cmd

import (
	"fmt"

	"github.com/Norgate-AV/icp/internal/cache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cacheCmd = &cobra.Command{
	Use:          "cache",
	Short:        "Manage the analysis-output store",
	SilenceUsage: true,
}

var cacheStatsCmd = &cobra.Command{
	Use:          "stats",
	Short:        "Show store statistics",
	RunE:         runCacheStats,
	SilenceUsage: true,
}

var cacheClearCmd = &cobra.Command{
	Use:          "clear",
	Short:        "Remove all stored analysis outputs",
	RunE:         runCacheClear,
	SilenceUsage: true,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func openStore(cmd *cobra.Command) (*cache.Store, error) {
	_ = viper.BindPFlag("cache_dir", cmd.Flags().Lookup("cache-dir"))

	return cache.NewStore(viper.GetString("cache_dir"))
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	count, size, err := store.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Entries: %d\nTotal size: %d bytes\n", count, size)

	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return err
	}

	fmt.Println("Cache cleared")

	return nil
}
