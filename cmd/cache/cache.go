package cache

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/actionsguard/actionsguard/internal/cache"
	"github.com/actionsguard/actionsguard/pkg/shared/config"
	"github.com/actionsguard/actionsguard/pkg/shared/logger"
)

// Global variables for configuration and command arguments
var (
	AppConfig *config.Config
	clearRepo string
)

// CacheCmd represents the cache command group.
var CacheCmd = &cobra.Command{
	Use:                   "cache [command]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Inspect and clear the scan result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:                   "stats",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Print result cache statistics",
	RunE:                  runCacheStatsCommand,
}

var cacheClearCmd = &cobra.Command{
	Use:                   "clear [--repo OWNER/NAME]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Delete cached scan results",
	RunE:                  runCacheClearCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func openCache() (*cache.ResultCache, error) {
	log := logger.NewLogger(AppConfig, "core-cache")
	ttl := time.Duration(AppConfig.Cache.TTLHours) * time.Hour
	return cache.NewResultCache(AppConfig.Cache.Dir, ttl, log)
}

// runCacheStatsCommand executes the cache stats command.
func runCacheStatsCommand(cmd *cobra.Command, args []string) error {
	resultCache, err := openCache()
	if err != nil {
		return err
	}

	stats := resultCache.Stats()
	fmt.Printf("Cache directory: %s\n", stats.CacheDir)
	fmt.Printf("TTL: %.0f hours\n", stats.TTLHours)
	fmt.Printf("Entries: %d (%d fresh, %d expired)\n", stats.TotalEntries, stats.FreshEntries, stats.ExpiredEntries)
	fmt.Printf("Size: %.1f KiB\n", float64(stats.TotalSizeBytes)/1024)
	return nil
}

// runCacheClearCommand executes the cache clear command.
func runCacheClearCommand(cmd *cobra.Command, args []string) error {
	resultCache, err := openCache()
	if err != nil {
		return err
	}

	var count int
	if clearRepo != "" {
		count = resultCache.Clear(clearRepo)
		fmt.Printf("Cleared %d cache entries for %s\n", count, clearRepo)
	} else {
		count = resultCache.ClearAll()
		fmt.Printf("Cleared %d cache entries\n", count)
	}
	return nil
}

// Initialize flags for the cache commands.
func init() {
	cacheClearCmd.Flags().StringVar(&clearRepo, "repo", "", "Clear entries for this repository only (owner/name).")
	CacheCmd.AddCommand(cacheStatsCmd)
	CacheCmd.AddCommand(cacheClearCmd)
}
