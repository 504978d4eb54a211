package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Norgate-AV/icp/internal/analysis"
	"github.com/Norgate-AV/icp/internal/cache"
	"github.com/Norgate-AV/icp/internal/config"
	"github.com/Norgate-AV/icp/internal/snapshot"
	"github.com/Norgate-AV/icp/internal/transform"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:          "analyze <classpath entries...>",
	Short:        "Analyze a classpath",
	Long:         `Analyze every artifact of a classpath and print the marker-encoded transform output. Unchanged artifacts are served from the analysis-output store.`,
	RunE:         runAnalyze,
	SilenceUsage: true,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("requires at least one classpath entry")
	}

	files := make([]string, 0, len(args))
	for _, arg := range args {
		absFile, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}

		files = append(files, absFile)
	}

	loader := config.NewLoader()
	cfg, err := loader.LoadForAnalysis(cmd, args)
	if err != nil {
		return err
	}

	snapshotter, err := snapshot.NewSnapshotter(cfg.HashCacheSize)
	if err != nil {
		return err
	}

	locations := snapshot.NewGlobalCacheLocations(cfg.GlobalCacheDirs)
	service := cache.NewService(snapshotter, locations, cfg)

	store, err := cache.NewStore(cfg.CacheDir)
	if err != nil {
		return err
	}
	defer store.Close()

	pipeline := transform.NewPipeline(service, store, analysis.NewWalker())
	result, err := pipeline.Run(nextContextID(), files)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		fmt.Printf("Analyzed: %d\nReused: %d\nRegistry empty: %t\n", result.Analyzed, result.Reused, result.Registry.IsEmpty())
	}

	for _, line := range result.Encoded {
		fmt.Println(line)
	}

	return nil
}

// nextContextID derives a fresh resolution context id. One process never
// runs two resolutions in the same nanosecond, so the clock is enough.
func nextContextID() int64 {
	return time.Now().UnixNano()
}
