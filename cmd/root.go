package cmd

import (
	"fmt"
	"os"

	"github.com/Norgate-AV/icp/internal/config"
	"github.com/Norgate-AV/icp/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:          "icp",
	Short:        "Instrumentation classpath analyzer",
	Long:         `Analyze JVM classpaths for bytecode instrumentation: per-artifact super-type and dependency metadata, marker-encoded transform outputs and a merged type registry.`,
	RunE:         runAnalyze,
	SilenceUsage: true,
	Args:         cobra.ArbitraryArgs,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime)
	rootCmd.PersistentFlags().StringP("cache-dir", "c", "", "Directory for the analysis-output store")
	rootCmd.PersistentFlags().String("core-types", "", "Core instrumentation super-types file")
	rootCmd.PersistentFlags().StringSliceP("global-cache-dir", "g", []string{}, "Shared immutable cache roots")
	rootCmd.PersistentFlags().Bool("hierarchy-without-upgrades", false, "Build the type registry even without core upgrade metadata")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(cacheCmd)

	viper.SetDefault("cache_dir", config.DefaultCacheDir)
	viper.SetDefault("hash_cache_size", config.DefaultHashCacheSize)
	viper.SetDefault("verbose", config.DefaultVerbose)
}
