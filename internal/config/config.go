package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultCacheDir      = ".icp-cache"
	DefaultHashCacheSize = 1024
	DefaultVerbose       = false
)

// Holds the configuration options for icp
type Config struct {
	// Root directory of the analysis-output store
	CacheDir string

	// Properties file with the core instrumentation super-types; when
	// absent the registry fast path applies
	CoreTypesFile string

	// Shared immutable global cache directories; artifacts under these
	// roots hash differently from mutable local files
	GlobalCacheDirs []string

	// Diagnostic override: compute the class hierarchy registry even
	// when no core upgrade metadata exists
	GenerateHierarchyWithoutUpgrades bool

	// Bound of the content-snapshot memoization cache
	HashCacheSize int

	// Enable verbose output
	Verbose bool
}

func Load() (*Config, error) {
	cfg := &Config{
		CacheDir:                         viper.GetString("cache_dir"),
		CoreTypesFile:                    viper.GetString("core_types"),
		GlobalCacheDirs:                  viper.GetStringSlice("global_cache_dirs"),
		GenerateHierarchyWithoutUpgrades: viper.GetBool("generate_hierarchy_without_upgrades"),
		HashCacheSize:                    viper.GetInt("hash_cache_size"),
		Verbose:                          viper.GetBool("verbose"),
	}

	// Apply defaults if not set
	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir
	}

	if cfg.HashCacheSize == 0 {
		cfg.HashCacheSize = DefaultHashCacheSize
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if abs, err := filepath.Abs(c.CacheDir); err == nil {
		c.CacheDir = abs
	}

	if c.CoreTypesFile != "" {
		abs, err := filepath.Abs(c.CoreTypesFile)
		if err != nil {
			return fmt.Errorf("invalid core types file path: %v", err)
		}

		c.CoreTypesFile = abs
	}

	if c.HashCacheSize < 0 {
		return fmt.Errorf("invalid hash cache size: %d", c.HashCacheSize)
	}

	// Resolve global cache roots
	for i, dir := range c.GlobalCacheDirs {
		if dir != "" {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("invalid global cache path: %v", err)
			}

			c.GlobalCacheDirs[i] = abs
		}
	}

	return nil
}
