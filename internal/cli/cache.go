package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schemagraph/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached datasets and layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := cache.Open(cmd.Context(), cfg.CacheConfig())
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			cl, ok := store.(cache.Clearer)
			if !ok {
				printInfo("The %s cache backend cannot be cleared", cfg.Cache.Backend)
				return nil
			}
			if err := cl.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared the %s cache", cfg.Cache.Backend)
			if loc := cacheLocation(cfg.CacheConfig()); loc != "" {
				printDetail("Location: %s", loc)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the configured cache stores its entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			loc := cacheLocation(cfg.CacheConfig())
			if loc == "" {
				return fmt.Errorf("the %s cache backend has no location", cfg.Cache.Backend)
			}
			fmt.Println(loc)
			return nil
		},
	}
}

// cacheLocation returns the directory, database file or URL of a backend.
func cacheLocation(cfg cache.Config) string {
	switch cfg.Backend {
	case cache.BackendFile, "":
		if cfg.Dir != "" {
			return cfg.Dir
		}
		dir, _ := cache.DefaultDir()
		return dir
	case cache.BackendSQLite:
		if cfg.SQLitePath != "" {
			return cfg.SQLitePath
		}
		return cache.DefaultSQLitePath()
	case cache.BackendRedis:
		if cfg.RedisURL != "" {
			return cfg.RedisURL
		}
		return cache.DefaultRedisURL
	default:
		return ""
	}
}
