package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/licensegate/pkg/cache"
)

// newCacheCmd creates the cache management command.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the registry response cache",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())
	cmd.AddCommand(newCacheInfoCmd())

	return cmd
}

// newCacheClearCmd creates the "cache clear" subcommand.
func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached registry responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cache.NewFileCache("")
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			count, err := c.Len()
			if err != nil {
				return fmt.Errorf("count cache entries: %w", err)
			}
			if err := c.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", c.Dir())
			return nil
		},
	}
}

// newCachePathCmd creates the "cache path" subcommand.
func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cache.NewFileCache("")
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			fmt.Println(c.Dir())
			return nil
		},
	}
}

// newCacheInfoCmd creates the "cache info" subcommand.
func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache location and entry count",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cache.NewFileCache("")
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			count, err := c.Len()
			if err != nil {
				return fmt.Errorf("count cache entries: %w", err)
			}
			printInfo("Cache directory: %s", c.Dir())
			printDetail("%d entries", count)
			return nil
		},
	}
}
