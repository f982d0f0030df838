package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layerview/pkg/cache"
	"github.com/matzehuels/layerview/pkg/pipeline"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheInvalidateCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var expired bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the local file cache",
		Long: `Clear the local file cache.

With --expired only entries past their TTL are removed, together with
unreadable entries and leftovers of interrupted writes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			store, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			defer store.Close()
			fc := store.(*cache.FileCache)

			remove, what := fc.Clear, "cached"
			if expired {
				remove, what = fc.Prune, "expired"
			}
			count, err := remove()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Nothing to remove")
				return nil
			}
			printSuccess("Removed %d %s entries", count, what)
			printDetail("Directory: %s", dir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&expired, "expired", false, "only remove expired entries")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// cacheInvalidateCommand creates the "cache invalidate" subcommand. It drops
// the cached layout of an item file under the given options from the
// configured backend.
func (c *CLI) cacheInvalidateCommand() *cobra.Command {
	var (
		inputFormat string
		opts        pipeline.Options
	)

	cmd := &cobra.Command{
		Use:               "invalidate [items-file|-]",
		Short:             "Drop the cached layout of an item file",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeItemFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			items, err := pipeline.Load(args[0], inputFormat, cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("load items %s: %w", args[0], err)
			}

			runner, err := c.newRunner(ctx, cfg, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			key, err := runner.Invalidate(ctx, items, mergeOptions(cmd, cfg.Options(), opts))
			if err != nil {
				return err
			}
			printSuccess("Invalidated cached layout")
			printKeyValue("key", key)
			return nil
		},
	}

	inputFormatFlag(cmd, &inputFormat)
	layoutFlags(cmd, &opts)

	return cmd
}
