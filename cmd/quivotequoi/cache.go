package main

import (
	"errors"
	"fmt"

	"github.com/nao1215/quivotequoi/internal/config"
	"github.com/nao1215/quivotequoi/internal/database"
	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache command and its subcommands.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or purge the response cache",
		Long: `Downloaded documents are kept in a SQLite database in the cache directory
so that re-running a term does not download every sitting again.`,
	}
	cmd.PersistentFlags().String("cache-dir", config.XDGCacheDir(), "Response cache directory")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Print the cache location and size",
		Args:  cobra.NoArgs,
		RunE:  runCacheStatsCmd,
	}

	purge := &cobra.Command{
		Use:   "purge",
		Short: "Remove cached responses",
		Long: `Purge removes cached responses older than --older-than.
With the default of 0 every response is removed.

Examples:
  # Drop everything
  quivotequoi cache purge

  # Drop responses older than 30 days
  quivotequoi cache purge --older-than 720h`,
		Args: cobra.NoArgs,
		RunE: runCachePurgeCmd,
	}
	purge.Flags().Duration("older-than", 0, "Only remove responses older than this")

	cmd.AddCommand(stats, purge)
	return cmd
}

// openCache opens an existing cache database. It returns nil, nil when no
// cache has been created yet.
func openCache(cmd *cobra.Command) (*database.CacheDB, error) {
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, err
	}
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	db, err := database.Open(dir, opts)
	if errors.Is(err, database.ErrNotFound) {
		fmt.Fprintf(cmd.OutOrStdout(), "No cache in %s\n", dir)
		return nil, nil
	}
	return db, err
}

func runCacheStatsCmd(cmd *cobra.Command, _ []string) error {
	db, err := openCache(cmd)
	if err != nil || db == nil {
		return err
	}
	defer db.Close()

	n, err := db.Count(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cache: %s\nResponses: %d\n", db.Path(), n)
	return nil
}

func runCachePurgeCmd(cmd *cobra.Command, _ []string) error {
	age, err := cmd.Flags().GetDuration("older-than")
	if err != nil {
		return err
	}

	db, err := openCache(cmd)
	if err != nil || db == nil {
		return err
	}
	defer db.Close()

	n, err := db.Purge(cmd.Context(), age)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d responses from %s\n", n, db.Path())
	return nil
}
