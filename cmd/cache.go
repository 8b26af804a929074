package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-gps-metrics/internal/storage"
)

var cacheDropForce bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the SQLite cache of parsed exports",
	Long: `Parsed exports are cached by content hash in the SQLite file given by
--cache-db (or GPSMETRICS_CACHE_DB). The cache only saves re-parsing time;
clearing it never changes results.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached exports",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove every cached export",
	Args:  cobra.NoArgs,
	RunE:  runCachePurge,
}

// cacheDropCmd deletes the cache database file.
var cacheDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the cache database file",
	Args:  cobra.NoArgs,
	RunE:  runCacheDrop,
}

func init() {
	cacheDropCmd.Flags().BoolVarP(&cacheDropForce, "force", "f", false, "skip confirmation prompt")
	cacheCmd.AddCommand(cacheListCmd, cachePurgeCmd, cacheDropCmd)
}

func openCacheDB() (*storage.DB, error) {
	if cacheDBPath == "" {
		return nil, fmt.Errorf("no cache database configured: set --cache-db or GPSMETRICS_CACHE_DB")
	}
	db, err := storage.Open(cacheDBPath)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return db, nil
}

func runCacheList(cmd *cobra.Command, args []string) error {
	db, err := openCacheDB()
	if err != nil {
		return err
	}
	defer db.Close()

	list, err := db.ListDatasets()
	if err != nil {
		return fmt.Errorf("list datasets: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(os.Stdout, "Cache is empty.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-19s  %6s  %7s  %5s  %s\n",
		"KEY", "LOADED", "ROWS", "MATCHES", "WARN", "SOURCE")
	fmt.Fprintf(os.Stdout, "%-16s  %-19s  %6s  %7s  %5s  %s\n",
		"────────────────", "───────────────────", "──────", "───────", "─────", "──────")
	for _, d := range list {
		fmt.Fprintf(os.Stdout, "%-16s  %-19s  %6d  %7d  %5d  %s\n",
			d.SourceKey, d.LoadedAt.Local().Format("2006-01-02 15:04:05"),
			d.TotalRows, d.Matches, d.Warnings, d.SourcePath)
	}
	return nil
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	db, err := openCacheDB()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Purge()
	if err != nil {
		return fmt.Errorf("purge cache: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Removed %d cached export(s).\n", n)
	return nil
}

func runCacheDrop(cmd *cobra.Command, args []string) error {
	if cacheDBPath == "" {
		return fmt.Errorf("no cache database configured: set --cache-db or GPSMETRICS_CACHE_DB")
	}
	if !cacheDropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", cacheDBPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(cacheDBPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Cache database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove cache database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", cacheDBPath)
	return nil
}
