package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pable/go-gps-metrics/internal/profile"
)

var (
	csvPath     string
	proTeam     string
	cacheDBPath string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "gpsmetrics",
	Short: "GPS performance reporting for match sessions",
	Long: `Load a CSV export of per-session GPS tracking metrics, keep official
matches, derive high-speed running (Z5+Z6) and compare players against the
positional standard of the professional squad.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(verbose)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	loadDotEnv()

	rootCmd.PersistentFlags().StringVar(&csvPath, "csv", envOr("GPSMETRICS_CSV", "Datagps.csv"),
		"path to the GPS sessions CSV export")
	rootCmd.PersistentFlags().StringVar(&proTeam, "pro-team", envOr("GPSMETRICS_PRO_TEAM", profile.DefaultProTeam),
		"team name fragment identifying the professional squad")
	rootCmd.PersistentFlags().StringVar(&cacheDBPath, "cache-db", os.Getenv("GPSMETRICS_CACHE_DB"),
		"SQLite file caching parsed exports across runs (empty = in-memory only)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(positionsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(cacheCmd)
}

// loadDotEnv reads .env from the working directory when present. Variables
// already set in the environment win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func setupLogging(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
