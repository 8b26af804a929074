package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-gps-metrics/internal/watcher"
)

var watchJSON bool

var watchCmd = &cobra.Command{
	Use:   "watch <player>",
	Short: "Re-render a player profile whenever the CSV export changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "write JSON instead of tables")
}

func runWatch(cmd *cobra.Command, args []string) error {
	player := args[0]
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ld, closeFn, err := newLoader()
	if err != nil {
		return err
	}
	defer closeFn()

	render := func() {
		ds, err := loadWith(ctx, ld)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		fmt.Fprintf(os.Stdout, "\n[%s] %s\n", time.Now().Format("15:04:05"), csvPath)
		if err := printProfile(ds, player, watchJSON); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	fw, err := watcher.New(csvPath, func(string) { render() })
	if err != nil {
		return err
	}
	fw.OnError = func(err error) { slog.Warn("watch error", "path", csvPath, "err", err) }

	render()
	if err := fw.Start(ctx); err != nil {
		return err
	}
	defer fw.Stop()

	fmt.Fprintf(os.Stderr, "Watching %s, press Ctrl-C to stop.\n", csvPath)
	<-ctx.Done()
	return nil
}
