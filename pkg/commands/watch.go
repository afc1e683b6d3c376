package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/recess/pkg/commands/options"
	"tableflip.dev/recess/pkg/runner/watch"
	"tableflip.dev/recess/pkg/timeutil"
)

func addWatch(topLevel *cobra.Command) {
	gro := &options.GroupOptions{}
	wo := &options.WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the countdown on screen and ring when a break ends.",
		Example: `
recess watch
recess watch -g 6 --refresh=30m
recess watch --plain
`,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := load(gro.Group)
			if err != nil {
				return err
			}
			eo, err := e.config.EngineOptions(nil, e.logger)
			if err != nil {
				return err
			}
			ao, err := e.alerts()
			if err != nil {
				return err
			}
			refresh, err := e.config.RefreshInterval()
			if err != nil {
				return err
			}
			if wo.Refresh != "" {
				if refresh, _, err = timeutil.ParseWindow(wo.Refresh, ""); err != nil {
					return fmt.Errorf("--refresh: %w", err)
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := watch.Watch{
				Service: e.service,
				Engine:  eo,
				Alerts:  ao,
				Refresh: refresh,
				Plain:   wo.Plain,
				Logger:  e.logger,
			}
			return s.Do(e.logger.WithContext(ctx))
		},
	}

	options.AddGroupArg(cmd, gro)
	options.AddWatchArgs(cmd, wo)
	registerGroupCompletion(cmd)

	topLevel.AddCommand(cmd)
}
