package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/recess/pkg/commands/options"
	"tableflip.dev/recess/pkg/runner/bell"
)

func addBell(topLevel *cobra.Command) {
	gro := &options.GroupOptions{}

	cmd := &cobra.Command{
		Use:   "bell",
		Short: "Ring the configured alert sinks once, to test them.",
		Example: `
recess bell
RECESS_ALERT_SINKS=console,command recess bell
`,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := load(gro.Group)
			if err != nil {
				return err
			}
			ao, err := e.alerts()
			if err != nil {
				return err
			}
			s := bell.Bell{
				Alerts: ao,
				Group:  e.service.Key().Key,
			}
			return s.Do(context.Background())
		},
	}

	options.AddGroupArg(cmd, gro)
	registerGroupCompletion(cmd)

	topLevel.AddCommand(cmd)
}
