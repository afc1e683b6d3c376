package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/recess/pkg/commands/options"
	"tableflip.dev/recess/pkg/runner/schedule"
)

func addSchedule(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	gro := &options.GroupOptions{}
	so := &options.ScheduleOptions{}

	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"week"},
		Short:   "List the breaks parsed for each school day.",
		Example: `
recess schedule
recess schedule -g 6A --timeline
recess schedule --json
`,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := load(gro.Group)
			if err != nil {
				return oo.HandleError(err)
			}
			s := schedule.Schedule{
				Service:  e.service,
				JSON:     oo.JSON,
				Timeline: so.Timeline,
			}
			err = s.Do(e.logger.WithContext(context.Background()))
			return oo.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, oo)
	options.AddGroupArg(cmd, gro)
	options.AddScheduleArgs(cmd, so)
	registerGroupCompletion(cmd)

	topLevel.AddCommand(cmd)
}
