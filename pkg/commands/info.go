package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/recess/pkg/commands/options"
	"tableflip.dev/recess/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	gro := &options.GroupOptions{}

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where the timetable is read from.",
		Example: `
recess info
`,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := load(gro.Group)
			if err != nil {
				return err
			}
			s := info.Info{
				Config:  e.config,
				Service: e.service,
			}
			return s.Do(context.Background())
		},
	}

	options.AddGroupArg(cmd, gro)
	registerGroupCompletion(cmd)

	topLevel.AddCommand(cmd)
}
