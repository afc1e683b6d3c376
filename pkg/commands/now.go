package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/recess/pkg/commands/options"
	"tableflip.dev/recess/pkg/runner/now"
)

func addNow(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	gro := &options.GroupOptions{}
	ao := &options.AtOptions{}

	cmd := &cobra.Command{
		Use:   "now",
		Short: "Show the break state for right now.",
		Example: `
recess now
recess now -g 6B
recess now --at="Mon 09:55"
recess now --json
`,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := load(gro.Group)
			if err != nil {
				return oo.HandleError(err)
			}
			eo, err := e.config.EngineOptions(nil, e.logger)
			if err != nil {
				return oo.HandleError(err)
			}
			s := now.Now{
				Service: e.service,
				Engine:  eo,
				At:      ao.At,
				JSON:    oo.JSON,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, oo)
	options.AddGroupArg(cmd, gro)
	options.AddAtArg(cmd, ao)
	registerGroupCompletion(cmd)

	topLevel.AddCommand(cmd)
}
