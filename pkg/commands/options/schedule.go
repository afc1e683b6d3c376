package options

import (
	"github.com/spf13/cobra"
)

// ScheduleOptions
type ScheduleOptions struct {
	Timeline bool
}

func AddScheduleArgs(cmd *cobra.Command, o *ScheduleOptions) {
	cmd.Flags().BoolVarP(&o.Timeline, "timeline", "t", false,
		"Draw a strip of the school day under each day.")
}
