package options

import (
	"github.com/spf13/cobra"
)

// GroupOptions selects the group key to track.
type GroupOptions struct {
	Group string
}

func AddGroupArg(cmd *cobra.Command, o *GroupOptions) {
	cmd.Flags().StringVarP(&o.Group, "group", "g", "",
		`Group to track, e.g. "6A", or a combined key such as "6". Defaults to the configured group.`)
}
