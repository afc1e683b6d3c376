package options

import (
	"github.com/spf13/cobra"
)

// WatchOptions
type WatchOptions struct {
	Plain   bool
	Refresh string
}

func AddWatchArgs(cmd *cobra.Command, o *WatchOptions) {
	cmd.Flags().BoolVar(&o.Plain, "plain", false,
		"Print a line per change instead of the live board.")
	cmd.Flags().StringVar(&o.Refresh, "refresh", "",
		`Reload the timetable on an interval, example: --refresh=30m. Defaults to the configured interval.`)
}
