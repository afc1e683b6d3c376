package options

import (
	"github.com/spf13/cobra"
)

// AtOptions pins the evaluation time.
type AtOptions struct {
	At string
}

func AddAtArg(cmd *cobra.Command, o *AtOptions) {
	cmd.Flags().StringVar(&o.At, "at", "",
		`Evaluate at a given time instead of now, example: --at="Thur 09:10:00".`)
}
