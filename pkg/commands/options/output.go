// Package options defines shared flag helpers for CLI commands.
package options

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// OutputOptions selects machine-readable output.
type OutputOptions struct {
	JSON bool
	// Out receives JSON errors; color.Output when nil.
	Out io.Writer
}

func AddOutputArg(cmd *cobra.Command, o *OutputOptions) {
	cmd.Flags().BoolVar(&o.JSON, "json", false,
		"Output as JSON.")
}

type errorResult struct {
	Error string `json:"error"`
}

// HandleError reports err as {"error": ...} on Out when JSON output was
// requested, so scripts always get a JSON document. It then returns nil.
// Without --json err is returned for cobra to print.
func (o *OutputOptions) HandleError(err error) error {
	if err == nil || !o.JSON {
		return err
	}
	out := o.Out
	if out == nil {
		out = color.Output
	}
	return json.NewEncoder(out).Encode(errorResult{Error: err.Error()})
}
