package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/recess/pkg/alert"
	"tableflip.dev/recess/pkg/app"
	"tableflip.dev/recess/pkg/commands/options"
	"tableflip.dev/recess/pkg/config"
	"tableflip.dev/recess/pkg/logging"
)

var (
	lo = &options.LogOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "recess",
		Short: base.Wrap80("Break and lunch countdowns from a school timetable export."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddLogArgs(cmd, lo)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addNow(topLevel)
	addWatch(topLevel)
	addSchedule(topLevel)
	addBell(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// env is what every command needs once the configuration is resolved.
type env struct {
	config  *config.Config
	logger  zerolog.Logger
	service *app.Service
}

func load(group string) (*env, error) {
	c, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := c.LogLevel
	if lo.Level != "" {
		level = lo.Level
	}
	logger := logging.Setup(level, os.Stderr)

	svc, err := app.Load(c, group, logger)
	if err != nil {
		return nil, err
	}
	return &env{config: c, logger: logger, service: svc}, nil
}

func (e *env) alerts() (alert.Options, error) {
	cooldown, err := e.config.AlertCooldown()
	if err != nil {
		return alert.Options{}, err
	}
	return alert.Options{
		Sinks:    e.config.Sinks,
		Command:  e.config.Command,
		Cooldown: cooldown,
		Logger:   e.logger,
	}, nil
}
