package info

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/recess/pkg/app"
	"tableflip.dev/recess/pkg/config"
)

// Info prints where settings and the timetable come from.
type Info struct {
	Config  *config.Config
	Service *app.Service
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv(config.PathEnv); override != "" {
		fmt.Fprintln(out, config.PathEnv+" found on env, using", override)
	} else {
		fmt.Fprintln(out, config.PathEnv+" env var not set")
	}

	if n.Config == nil {
		var err error
		if n.Config, err = config.Load(); err != nil {
			return err
		}
	}
	c := n.Config

	file := c.File
	if file == "" {
		file = "none, using defaults"
	}
	fmt.Fprintln(out, "Config file:", file)
	fmt.Fprintln(out, "Timetable:  ", c.Timetable)

	if n.Service == nil {
		return fmt.Errorf("failed to create the timetable service")
	}
	key := n.Service.Key()
	fmt.Fprintf(out, "Group:       %s (%s)\n", key.Key, strings.Join(key.Members, ", "))

	rules := n.Service.Rules
	fmt.Fprintln(out, "Strategy:   ", rules.Strategy)
	if rules.MaxDuration > 0 {
		fmt.Fprintf(out, "Max length:  %d min\n", rules.MaxDuration)
	} else {
		fmt.Fprintln(out, "Max length:  unlimited")
	}
	if c.RulesPath != "" {
		fmt.Fprintln(out, "Rules file: ", c.RulesPath)
	}
	if c.Open == c.Close {
		fmt.Fprintln(out, "Hours:       always open")
	} else {
		fmt.Fprintf(out, "Hours:       %s - %s\n", c.Open, c.Close)
	}
	fmt.Fprintln(out, "Alerts:     ", strings.Join(c.Sinks, ", "))
	return nil
}
