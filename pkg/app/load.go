package app

import (
	"github.com/rs/zerolog"

	"tableflip.dev/recess/pkg/config"
	"tableflip.dev/recess/pkg/source"
)

// Load builds a service from the resolved configuration. A non-empty group
// overrides the configured one.
func Load(c *config.Config, group string, logger zerolog.Logger) (*Service, error) {
	rules, err := c.Rules()
	if err != nil {
		return nil, err
	}
	src, err := source.Open(c.Timetable, nil)
	if err != nil {
		return nil, err
	}
	if group == "" {
		group = c.Group
	}
	return New(src, rules, group, logger), nil
}
