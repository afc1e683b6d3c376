// Package config loads the recess settings from .recess.yaml and RECESS_
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"tableflip.dev/recess/pkg/engine"
	"tableflip.dev/recess/pkg/timetable"
	"tableflip.dev/recess/pkg/timeutil"
)

// PathEnv overrides the directory searched first for .recess.yaml.
const PathEnv = "RECESS_CONFIG_PATH"

// Config is the resolved configuration.
type Config struct {
	// File is the config file that was read, empty when none was found.
	File string `json:"file,omitempty"`

	Timetable   string              `json:"timetable"`
	Group       string              `json:"group"`
	RulesPath   string              `json:"rules,omitempty"`
	Strategy    string              `json:"strategy,omitempty"`
	MaxDuration *int                `json:"maxDuration,omitempty"`
	Open        string              `json:"open"`
	Close       string              `json:"close"`
	Window      string              `json:"window"`
	Refresh     string              `json:"refresh,omitempty"`
	LogLevel    string              `json:"logLevel"`
	Sinks       []string            `json:"sinks"`
	Command     string              `json:"command,omitempty"`
	Cooldown    string              `json:"cooldown"`
	Combined    map[string][]string `json:"combined,omitempty"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("timetable", "Lessons.txt")
	v.SetDefault("group", "6")
	v.SetDefault("hours.open", "07:00")
	v.SetDefault("hours.close", "17:30")
	v.SetDefault("window", timeutil.DefaultWindow)
	v.SetDefault("log.level", "info")
	v.SetDefault("alert.sinks", []string{"bell"})
	v.SetDefault("alert.cooldown", "10s")
}

// Load reads .recess.yaml from the first of paths that has one. With no
// paths it searches $RECESS_CONFIG_PATH, the working directory and the home
// directory. A missing file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	defaults(v)
	v.SetConfigName(".recess")
	v.SetEnvPrefix("RECESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(paths) == 0 {
		paths = searchPaths()
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	c := &Config{
		File:      v.ConfigFileUsed(),
		Timetable: v.GetString("timetable"),
		Group:     strings.ToUpper(strings.TrimSpace(v.GetString("group"))),
		RulesPath: v.GetString("rules"),
		Strategy:  v.GetString("strategy"),
		Open:      v.GetString("hours.open"),
		Close:     v.GetString("hours.close"),
		Window:    v.GetString("window"),
		Refresh:   v.GetString("refresh"),
		LogLevel:  v.GetString("log.level"),
		Sinks:     v.GetStringSlice("alert.sinks"),
		Command:   v.GetString("alert.command"),
		Cooldown:  v.GetString("alert.cooldown"),
		Combined:  v.GetStringMapStringSlice("groups.combined"),
	}
	if v.IsSet("maxDuration") {
		n := v.GetInt("maxDuration")
		c.MaxDuration = &n
	}
	if c.RulesPath != "" {
		p, err := homedir.Expand(c.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("config: expand %s: %w", c.RulesPath, err)
		}
		c.RulesPath = p
	}
	return c, nil
}

func searchPaths() []string {
	var paths []string
	if override := os.Getenv(PathEnv); override != "" {
		paths = append(paths, override)
	}
	paths = append(paths, "./")
	if home, err := homedir.Dir(); err == nil {
		paths = append(paths, home)
	}
	return paths
}

// Rules returns the built-in tables overlaid with the rules file and the
// inline settings, in that order.
func (c *Config) Rules() (timetable.Rules, error) {
	rules := timetable.DefaultRules()
	if c.RulesPath != "" {
		var err error
		if rules, err = timetable.LoadRules(c.RulesPath, rules); err != nil {
			return rules, err
		}
	}
	switch s := timetable.Strategy(strings.ToLower(c.Strategy)); s {
	case "":
	case timetable.StrategyRows, timetable.StrategyGaps:
		rules.Strategy = s
	default:
		return rules, fmt.Errorf("config: unknown strategy %q", c.Strategy)
	}
	if c.MaxDuration != nil {
		if *c.MaxDuration < 0 {
			return rules, fmt.Errorf("config: maxDuration must not be negative, got %d", *c.MaxDuration)
		}
		rules.MaxDuration = *c.MaxDuration
	}
	if len(c.Combined) > 0 {
		merged := make(map[string][]string, len(rules.Combined)+len(c.Combined))
		for k, v := range rules.Combined {
			merged[k] = v
		}
		for k, v := range c.Combined {
			if len(v) == 0 {
				return rules, fmt.Errorf("config: combined group %q has no members", k)
			}
			merged[strings.ToUpper(k)] = v
		}
		rules.Combined = merged
	}
	return rules, nil
}

// Hours returns school opening and closing as seconds since midnight.
func (c *Config) Hours() (open, close int, err error) {
	o, err := timeutil.ParseLabel(c.Open)
	if err != nil {
		return 0, 0, fmt.Errorf("config: hours.open: %w", err)
	}
	cl, err := timeutil.ParseLabel(c.Close)
	if err != nil {
		return 0, 0, fmt.Errorf("config: hours.close: %w", err)
	}
	if cl < o {
		return 0, 0, fmt.Errorf("config: hours.close %s is before hours.open %s", c.Close, c.Open)
	}
	return o * 60, cl * 60, nil
}

// WindowSeconds is the countdown horizon in seconds.
func (c *Config) WindowSeconds() (int, error) {
	d, _, err := timeutil.ParseWindow(c.Window, timeutil.DefaultWindow)
	if err != nil {
		return 0, fmt.Errorf("config: window: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: window must be positive")
	}
	return int(d / time.Second), nil
}

// RefreshInterval is the periodic reload interval; zero disables it.
func (c *Config) RefreshInterval() (time.Duration, error) {
	d, _, err := timeutil.ParseWindow(c.Refresh, "")
	if err != nil {
		return 0, fmt.Errorf("config: refresh: %w", err)
	}
	return d, nil
}

// AlertCooldown is the minimum spacing between alerts.
func (c *Config) AlertCooldown() (time.Duration, error) {
	d, _, err := timeutil.ParseWindow(c.Cooldown, "")
	if err != nil {
		return 0, fmt.Errorf("config: alert.cooldown: %w", err)
	}
	return d, nil
}

// EngineOptions resolves the engine settings. sig may be nil.
func (c *Config) EngineOptions(sig engine.Signal, logger zerolog.Logger) (engine.Options, error) {
	open, closing, err := c.Hours()
	if err != nil {
		return engine.Options{}, err
	}
	window, err := c.WindowSeconds()
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{Window: window, Open: open, Close: closing, Signal: sig, Logger: logger}, nil
}
