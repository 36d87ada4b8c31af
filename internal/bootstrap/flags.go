// Package bootstrap wires the lazystatus command line to the status viewer.
package bootstrap

import (
	urfavecli "github.com/urfave/cli/v3"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via Command.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Repository to report on (default: current directory)",
		},
		&urfavecli.StringFlag{
			Name:  "source",
			Usage: "Status source: exec, go-git or sample",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the UI theme",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=ls.key=value",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.BoolFlag{
			Name:  "skip-unknown",
			Usage: "Skip status lines with unrecognized codes instead of failing",
		},
		&urfavecli.IntFlag{
			Name:  "refresh-interval",
			Usage: "Seconds between status refreshes, 0 disables",
		},
		&urfavecli.BoolFlag{
			Name:  "no-icons",
			Usage: "Do not render file icons",
		},
	}
}
