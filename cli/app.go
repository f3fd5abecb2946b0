// Package cli contains the sceneindex command line application.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	configFlag     = "config"
	debugFlag      = "debug"
	logLevelFlag   = "log-level"
	objectsFlag    = "objects"
	framesFlag     = "frames"
	sizeFlag       = "size"
	depthFlag      = "depth"
	cleanEveryFlag = "clean-every"
	seedFlag       = "seed"
	cellsFlag      = "cells"
	realtimeFlag   = "realtime"
	logFileFlag    = "log-file"
	plotFlag       = "plot"
)

// sceneFlags returns the flags that build a scene config on top of the defaults and an optional
// config file.
func sceneFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    configFlag,
			Aliases: []string{"c"},
			Usage:   "load scene configuration from `FILE`",
		},
		&cli.IntFlag{
			Name:  objectsFlag,
			Usage: "number of objects to animate",
		},
		&cli.Float64Flag{
			Name:  sizeFlag,
			Usage: "edge length of the world cube",
		},
		&cli.IntFlag{
			Name:  depthFlag,
			Usage: "maximum octree subdivision depth",
		},
		&cli.IntFlag{
			Name:  cleanEveryFlag,
			Usage: "clean the octree every `N` frames, 0 to never clean",
		},
		&cli.Int64Flag{
			Name:  seedFlag,
			Usage: "random seed for object placement",
		},
	}
}

var app = &cli.App{
	Name:            "sceneindex",
	Usage:           "exercise a dynamic octree with a simulated scene",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    debugFlag,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.StringFlag{
			Name:  logLevelFlag,
			Usage: "log at `LEVEL` (debug, info, warn or error), overriding the config file",
		},
		&cli.StringFlag{
			Name:  logFileFlag,
			Usage: "also write logs to `FILE`, rotated by size",
		},
	},
	Commands: []*cli.Command{
		{
			Name:   "simulate",
			Usage:  "animate random objects through an octree and report query statistics",
			Action: SimulateAction,
			Flags: append(sceneFlags(),
				&cli.IntFlag{
					Name:  framesFlag,
					Value: 300,
					Usage: "number of frames to simulate",
				},
				&cli.BoolFlag{
					Name:  cellsFlag,
					Usage: "print a table of every live cell after the run",
				},
				&cli.BoolFlag{
					Name:  realtimeFlag,
					Usage: "pace frames at the configured frame rate instead of running flat out",
				},
				&cli.StringFlag{
					Name:  plotFlag,
					Usage: "save a plot of per frame query time and visible objects to `FILE` (.png, .svg or .pdf)",
				},
			),
		},
		{
			Name:   "config",
			Usage:  "print the scene configuration simulate would run with",
			Action: ConfigAction,
			Flags:  sceneFlags(),
		},
		{
			Name:   "schema",
			Usage:  "print the JSON schema of the scene configuration",
			Action: SchemaAction,
		},
		{
			Name:   "version",
			Usage:  "print version info for this program",
			Action: VersionAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
