// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes the config file and database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config file and run database migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// serveCommand runs the badge HTTP server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the badge HTTP server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// authCommand runs the one-time OAuth flow to obtain a refresh token
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authorize with Spotify and print the long-lived refresh token",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Auth,
	}
}

// daylistCommand manages the daylist phrase cache
func daylistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "daylist",
		Usage: "Manage the daylist phrase cache",
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Download the scraper artifact and cache the daylist phrase",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "url",
						Usage: "Artifact URL (overrides config)",
					},
				},
				Action: r.DaylistFetch,
			},
			{
				Name:  "set",
				Usage: "Write a daylist phrase directly into the cache",
				Flags: []cli.Flag{configFlag()},
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "phrase"},
				},
				Action: r.DaylistSet,
			},
			{
				Name:  "show",
				Usage: "Print the cached daylist phrase",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.DaylistShow,
			},
		},
	}
}

// nowCommand prints or watches the current playback state
func nowCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "now",
		Usage: "Show the current playback state",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Keep polling in a terminal UI",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Now,
	}
}
