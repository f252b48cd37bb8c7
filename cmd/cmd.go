// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the swipe history database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication with the discovery service",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with the discovery service using OAuth2",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state (calls /health)",
				Action: r.AuthStatus,
			},
		},
	}
}

// discoverCommand launches the interactive swipe surface.
func discoverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "discover",
		Aliases: []string{"swipe", "tui"},
		Usage:   "Launch the interactive swipe surface",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record swipes to the local database",
			},
		},
		Action: r.Discover,
	}
}

// prefsCommand handles preference vector operations
func prefsCommand(r *Runner) *cli.Command {
	weightFlags := []cli.Flag{}
	for _, name := range []string{
		"danceability", "energy", "valence", "tempo",
		"acousticness", "instrumentalness", "speechiness", "loudness",
	} {
		weightFlags = append(weightFlags, &cli.FloatFlag{
			Name:  name,
			Usage: "Weight in [0,1] for " + name,
		})
	}

	return &cli.Command{
		Name:  "prefs",
		Usage: "Inspect and adjust the taste vector",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show current preferences and settings from the service",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.PrefsShow,
			},
			{
				Name:   "set",
				Usage:  "Set one or more preference weights (values clamp to [0,1])",
				Flags:  weightFlags,
				Action: r.PrefsSet,
			},
		},
	}
}

// settingsCommand handles remote discovery settings operations
func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Inspect and sync discovery settings on the service",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the settings stored on the service",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.SettingsShow,
			},
			{
				Name:   "sync",
				Usage:  "Pull remote settings and push back the normalized state",
				Action: r.SettingsSync,
			},
		},
	}
}

// historyCommand handles local swipe history operations
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Browse and export local swipe history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded swipes",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "liked",
						Usage: "Only show loved tracks",
					},
					&cli.StringFlag{
						Name:  "session",
						Usage: "Filter by session ID",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "export",
				Usage: "Export swipe history to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, or text",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (format-specific default)",
					},
					&cli.BoolFlag{
						Name:  "liked",
						Usage: "Only export loved tracks",
					},
				},
				Action: r.HistoryExport,
			},
		},
	}
}

// apiCommand handles direct API calls for debugging
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the discovery service",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the discovery service, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}
