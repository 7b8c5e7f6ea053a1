// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

const version = "0.1.0"

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "songnote",
		Usage:   "Create markdown song notes from Spotify track links",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before:    r.Configure,
		Writer:    r.output,
		ErrWriter: r.output,
		Commands:  r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, trackCommand, noteCommand, playlistCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file or initialize the database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml populated with defaults",
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Create the note history database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "down",
						Usage: "Roll back all migrations instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the Spotify user login",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize with Spotify in the browser (PKCE)",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the browser callback",
						Value: 2 * time.Minute,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the saved login and token state",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Forget the saved user tokens",
				Action: r.AuthLogout,
			},
		},
	}
}

func trackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "track",
		Usage: "Spotify catalog lookups",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Fetch a track by link, URI or ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "track"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.TrackGet,
			},
		},
	}
}

func noteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "note",
		Usage: "Create and list song notes",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a song note; prompts for the link when none is given",
				ArgsUsage: "[track link, URI or ID]",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "track"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-playlist",
						Usage: "Do not add the track to the configured playlist",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the result as JSON",
					},
				},
				Action: r.NoteCreate,
			},
			{
				Name:  "list",
				Usage: "List recently created notes",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of notes to show",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "track",
						Usage: "Only notes for this track link, URI or ID",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.NoteList,
			},
		},
	}
}

func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Playlist operations (requires auth login)",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a track to the configured playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "track"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "playlist",
						Aliases: []string{"p"},
						Usage:   "Playlist link, URI or ID (defaults to vault.playlist_id)",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Add even if the track was added before",
					},
				},
				Action: r.PlaylistAdd,
			},
		},
	}
}
