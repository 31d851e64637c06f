// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "indexdeploy",
		Usage: "Content index build and deployment pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
				Value:   "indexdeploy.toml",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run the full pipeline: reconcile, enrich, publish, tag, deploy",
				Action: runCommand,
			},
			{
				Name:   "next-tag",
				Usage:  "Show the release tag the next run would create",
				Action: nextTagCommand,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the commits of a recorded run",
				Action: rollbackCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "run",
						Aliases:  []string{"r"},
						Usage:    "Run ID to roll back",
						Required: true,
					},
				},
			},
			{
				Name:   "runs",
				Usage:  "List recorded runs",
				Action: runsCommand,
			},
			{
				Name:   "logs",
				Usage:  "Show the log stream of a recorded run",
				Action: logsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "run",
						Aliases:  []string{"r"},
						Usage:    "Run ID to show logs for",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
