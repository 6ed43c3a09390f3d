// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command shelf is a terminal shell for a Darkshelf API server.
//
// It fetches the catalog once per command, filters and sorts it locally, and
// applies collected toggles optimistically: the new state is printed at once
// and reverted if the server refuses it.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/taibuivan/darkshelf/internal/platform/constants"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newApp(os.Stdout).RunContext(ctx, os.Args); err != nil {
		logger.Error("shelf_failed", slog.Any("error", err))
		cancel()
		os.Exit(1)
	}
}

// newApp builds the command tree writing to out.
func newApp(out writer) *cli.App {
	shell := &shell{out: out}

	return &cli.App{
		Name:    "shelf",
		Usage:   "browse and curate a World of Darkness book collection",
		Version: constants.AppVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagServer,
				Value:   "http://localhost:8080",
				Usage:   "base URL of the Darkshelf API",
				EnvVars: []string{"SHELF_SERVER"},
			},
		},
		Before: shell.connect,
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list books with optional filters",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagWorld, Usage: "oWoD or CoD"},
					&cli.StringFlag{Name: flagSearch, Aliases: []string{"q"}, Usage: "match title or product line"},
					&cli.StringFlag{Name: flagLine, Usage: "exact product line name"},
					&cli.StringFlag{Name: flagEdition, Usage: "exact edition name"},
					&cli.StringFlag{Name: flagOwned, Value: "all", Usage: "all, collected or uncollected"},
					&cli.StringFlag{Name: flagSort, Value: "title", Usage: "title, publication_year, ww_code or collected"},
					&cli.BoolFlag{Name: flagDesc, Usage: "sort descending"},
				},
				Action: shell.list,
			},
			{
				Name:      "show",
				Usage:     "show one book with its credits",
				ArgsUsage: "BOOK_ID",
				Action:    shell.show,
			},
			{
				Name:   "stats",
				Usage:  "show completion per world and product line",
				Action: shell.stats,
			},
			{
				Name:      "toggle",
				Usage:     "flip the collected flag of one or more books",
				ArgsUsage: "BOOK_ID...",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: flagStrict, Usage: "refuse a second toggle of a book still in flight"},
				},
				Action: shell.toggle,
			},
			{
				Name:      "mark",
				Usage:     "set the collected flag of several books at once",
				ArgsUsage: "BOOK_ID...",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: flagCollected, Value: true, Usage: "target state"},
				},
				Action: shell.mark,
			},
			{
				Name:      "edit",
				Usage:     "change editable fields of a book",
				ArgsUsage: "BOOK_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagTitle, Usage: "new title"},
					&cli.IntFlag{Name: flagYear, Usage: "publication year"},
					&cli.BoolFlag{Name: flagClearYear, Usage: "clear the publication year"},
					&cli.StringFlag{Name: flagSeries, Usage: "series name"},
					&cli.BoolFlag{Name: flagVerify, Usage: "flag the record as needing verification"},
				},
				Action: shell.edit,
			},
			{
				Name:   "version",
				Usage:  "print the catalog staleness counter",
				Action: shell.version,
			},
		},
	}
}
