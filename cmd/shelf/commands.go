// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/taibuivan/darkshelf/internal/browse"
	"github.com/taibuivan/darkshelf/internal/catalog"
	"github.com/taibuivan/darkshelf/internal/client"
	"github.com/taibuivan/darkshelf/internal/platform/apperr"
	"github.com/taibuivan/darkshelf/internal/shadow"
	"github.com/taibuivan/darkshelf/pkg/optional"
	"github.com/taibuivan/darkshelf/pkg/pointer"
)

type writer = io.Writer

// Flag names.
const (
	flagServer    = "server"
	flagWorld     = "world"
	flagSearch    = "search"
	flagLine      = "line"
	flagEdition   = "edition"
	flagOwned     = "owned"
	flagSort      = "sort"
	flagDesc      = "desc"
	flagStrict    = "strict"
	flagCollected = "collected"
	flagTitle     = "title"
	flagYear      = "year"
	flagClearYear = "clear-year"
	flagSeries    = "series"
	flagVerify    = "needs-verification"
)

// shell holds the state shared by every command.
type shell struct {
	out    writer
	mu     sync.Mutex
	client *client.Client
}

func (shell *shell) connect(c *cli.Context) error {
	apiClient, err := client.New(c.String(flagServer))
	if err != nil {
		return err
	}
	shell.client = apiClient
	return nil
}

func (shell *shell) printf(format string, args ...any) {
	shell.mu.Lock()
	defer shell.mu.Unlock()
	fmt.Fprintf(shell.out, format, args...)
}

// # Browsing

func (shell *shell) list(c *cli.Context) error {
	filter, err := filterFrom(c)
	if err != nil {
		return cli.Exit(describe(err), 2)
	}

	key, err := browse.ParseSortKey(c.String(flagSort))
	if err != nil {
		return cli.Exit(describe(err), 2)
	}

	page, err := shell.client.LoadPage(c.Context)
	if err != nil {
		return err
	}

	books := browse.Sort{Key: key, Desc: c.Bool(flagDesc)}.Apply(filter.Apply(page.Books))

	table := tabwriter.NewWriter(shell.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "ID\tWW\tTITLE\tLINE\tEDITION\tYEAR\tOWNED")
	for _, book := range books {
		fmt.Fprintf(table, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			book.ID,
			optionalInt(book.WWCode),
			book.Title,
			lineName(book),
			editionName(book),
			optionalInt(book.PublicationYear),
			ownedMark(book.Collected),
		)
	}
	if err := table.Flush(); err != nil {
		return err
	}

	all := browse.WorldTotals(page.WorldStats)
	shell.printf("\n%d of %d shown. All books %d/%d\n", len(books), len(page.Books), all.CollectedBooks, all.TotalBooks)
	return nil
}

func (shell *shell) show(c *cli.Context) error {
	ids, err := bookIDs(c, 1)
	if err != nil {
		return err
	}

	book, err := shell.client.GetBook(c.Context, ids[0])
	if err != nil {
		return err
	}

	shell.printf("%s\n", book.Title)
	shell.printf("  id:        %d\n", book.ID)
	shell.printf("  ww code:   %s\n", optionalInt(book.WWCode))
	shell.printf("  line:      %s\n", lineName(book))
	shell.printf("  edition:   %s\n", editionName(book))
	shell.printf("  year:      %s\n", optionalInt(book.PublicationYear))
	shell.printf("  isbn:      %s\n", pointer.Fallback(book.ISBN13, pointer.Fallback(book.ISBN10, "-")))
	shell.printf("  collected: %s\n", ownedMark(book.Collected))

	for _, credit := range book.Authors {
		shell.printf("  %-10s %s\n", pointer.Fallback(credit.Role, "author")+":", credit.Name)
	}
	return nil
}

func (shell *shell) stats(c *cli.Context) error {
	page, err := shell.client.LoadPage(c.Context)
	if err != nil {
		return err
	}

	all := browse.WorldTotals(page.WorldStats)
	shell.printf("All books            %4d/%-4d %3d%%\n", all.CollectedBooks, all.TotalBooks, all.Percentage)
	for _, world := range page.WorldStats {
		shell.printf("%-20s %4d/%-4d %3d%%\n", worldLabel(world.World), world.CollectedBooks, world.TotalBooks, world.Percentage)
	}

	shell.printf("\nCollection progress\n")
	table := tabwriter.NewWriter(shell.out, 0, 4, 2, ' ', 0)
	for _, line := range browse.Progress(page.LineStats) {
		fmt.Fprintf(table, "%s\t%d/%d\t%d%%\t%s\n", line.Name, line.CollectedBooks, line.TotalBooks, line.Percentage, browse.BandOf(line.Percentage))
	}
	return table.Flush()
}

func (shell *shell) version(c *cli.Context) error {
	version, err := shell.client.Version(c.Context)
	if err != nil {
		return err
	}
	shell.printf("%d\n", version)
	return nil
}

// # Mutations

func (shell *shell) toggle(c *cli.Context) error {
	ids, err := bookIDs(c, -1)
	if err != nil {
		return err
	}

	books, err := shell.client.ListBooks(c.Context)
	if err != nil {
		return err
	}

	policy := shadow.PolicyIndependent
	if c.Bool(flagStrict) {
		policy = shadow.PolicyPendingLock
	}

	var failed int
	coordinator := shadow.New(shell.client, books,
		shadow.WithPolicy(policy),
		shadow.WithNotifier(func(n shadow.Notification) {
			if n.Success {
				shell.printf("#%d %s\n", n.BookID, n.Message)
				return
			}
			shell.mu.Lock()
			failed++
			shell.mu.Unlock()
			shell.printf("#%d reverted to %s: %s\n", n.BookID, ownedMark(n.Collected), n.Message)
		}),
	)

	for _, id := range ids {
		value, err := coordinator.Toggle(c.Context, id)
		if err != nil {
			shell.printf("#%d skipped: %v\n", id, err)
			continue
		}
		shell.printf("#%d -> %s (pending)\n", id, ownedMark(value))
	}

	coordinator.Wait()

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d toggle(s) failed", failed), 1)
	}
	return nil
}

func (shell *shell) mark(c *cli.Context) error {
	ids, err := bookIDs(c, -1)
	if err != nil {
		return err
	}

	result, err := shell.client.BulkSetCollected(c.Context, ids, c.Bool(flagCollected))
	if err != nil {
		return err
	}
	if !result.Success {
		return cli.Exit(result.Error, 1)
	}

	shell.printf("%s\n", result.Message)
	return nil
}

func (shell *shell) edit(c *cli.Context) error {
	ids, err := bookIDs(c, 1)
	if err != nil {
		return err
	}

	var patch catalog.BookPatch
	if c.IsSet(flagTitle) {
		patch.Title = optional.Of(c.String(flagTitle))
	}
	if c.IsSet(flagYear) {
		patch.PublicationYear = optional.Of(pointer.To(c.Int(flagYear)))
	}
	if c.Bool(flagClearYear) {
		patch.PublicationYear = optional.Of[*int](nil)
	}
	if c.IsSet(flagSeries) {
		patch.SeriesName = optional.Of(pointer.To(c.String(flagSeries)))
	}
	if c.IsSet(flagVerify) {
		patch.NeedsVerification = optional.Of(c.Bool(flagVerify))
	}

	result, err := shell.client.UpdateBook(c.Context, ids[0], patch)
	if err != nil {
		return err
	}
	if !result.Success {
		return cli.Exit(result.Error, 1)
	}

	shell.printf("%s\n", result.Message)
	return nil
}

// # Helpers

func filterFrom(c *cli.Context) (browse.Filter, error) {
	ownership, err := browse.ParseOwnership(c.String(flagOwned))
	if err != nil {
		return browse.Filter{}, err
	}

	filter := browse.Filter{
		Search:      c.String(flagSearch),
		ProductLine: c.String(flagLine),
		Edition:     c.String(flagEdition),
		Collected:   ownership,
	}

	if raw := c.String(flagWorld); raw != "" {
		world := catalog.World(raw)
		if !world.Valid() {
			return browse.Filter{}, fmt.Errorf("unknown world %q (want oWoD or CoD)", raw)
		}
		filter.World = &world
	}

	return filter, nil
}

// bookIDs parses positional ids. want < 0 accepts one or more.
func bookIDs(c *cli.Context, want int) ([]int, error) {
	args := c.Args().Slice()
	if len(args) == 0 || (want > 0 && len(args) != want) {
		return nil, cli.Exit("expected "+c.Command.ArgsUsage, 2)
	}

	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil || id <= 0 {
			return nil, cli.Exit(fmt.Sprintf("invalid book id %q", arg), 2)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// describe flattens validation details into one line.
func describe(err error) string {
	appError := apperr.As(err)
	if appError == nil || len(appError.Details) == 0 {
		return err.Error()
	}

	parts := make([]string, 0, len(appError.Details))
	for _, detail := range appError.Details {
		parts = append(parts, "--"+detail.Field+": "+detail.Message)
	}
	return strings.Join(parts, "; ")
}

func optionalInt(value *int) string {
	if value == nil {
		return "-"
	}
	return strconv.Itoa(*value)
}

func lineName(book *catalog.BookView) string {
	if book.ProductLine == nil {
		return "-"
	}
	return book.ProductLine.Name
}

func editionName(book *catalog.BookView) string {
	if book.Edition == nil {
		return "-"
	}
	return book.Edition.Name
}

func ownedMark(collected bool) string {
	if collected {
		return "yes"
	}
	return "no"
}

func worldLabel(world catalog.World) string {
	switch world {
	case catalog.WorldOld:
		return "Old World of Darkness"
	case catalog.WorldChronicles:
		return "Chronicles of Darkness"
	}
	return strings.TrimSpace(string(world))
}
