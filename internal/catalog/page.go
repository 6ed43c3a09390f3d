// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/darkshelf/internal/platform/ctxutil"
)

// # Page Load

// Page bundles every projection a shell needs to render the catalog once.
type Page struct {
	Books        []*BookView              `json:"books"`
	ProductLines []*ProductLineSummary    `json:"product_lines"`
	Editions     []*Edition               `json:"editions"`
	Years        []int                    `json:"years"`
	LineStats    []*ProductLineCompletion `json:"product_line_stats"`
	Overall      CompletionStats          `json:"overall_stats"`
	WorldStats   []*WorldCompletion       `json:"world_stats"`
	Version      int64                    `json:"version"`
}

/*
LoadPage runs every read projection concurrently and joins them.

Description: All projections must succeed. The first failure cancels the
others and fails the whole load, so a shell never renders a partial page.
The version is read first, so a mutation racing the load can only make the
page look older than it is, never newer. An unreadable version is reported as 0.

Parameters:
  - context: context.Context

Returns:
  - *Page: Every projection
  - error: The first projection failure
*/
func (service *Service) LoadPage(context context.Context) (*Page, error) {
	page := &Page{}

	// A missing version only weakens staleness detection
	version, err := service.Version(context)
	if err != nil {
		ctxutil.LoggerOr(context, service.logger).WarnContext(context, "catalog_version_unavailable",
			slog.Any("error", err),
		)
	}
	page.Version = version

	group, groupContext := errgroup.WithContext(context)

	group.Go(func() (err error) {
		page.Books, err = service.ListBooks(groupContext)
		return err
	})
	group.Go(func() (err error) {
		page.ProductLines, err = service.ListProductLines(groupContext)
		return err
	})
	group.Go(func() (err error) {
		page.Editions, err = service.ListEditions(groupContext)
		return err
	})
	group.Go(func() (err error) {
		page.Years, err = service.ListPublicationYears(groupContext)
		return err
	})
	group.Go(func() (err error) {
		page.LineStats, err = service.CompletionByProductLine(groupContext)
		return err
	})
	group.Go(func() (err error) {
		page.Overall, err = service.OverallCompletion(groupContext)
		return err
	})
	group.Go(func() (err error) {
		page.WorldStats, err = service.CompletionByWorld(groupContext)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return page, nil
}
