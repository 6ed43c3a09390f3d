// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/darkshelf/internal/platform/apperr"
	"github.com/taibuivan/darkshelf/internal/platform/database/schema"
	"github.com/taibuivan/darkshelf/internal/platform/dberr"
	"github.com/taibuivan/darkshelf/pkg/pointer"
	"github.com/taibuivan/darkshelf/pkg/slice"
)

// PostgresRepository implements [Repository] using a pgxpool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// bookViewSelect projects a book with its left-joined product line and edition.
// Column order must match [scanBookView].
var bookViewSelect = fmt.Sprintf(`
	SELECT %s,
	       %s,
	       %s
	FROM %s b
	LEFT JOIN %s pl ON pl.%s = b.%s
	LEFT JOIN %s e ON e.%s = b.%s`,
	qualify("b", schema.CatalogBook.Columns()),
	qualify("pl", schema.CatalogProductLine.Columns()),
	qualify("e", schema.CatalogEdition.Columns()),
	schema.CatalogBook.Table,
	schema.CatalogProductLine.Table, schema.CatalogProductLine.ID, schema.CatalogBook.ProductLineID,
	schema.CatalogEdition.Table, schema.CatalogEdition.ID, schema.CatalogBook.EditionID,
)

// # Book Projections

/*
ListBooks retrieves every book joined with its product line and edition.

Description: A book whose product line or edition is null (or points at a
missing row) is still returned, with the joined side left nil. No filtering
happens here; consumers filter client-side.

Parameters:
  - context: context.Context

Returns:
  - []*BookView: Books ordered by title
  - error: Database execution or scanning errors
*/
func (repository *PostgresRepository) ListBooks(context context.Context) ([]*BookView, error) {
	query := bookViewSelect + fmt.Sprintf(" ORDER BY b.%s ASC", schema.CatalogBook.Title)

	// Execute retrieval against connection pool
	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_books")
	}
	defer rows.Close()

	// Iterate results and hydrate entity slice
	books := make([]*BookView, 0)
	for rows.Next() {
		view, err := scanBookView(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_book")
		}
		books = append(books, view)
	}

	return books, dberr.Wrap(rows.Err(), "list_books")
}

/*
GetBook retrieves a single joined book together with its author credits.

Parameters:
  - context: context.Context
  - id: int book identifier

Returns:
  - *BookView: The hydrated book
  - error: apperr.NotFound if missing
*/
func (repository *PostgresRepository) GetBook(context context.Context, id int) (*BookView, error) {
	query := bookViewSelect + fmt.Sprintf(" WHERE b.%s = $1", schema.CatalogBook.ID)

	view, err := scanBookView(repository.db.QueryRow(context, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Book")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_book")
	}

	// Author credits live in the join table
	credits := fmt.Sprintf(`
		SELECT a.%s, a.%s, ba.%s
		FROM %s ba
		JOIN %s a ON a.%s = ba.%s
		WHERE ba.%s = $1
		ORDER BY a.%s ASC`,
		schema.CatalogAuthor.ID, schema.CatalogAuthor.Name, schema.CatalogBookAuthor.AuthorRole,
		schema.CatalogBookAuthor.Table,
		schema.CatalogAuthor.Table, schema.CatalogAuthor.ID, schema.CatalogBookAuthor.AuthorID,
		schema.CatalogBookAuthor.BookID,
		schema.CatalogAuthor.Name,
	)

	rows, err := repository.db.Query(context, credits, id)
	if err != nil {
		return nil, dberr.Wrap(err, "list_book_authors")
	}
	defer rows.Close()

	for rows.Next() {
		credit := Credit{}
		if err := rows.Scan(&credit.AuthorID, &credit.Name, &credit.Role); err != nil {
			return nil, dberr.Wrap(err, "scan_book_author")
		}
		view.Authors = append(view.Authors, credit)
	}

	return view, dberr.Wrap(rows.Err(), "list_book_authors")
}

// # Reference Projections

/*
ListProductLines retrieves all product lines with their book counts.

Description: Uses a left join so that lines without books appear with a count of 0.

Parameters:
  - context: context.Context

Returns:
  - []*ProductLineSummary: Lines ordered by name
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListProductLines(context context.Context) ([]*ProductLineSummary, error) {
	const query = `
		SELECT pl.product_line_id, pl.name, pl.setting, pl.abbreviation, pl.game_line, pl.world,
		       COUNT(b.book_id)
		FROM product_lines pl
		LEFT JOIN books b ON b.product_line_id = pl.product_line_id
		GROUP BY pl.product_line_id
		ORDER BY pl.name ASC;
	`

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_product_lines")
	}
	defer rows.Close()

	lines := make([]*ProductLineSummary, 0)
	for rows.Next() {
		line := &ProductLineSummary{}
		var world *string
		if err := rows.Scan(
			&line.ID, &line.Name, &line.Setting, &line.Abbreviation, &line.GameLine, &world,
			&line.BookCount,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_product_line")
		}
		line.World = toWorld(world)
		lines = append(lines, line)
	}

	return lines, dberr.Wrap(rows.Err(), "list_product_lines")
}

// ListEditions retrieves all editions ordered by sort order.
func (repository *PostgresRepository) ListEditions(context context.Context) ([]*Edition, error) {
	const query = `
		SELECT edition_id, name, COALESCE(sort_order, 0)
		FROM editions
		ORDER BY sort_order ASC, edition_id ASC;
	`

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_editions")
	}
	defer rows.Close()

	editions := make([]*Edition, 0)
	for rows.Next() {
		e := &Edition{}
		if err := rows.Scan(&e.ID, &e.Name, &e.SortOrder); err != nil {
			return nil, dberr.Wrap(err, "scan_edition")
		}
		editions = append(editions, e)
	}

	return editions, dberr.Wrap(rows.Err(), "list_editions")
}

// ListPublicationYears retrieves the distinct non-null years, newest first.
func (repository *PostgresRepository) ListPublicationYears(context context.Context) ([]int, error) {
	const query = `
		SELECT DISTINCT publication_year
		FROM books
		WHERE publication_year IS NOT NULL
		ORDER BY publication_year DESC;
	`

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_publication_years")
	}
	defer rows.Close()

	years := make([]int, 0)
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, dberr.Wrap(err, "scan_publication_year")
		}
		years = append(years, year)
	}

	return years, dberr.Wrap(rows.Err(), "list_publication_years")
}

// # Completion Statistics

/*
CompletionByProductLine computes the completion of every product line.

Description: Lines without books report zero counts and a 0 percentage.

Parameters:
  - context: context.Context

Returns:
  - []*ProductLineCompletion: One entry per line, ordered by name
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) CompletionByProductLine(context context.Context) ([]*ProductLineCompletion, error) {
	const query = `
		SELECT pl.product_line_id, pl.name,
		       COUNT(b.book_id),
		       COUNT(b.book_id) FILTER (WHERE b.collected)
		FROM product_lines pl
		LEFT JOIN books b ON b.product_line_id = pl.product_line_id
		GROUP BY pl.product_line_id, pl.name
		ORDER BY pl.name ASC;
	`

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "completion_by_product_line")
	}
	defer rows.Close()

	stats := make([]*ProductLineCompletion, 0)
	for rows.Next() {
		line := &ProductLineCompletion{}
		var total, collected int
		if err := rows.Scan(&line.ID, &line.Name, &total, &collected); err != nil {
			return nil, dberr.Wrap(err, "scan_product_line_completion")
		}
		line.CompletionStats = NewCompletionStats(total, collected)
		stats = append(stats, line)
	}

	return stats, dberr.Wrap(rows.Err(), "completion_by_product_line")
}

// OverallCompletion computes the completion across all books, whatever their product line.
func (repository *PostgresRepository) OverallCompletion(context context.Context) (CompletionStats, error) {
	const query = `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE collected)
		FROM books;
	`

	var total, collected int
	if err := repository.db.QueryRow(context, query).Scan(&total, &collected); err != nil {
		return CompletionStats{}, dberr.Wrap(err, "overall_completion")
	}

	return NewCompletionStats(total, collected), nil
}

/*
CompletionByWorld computes completion per known world.

Description: Books whose product line is null or has no recognised world are
excluded from every group. Worlds without books are still reported, with zeros.

Parameters:
  - context: context.Context

Returns:
  - []*WorldCompletion: One entry per [Worlds] element, in that order
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) CompletionByWorld(context context.Context) ([]*WorldCompletion, error) {
	const query = `
		SELECT pl.world,
		       COUNT(b.book_id),
		       COUNT(b.book_id) FILTER (WHERE b.collected)
		FROM books b
		JOIN product_lines pl ON pl.product_line_id = b.product_line_id
		WHERE pl.world = ANY($1)
		GROUP BY pl.world;
	`

	known := slice.Map(Worlds, func(w World) string { return string(w) })

	rows, err := repository.db.Query(context, query, known)
	if err != nil {
		return nil, dberr.Wrap(err, "completion_by_world")
	}
	defer rows.Close()

	counted := make(map[World]CompletionStats, len(Worlds))
	for rows.Next() {
		var world string
		var total, collected int
		if err := rows.Scan(&world, &total, &collected); err != nil {
			return nil, dberr.Wrap(err, "scan_world_completion")
		}
		counted[World(world)] = NewCompletionStats(total, collected)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "completion_by_world")
	}

	// Fixed order, zero-filled
	return slice.Map(Worlds, func(w World) *WorldCompletion {
		return &WorldCompletion{World: w, CompletionStats: counted[w]}
	}), nil
}

// # Collected State Mutations

/*
ToggleCollected flips the collected flag of one book.

Description: The read and the write happen in a single UPDATE ... RETURNING,
so the flip is atomic under the store's row lock. A missing row performs no write.

Parameters:
  - context: context.Context
  - id: int book identifier
  - updatedAt: time.Time modification stamp

Returns:
  - bool: The new collected value
  - error: apperr.NotFound if the book does not exist
*/
func (repository *PostgresRepository) ToggleCollected(context context.Context, id int, updatedAt time.Time) (bool, error) {
	const query = `
		UPDATE books
		SET collected = NOT COALESCE(collected, FALSE),
		    updated_at = $2
		WHERE book_id = $1
		RETURNING collected;
	`

	var collected bool
	err := repository.db.QueryRow(context, query, id, updatedAt).Scan(&collected)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, apperr.NotFound("Book")
	}
	if err != nil {
		return false, dberr.Wrap(err, "toggle_collected")
	}

	return collected, nil
}

/*
SetCollected sets the collected flag of every listed book in one transaction.

Parameters:
  - context: context.Context
  - ids: []int book identifiers (unknown ids are ignored)
  - value: bool target state
  - updatedAt: time.Time modification stamp

Returns:
  - int64: Number of rows actually updated
  - error: Database execution errors
*/
func (repository *PostgresRepository) SetCollected(context context.Context, ids []int, value bool, updatedAt time.Time) (int64, error) {
	const query = `
		UPDATE books
		SET collected = $2,
		    updated_at = $3
		WHERE book_id = ANY($1);
	`

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return 0, dberr.Wrap(err, "begin_set_collected")
	}

	// Rollback is a no-op once committed
	defer transaction.Rollback(context)

	result, err := transaction.Exec(context, query, ids, value, updatedAt)
	if err != nil {
		return 0, dberr.Wrap(err, "set_collected")
	}

	if err := transaction.Commit(context); err != nil {
		return 0, dberr.Wrap(err, "commit_set_collected")
	}

	return result.RowsAffected(), nil
}

/*
UpdateBook applies the set fields of a patch to one book.

Description: Builds the SET list from [BookPatch.Assignments], so only the
enumerated columns can ever be written. updated_at is always appended.

Parameters:
  - context: context.Context
  - id: int book identifier
  - patch: BookPatch
  - updatedAt: time.Time modification stamp

Returns:
  - error: apperr.NotFound, constraint violations or execution errors
*/
func (repository *PostgresRepository) UpdateBook(context context.Context, id int, patch BookPatch, updatedAt time.Time) error {
	assignments := patch.Assignments()
	if len(assignments) == 0 {
		return apperr.ValidationError("Nothing to update")
	}

	// $1 is the book id, fields follow
	args := []any{id}
	clauses := make([]string, 0, len(assignments)+1)
	for _, assignment := range assignments {
		args = append(args, assignment.Value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", assignment.Column, len(args)))
	}
	args = append(args, updatedAt)
	clauses = append(clauses, fmt.Sprintf("%s = $%d", schema.CatalogBook.UpdatedAt, len(args)))

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $1",
		schema.CatalogBook.Table,
		strings.Join(clauses, ", "),
		schema.CatalogBook.ID,
	)

	result, err := repository.db.Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, "update_book")
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Book")
	}

	return nil
}

// # Scanning Helpers

// scanBookView hydrates a [BookView] from a row produced by bookViewSelect.
func scanBookView(row pgx.Row) (*BookView, error) {
	view := &BookView{}
	book := &view.Book

	// Flags are nullable in the schema and default to false
	var retail, pod, collected, needsVerification *bool

	// Joined sides are entirely null when the reference is missing
	var lineID *int
	var lineName, lineWorld *string
	line := ProductLine{}

	var editionID, editionSort *int
	var editionName *string

	err := row.Scan(
		&book.ID, &book.WWCode, &book.Title, &book.ProductLineID, &book.EditionID, &book.PublicationYear,
		&book.ISBN10, &book.ISBN13, &book.PageCount, &retail, &pod, &collected,
		&book.SeriesName, &book.DataSource, &book.DataConfidence, &needsVerification, &book.CreatedAt, &book.UpdatedAt,
		&lineID, &lineName, &line.Setting, &line.Abbreviation, &line.GameLine, &lineWorld,
		&editionID, &editionName, &editionSort,
	)
	if err != nil {
		return nil, err
	}

	book.Retail = retail != nil && *retail
	book.POD = pod != nil && *pod
	book.Collected = collected != nil && *collected
	book.NeedsVerification = needsVerification != nil && *needsVerification

	if lineID != nil {
		line.ID = *lineID
		line.Name = pointer.Val(lineName)
		line.World = toWorld(lineWorld)
		view.ProductLine = &line
	}

	if editionID != nil {
		view.Edition = &Edition{ID: *editionID, Name: pointer.Val(editionName), SortOrder: pointer.Val(editionSort)}
	}

	return view, nil
}

// qualify prefixes every column with a table alias and joins them for a SELECT list.
func qualify(alias string, columns []string) string {
	qualified := make([]string, len(columns))
	for i, column := range columns {
		qualified[i] = alias + "." + column
	}
	return strings.Join(qualified, ", ")
}

// toWorld converts a nullable world column; unknown values are kept as-is.
func toWorld(value *string) *World {
	if value == nil {
		return nil
	}
	w := World(*value)
	return &w
}
