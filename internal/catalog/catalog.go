/*
Package catalog owns the book collection: the reference data books hang off
(product lines, editions), the books themselves, and the single piece of user
state on a book, its collected flag.

# Core Responsibility

  - Query Layer: read-only projections (book list, reference lists, completion statistics).
  - Mutation Layer: the only write surface (toggle, bulk set, enumerated patch).
  - Staleness: every successful mutation tells consumers that fetched projections are outdated.

Percentages are always round(collected/total*100) and 0 for an empty group.
*/
package catalog

import (
	"math"
	"time"
)

// # World Domain

// World classifies product lines into the two settings of the catalog.
type World string

const (
	// WorldOld is the Old World of Darkness.
	WorldOld World = "oWoD"
	// WorldChronicles is the Chronicles of Darkness.
	WorldChronicles World = "CoD"
)

// Worlds lists every world in display order.
var Worlds = []World{WorldOld, WorldChronicles}

// Valid reports whether w is one of the known worlds.
func (w World) Valid() bool {
	return w == WorldOld || w == WorldChronicles
}

// # Reference Domain

// ProductLine is a named series or imprint books belong to.
type ProductLine struct {
	ID           int     `json:"product_line_id"`
	Name         string  `json:"name"`
	Setting      *string `json:"setting"`
	Abbreviation *string `json:"abbreviation"`
	GameLine     *string `json:"game_line"`
	World        *World  `json:"world"`
}

// ProductLineSummary is a product line with the number of books referencing it.
type ProductLineSummary struct {
	ProductLine
	BookCount int `json:"book_count"`
}

// Edition is a printing/revision category with a display order.
type Edition struct {
	ID        int    `json:"edition_id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// Credit links an author to a book under a role (writer, developer, artist...).
type Credit struct {
	AuthorID int     `json:"author_id"`
	Name     string  `json:"name"`
	Role     *string `json:"role"`
}

// # Book Domain

// Book is a single catalog item. Collected is the only field users change day to day.
type Book struct {
	ID                int        `json:"book_id"`
	WWCode            *int       `json:"ww_code"`
	Title             string     `json:"title"`
	ProductLineID     *int       `json:"product_line_id"`
	EditionID         *int       `json:"edition_id"`
	PublicationYear   *int       `json:"publication_year"`
	ISBN10            *string    `json:"isbn_10"`
	ISBN13            *string    `json:"isbn_13"`
	PageCount         *int       `json:"page_count"`
	Retail            bool       `json:"retail"`
	POD               bool       `json:"pod"`
	Collected         bool       `json:"collected"`
	SeriesName        *string    `json:"series_name"`
	DataSource        *string    `json:"data_source"`
	DataConfidence    *string    `json:"data_confidence"`
	NeedsVerification bool       `json:"needs_verification"`
	CreatedAt         *time.Time `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

// BookView is a book joined with its product line and edition.
// Either side is nil when the reference is null or dangling.
type BookView struct {
	Book
	ProductLine *ProductLine `json:"product_line"`
	Edition     *Edition     `json:"edition"`

	// Authors is only populated on single-book lookups.
	Authors []Credit `json:"authors,omitempty"`
}

// # Statistics Domain

// CompletionStats is the collected/total triple shared by every statistic.
type CompletionStats struct {
	TotalBooks     int `json:"total_books"`
	CollectedBooks int `json:"collected_books"`
	Percentage     int `json:"percentage"`
}

// ProductLineCompletion is the completion of a single product line.
type ProductLineCompletion struct {
	ID   int    `json:"product_line_id"`
	Name string `json:"name"`
	CompletionStats
}

// WorldCompletion is the completion of every product line in a world.
type WorldCompletion struct {
	World World `json:"world"`
	CompletionStats
}

// NewCompletionStats builds the triple from raw counts.
func NewCompletionStats(total, collected int) CompletionStats {
	return CompletionStats{
		TotalBooks:     total,
		CollectedBooks: collected,
		Percentage:     Percentage(collected, total),
	}
}

// Percentage returns round(collected/total*100), or 0 when total is not positive.
func Percentage(collected, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(collected) / float64(total) * 100))
}

// # Field Identifiers

// JSON field names used in validation details.
const (
	FieldBookID          = "book_id"
	FieldBookIDs         = "book_ids"
	FieldCollected       = "collected"
	FieldTitle           = "title"
	FieldPublicationYear = "publication_year"
	FieldPageCount       = "page_count"
	FieldISBN10          = "isbn_10"
	FieldISBN13          = "isbn_13"
	FieldSeriesName      = "series_name"
	FieldDataSource      = "data_source"
	FieldDataConfidence  = "data_confidence"
	FieldWWCode          = "ww_code"
	FieldProductLineID   = "product_line_id"
	FieldEditionID       = "edition_id"
	FieldPatch           = "patch"
)
