// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package browse filters, sorts and summarises an already fetched catalog.

Everything here is pure and runs client-side on the full book list; the
catalog service never filters. Search folds case and diacritics so that
"mage" also matches "Magé".
*/
package browse

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/darkshelf/internal/catalog"
	"github.com/taibuivan/darkshelf/internal/platform/validate"
	"github.com/taibuivan/darkshelf/pkg/slice"
)

// # Filtering

// Field names reported by the parse helpers.
const (
	FieldOwnership = "owned"
	FieldSortKey   = "sort"
)

// Ownership restricts a listing by collected state.
type Ownership string

const (
	OwnershipAll         Ownership = "all"
	OwnershipCollected   Ownership = "collected"
	OwnershipUncollected Ownership = "uncollected"
)

// ParseOwnership accepts "", "all", "collected" and "uncollected", ignoring case.
func ParseOwnership(value string) (Ownership, error) {
	ownership := Ownership(strings.ToLower(value))
	if ownership == "" {
		return OwnershipAll, nil
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldOwnership, string(ownership),
		string(OwnershipAll), string(OwnershipCollected), string(OwnershipUncollected))
	if err := validator.Err(); err != nil {
		return "", err
	}
	return ownership, nil
}

// Filter narrows a book list. Zero values match everything.
type Filter struct {
	// World keeps only books whose product line belongs to it.
	World *catalog.World

	// Search matches title or product line name, ignoring case and accents.
	Search string

	// ProductLine and Edition match by exact name.
	ProductLine string
	Edition     string

	Collected Ownership
}

// Apply returns the books matching every criterion, in input order.
func (filter Filter) Apply(books []*catalog.BookView) []*catalog.BookView {
	needle := Fold(strings.TrimSpace(filter.Search))

	return slice.Filter(books, func(book *catalog.BookView) bool {
		line := book.ProductLine

		if filter.World != nil {
			if line == nil || line.World == nil || *line.World != *filter.World {
				return false
			}
		}

		if needle != "" {
			inTitle := strings.Contains(Fold(book.Title), needle)
			inLine := line != nil && strings.Contains(Fold(line.Name), needle)
			if !inTitle && !inLine {
				return false
			}
		}

		if filter.ProductLine != "" && (line == nil || line.Name != filter.ProductLine) {
			return false
		}

		if filter.Edition != "" && (book.Edition == nil || book.Edition.Name != filter.Edition) {
			return false
		}

		switch filter.Collected {
		case OwnershipCollected:
			return book.Collected
		case OwnershipUncollected:
			return !book.Collected
		}

		return true
	})
}

// Fold lower-cases s and strips combining marks.
func Fold(s string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)

	folded, _, err := transform.String(folder, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// # Sorting

// SortKey names a sortable column.
type SortKey string

const (
	SortTitle           SortKey = "title"
	SortPublicationYear SortKey = "publication_year"
	SortWWCode          SortKey = "ww_code"
	SortCollected       SortKey = "collected"
)

// ParseSortKey accepts the column names above; empty means title.
func ParseSortKey(value string) (SortKey, error) {
	if value == "" {
		return SortTitle, nil
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldSortKey, value,
		string(SortTitle), string(SortPublicationYear), string(SortWWCode), string(SortCollected))
	if err := validator.Err(); err != nil {
		return "", err
	}
	return SortKey(value), nil
}

// Sort orders a book list by one column.
type Sort struct {
	Key  SortKey
	Desc bool
}

// Toggle mimics clicking a column header: same key flips direction, a new key starts ascending.
func (s Sort) Toggle(key SortKey) Sort {
	if s.Key == key && !s.Desc {
		return Sort{Key: key, Desc: true}
	}
	return Sort{Key: key}
}

// Apply returns a sorted copy. Missing values always sort last, whatever the direction.
func (s Sort) Apply(books []*catalog.BookView) []*catalog.BookView {
	sorted := slices.Clone(books)

	slices.SortStableFunc(sorted, func(a, b *catalog.BookView) int {
		switch s.Key {
		case SortPublicationYear:
			return compareNullable(a.PublicationYear, b.PublicationYear, s.Desc)
		case SortWWCode:
			return compareNullable(a.WWCode, b.WWCode, s.Desc)
		case SortCollected:
			return direct(compareBool(a.Collected, b.Collected), s.Desc)
		default:
			return direct(strings.Compare(a.Title, b.Title), s.Desc)
		}
	})

	return sorted
}

func compareNullable(a, b *int, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return direct(*a-*b, desc)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

func direct(cmp int, desc bool) int {
	if desc {
		return -cmp
	}
	return cmp
}

// # Progress

// Band buckets a percentage for display.
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// BandOf returns high from 67%, medium from 34%, low otherwise.
func BandOf(percentage int) Band {
	switch {
	case percentage >= 67:
		return BandHigh
	case percentage >= 34:
		return BandMedium
	}
	return BandLow
}

// Progress hides empty product lines and orders the rest by percentage
// (highest first), then by name.
func Progress(stats []*catalog.ProductLineCompletion) []*catalog.ProductLineCompletion {
	visible := slice.Filter(stats, func(stat *catalog.ProductLineCompletion) bool {
		return stat.TotalBooks > 0
	})

	slices.SortStableFunc(visible, func(a, b *catalog.ProductLineCompletion) int {
		if a.Percentage != b.Percentage {
			return b.Percentage - a.Percentage
		}
		return strings.Compare(a.Name, b.Name)
	})

	return visible
}

// WorldTotals sums the per-world statistics into the "All books" figures.
func WorldTotals(stats []*catalog.WorldCompletion) catalog.CompletionStats {
	total := slice.Reduce(stats, 0, func(sum int, stat *catalog.WorldCompletion) int { return sum + stat.TotalBooks })
	collected := slice.Reduce(stats, 0, func(sum int, stat *catalog.WorldCompletion) int { return sum + stat.CollectedBooks })

	return catalog.NewCompletionStats(total, collected)
}
