// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"github.com/taibuivan/darkshelf/internal/platform/database/schema"
	"github.com/taibuivan/darkshelf/internal/platform/validate"
	"github.com/taibuivan/darkshelf/pkg/optional"
)

// # Partial Update

// BookPatch enumerates every book column a caller may change.
//
// Only fields that are set are written. Nullable columns wrap a pointer so an
// explicit null clears them. Identity and timestamps are not patchable;
// updated_at is always refreshed by the store.
type BookPatch struct {
	WWCode            optional.Value[*int]    `json:"ww_code,omitzero"`
	Title             optional.Value[string]  `json:"title,omitzero"`
	ProductLineID     optional.Value[*int]    `json:"product_line_id,omitzero"`
	EditionID         optional.Value[*int]    `json:"edition_id,omitzero"`
	PublicationYear   optional.Value[*int]    `json:"publication_year,omitzero"`
	ISBN10            optional.Value[*string] `json:"isbn_10,omitzero"`
	ISBN13            optional.Value[*string] `json:"isbn_13,omitzero"`
	PageCount         optional.Value[*int]    `json:"page_count,omitzero"`
	Retail            optional.Value[bool]    `json:"retail,omitzero"`
	POD               optional.Value[bool]    `json:"pod,omitzero"`
	Collected         optional.Value[bool]    `json:"collected,omitzero"`
	SeriesName        optional.Value[*string] `json:"series_name,omitzero"`
	DataSource        optional.Value[*string] `json:"data_source,omitzero"`
	DataConfidence    optional.Value[*string] `json:"data_confidence,omitzero"`
	NeedsVerification optional.Value[bool]    `json:"needs_verification,omitzero"`
}

// Assignment is a single column = value pair produced from a [BookPatch].
type Assignment struct {
	Column string
	Value  any
}

// Assignments lists the set fields in a stable column order.
func (p BookPatch) Assignments() []Assignment {
	book := schema.CatalogBook
	var out []Assignment

	add := func(column string, value any, set bool) {
		if set {
			out = append(out, Assignment{Column: column, Value: value})
		}
	}

	wwCode, ok := p.WWCode.Get()
	add(book.WWCode, wwCode, ok)
	title, ok := p.Title.Get()
	add(book.Title, title, ok)
	productLineID, ok := p.ProductLineID.Get()
	add(book.ProductLineID, productLineID, ok)
	editionID, ok := p.EditionID.Get()
	add(book.EditionID, editionID, ok)
	year, ok := p.PublicationYear.Get()
	add(book.PublicationYear, year, ok)
	isbn10, ok := p.ISBN10.Get()
	add(book.ISBN10, isbn10, ok)
	isbn13, ok := p.ISBN13.Get()
	add(book.ISBN13, isbn13, ok)
	pageCount, ok := p.PageCount.Get()
	add(book.PageCount, pageCount, ok)
	retail, ok := p.Retail.Get()
	add(book.Retail, retail, ok)
	pod, ok := p.POD.Get()
	add(book.POD, pod, ok)
	collected, ok := p.Collected.Get()
	add(book.Collected, collected, ok)
	series, ok := p.SeriesName.Get()
	add(book.SeriesName, series, ok)
	source, ok := p.DataSource.Get()
	add(book.DataSource, source, ok)
	confidence, ok := p.DataConfidence.Get()
	add(book.DataConfidence, confidence, ok)
	verify, ok := p.NeedsVerification.Get()
	add(book.NeedsVerification, verify, ok)

	return out
}

// IsEmpty reports whether no field is set.
func (p BookPatch) IsEmpty() bool {
	return len(p.Assignments()) == 0
}

// Validate checks the set fields against the column limits of the books table.
func (p BookPatch) Validate() error {
	validator := &validate.Validator{}

	validator.Custom(FieldPatch, p.IsEmpty(), "At least one field must be provided")

	if title, ok := p.Title.Get(); ok {
		validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, 500)
	}

	if year, ok := p.PublicationYear.Get(); ok && year != nil {
		validator.Range(FieldPublicationYear, *year, 1900, 2100)
	}
	if pages, ok := p.PageCount.Get(); ok && pages != nil {
		validator.Range(FieldPageCount, *pages, 0, 32767)
	}
	if code, ok := p.WWCode.Get(); ok && code != nil {
		validator.Custom(FieldWWCode, *code < 0, "Must not be negative")
	}
	if id, ok := p.ProductLineID.Get(); ok && id != nil {
		validator.Custom(FieldProductLineID, *id <= 0, "Must be a positive identifier")
	}
	if id, ok := p.EditionID.Get(); ok && id != nil {
		validator.Custom(FieldEditionID, *id <= 0, "Must be a positive identifier")
	}

	maxLen := func(field string, value optional.Value[*string], max int) {
		if v, ok := value.Get(); ok && v != nil {
			validator.MaxLen(field, *v, max)
		}
	}
	maxLen(FieldISBN10, p.ISBN10, 20)
	maxLen(FieldISBN13, p.ISBN13, 20)
	maxLen(FieldSeriesName, p.SeriesName, 255)
	maxLen(FieldDataSource, p.DataSource, 100)
	maxLen(FieldDataConfidence, p.DataConfidence, 50)

	return validator.Err()
}
