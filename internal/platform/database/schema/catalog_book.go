package schema

// CatalogBookTable represents the 'books' table
type CatalogBookTable struct {
	Table             string
	ID                string
	WWCode            string
	Title             string
	ProductLineID     string
	EditionID         string
	PublicationYear   string
	ISBN10            string
	ISBN13            string
	PageCount         string
	Retail            string
	POD               string
	Collected         string
	SeriesName        string
	DataSource        string
	DataConfidence    string
	NeedsVerification string
	CreatedAt         string
	UpdatedAt         string
}

// CatalogBook is the schema definition for books
var CatalogBook = CatalogBookTable{
	Table:             "books",
	ID:                "book_id",
	WWCode:            "ww_code",
	Title:             "title",
	ProductLineID:     "product_line_id",
	EditionID:         "edition_id",
	PublicationYear:   "publication_year",
	ISBN10:            "isbn_10",
	ISBN13:            "isbn_13",
	PageCount:         "page_count",
	Retail:            "retail",
	POD:               "pod",
	Collected:         "collected",
	SeriesName:        "series_name",
	DataSource:        "data_source",
	DataConfidence:    "data_confidence",
	NeedsVerification: "needs_verification",
	CreatedAt:         "created_at",
	UpdatedAt:         "updated_at",
}

func (t CatalogBookTable) Columns() []string {
	return []string{
		t.ID, t.WWCode, t.Title, t.ProductLineID, t.EditionID, t.PublicationYear,
		t.ISBN10, t.ISBN13, t.PageCount, t.Retail, t.POD, t.Collected,
		t.SeriesName, t.DataSource, t.DataConfidence, t.NeedsVerification, t.CreatedAt, t.UpdatedAt,
	}
}
