package schema

// CatalogAuthorTable represents the 'authors' table
type CatalogAuthorTable struct {
	Table string
	ID    string
	Name  string
}

// CatalogAuthor is the schema definition for authors
var CatalogAuthor = CatalogAuthorTable{
	Table: "authors",
	ID:    "author_id",
	Name:  "name",
}

func (t CatalogAuthorTable) Columns() []string { return []string{t.ID, t.Name} }

// CatalogBookAuthorTable represents the 'book_authors' join table
type CatalogBookAuthorTable struct {
	Table      string
	BookID     string
	AuthorID   string
	AuthorRole string
}

// CatalogBookAuthor is the schema definition for book_authors
var CatalogBookAuthor = CatalogBookAuthorTable{
	Table:      "book_authors",
	BookID:     "book_id",
	AuthorID:   "author_id",
	AuthorRole: "author_role",
}

func (t CatalogBookAuthorTable) Columns() []string { return []string{t.BookID, t.AuthorID, t.AuthorRole} }
