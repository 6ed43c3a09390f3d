package schema

// CatalogEditionTable represents the 'editions' table
type CatalogEditionTable struct {
	Table     string
	ID        string
	Name      string
	SortOrder string
}

// CatalogEdition is the schema definition for editions
var CatalogEdition = CatalogEditionTable{
	Table:     "editions",
	ID:        "edition_id",
	Name:      "name",
	SortOrder: "sort_order",
}

func (t CatalogEditionTable) Columns() []string { return []string{t.ID, t.Name, t.SortOrder} }
