package schema

// CatalogProductLineTable represents the 'product_lines' table
type CatalogProductLineTable struct {
	Table        string
	ID           string
	Name         string
	Setting      string
	Abbreviation string
	GameLine     string
	World        string
}

// CatalogProductLine is the schema definition for product_lines
var CatalogProductLine = CatalogProductLineTable{
	Table:        "product_lines",
	ID:           "product_line_id",
	Name:         "name",
	Setting:      "setting",
	Abbreviation: "abbreviation",
	GameLine:     "game_line",
	World:        "world",
}

func (t CatalogProductLineTable) Columns() []string {
	return []string{t.ID, t.Name, t.Setting, t.Abbreviation, t.GameLine, t.World}
}
