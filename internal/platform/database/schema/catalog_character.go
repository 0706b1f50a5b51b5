package schema

// CatalogCharacterTable represents the 'catalog.character' table
type CatalogCharacterTable struct {
	Table        string
	ID           string
	Name         string
	Status       string
	Species      string
	Type         string
	Gender       string
	OriginName   string
	OriginURL    string
	LocationName string
	LocationURL  string
	Image        string
	Episodes     string
	URL          string
	CreatedAt    string
	ArchivedAt   string
}

// CatalogCharacter is the schema definition for catalog.character
var CatalogCharacter = CatalogCharacterTable{
	Table:        "catalog.character",
	ID:           "id",
	Name:         "name",
	Status:       "status",
	Species:      "species",
	Type:         "type",
	Gender:       "gender",
	OriginName:   "originname",
	OriginURL:    "originurl",
	LocationName: "locationname",
	LocationURL:  "locationurl",
	Image:        "image",
	Episodes:     "episodes",
	URL:          "url",
	CreatedAt:    "createdat",
	ArchivedAt:   "archivedat",
}

// Columns lists every column except ArchivedAt, in scan order.
func (t CatalogCharacterTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Status, t.Species, t.Type, t.Gender,
		t.OriginName, t.OriginURL, t.LocationName, t.LocationURL,
		t.Image, t.Episodes, t.URL, t.CreatedAt,
	}
}
