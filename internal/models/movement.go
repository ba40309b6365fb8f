package models

import "time"

// ImportedAnimal is the write-once audit copy recorded when an animal enters
// a farm's active herd. It shares its ID with the live animal row it mirrors.
type ImportedAnimal struct {
	ID             string       `db:"id" json:"id"`
	Species        string       `db:"species" json:"species"`
	Breed          string       `db:"breed" json:"breed"`
	Age            int          `db:"age" json:"age"`
	MedicalHistory string       `db:"medical_history" json:"medical_history"`
	HealthStatus   HealthStatus `db:"health_status" json:"health_status"`
	Disease        *string      `db:"disease" json:"disease,omitempty"`
	Quantity       int          `db:"quantity" json:"quantity"`
	FarmID         string       `db:"farm_id" json:"farm_id"`
	Origin         string       `db:"origin" json:"origin"`
	ImportedAt     time.Time    `db:"imported_at" json:"imported_at"`
}

// ExportedAnimal is the write-once audit copy recorded when an animal leaves
// the active herd. The live animal row is deleted in the same batch.
type ExportedAnimal struct {
	ID          string    `db:"id" json:"id"`
	Species     string    `db:"species" json:"species"`
	FarmID      string    `db:"farm_id" json:"farm_id"`
	Quantity    int       `db:"quantity" json:"quantity"`
	IsImported  bool      `db:"is_imported" json:"is_imported"`
	Destination string    `db:"destination" json:"destination"`
	ExportedAt  time.Time `db:"exported_at" json:"exported_at"`
}

// MovementType distinguishes ledger feed entries.
type MovementType string

const (
	MovementTypeImport MovementType = "import"
	MovementTypeExport MovementType = "export"
)

// Movement is one row of the merged import/export feed shown to oversight.
// FarmName may be a placeholder while the farm is unknown.
type Movement struct {
	ID        string       `db:"id" json:"id"`
	Type      MovementType `db:"type" json:"type"`
	Species   string       `db:"species" json:"species"`
	Quantity  int          `db:"quantity" json:"quantity"`
	FarmID    string       `db:"farm_id" json:"farm_id"`
	FarmName  string       `db:"farm_name" json:"farm_name"`
	Place     string       `db:"place" json:"place"`
	Timestamp time.Time    `db:"timestamp" json:"timestamp"`
}
