package models

import "time"

// Farm represents a managed property holding animals.
type Farm struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Region    string    `db:"region" json:"region"`
	Owner     string    `db:"owner" json:"owner"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FarmFilter constrains farm listing queries.
type FarmFilter struct {
	Region    string
	CreatedBy string
	Search    string
	Page      int
	PageSize  int
}
