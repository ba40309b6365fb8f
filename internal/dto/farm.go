package dto

// CreateFarmRequest payload for registering a farm.
type CreateFarmRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Region  string `json:"region"`
	Owner   string `json:"owner" validate:"required"`
}

// FarmQuery mirrors supported farm listing filters.
type FarmQuery struct {
	Region   string
	Search   string
	Page     int
	PageSize int
}
