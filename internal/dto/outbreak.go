package dto

// ReportOutbreakRequest payload for reporting a disease outbreak on a farm.
// Coordinates may be supplied by the reporting device; when absent the farm
// address is geocoded server-side under a bounded timeout.
type ReportOutbreakRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ValidateOutbreakRequest payload for the oversight validation step.
type ValidateOutbreakRequest struct {
	Recommendations string `json:"recommendations" validate:"required"`
}
