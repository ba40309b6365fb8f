package models

import "time"

// RegionStats aggregates vaccination campaigns per farm region.
type RegionStats struct {
	Region           string  `db:"region" json:"region"`
	TotalVaccinated  int     `db:"total_vaccinated" json:"total_vaccinated"`
	AverageProgress  float64 `db:"average_progress" json:"average_progress"`
	CampaignCount    int     `db:"campaign_count" json:"campaign_count"`
	CompletedCount   int     `db:"completed_count" json:"completed_count"`
	TotalTargetCount int     `db:"total_target_count" json:"total_target_count"`
}

// RegionDashboard is the cached payload returned to oversight users.
type RegionDashboard struct {
	Regions     []RegionStats `json:"regions"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// AgentActivity summarises a vaccination agent for oversight management.
type AgentActivity struct {
	User
	FarmsRegistered   int `db:"farms_registered" json:"farms_registered"`
	CampaignsCreated  int `db:"campaigns_created" json:"campaigns_created"`
	OutbreaksReported int `db:"outbreaks_reported" json:"outbreaks_reported"`
}
