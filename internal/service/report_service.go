package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/agrocampo/ganadero-api/internal/models"
	appErrors "github.com/agrocampo/ganadero-api/pkg/errors"
	"github.com/agrocampo/ganadero-api/pkg/export"
)

// ReportFormat enumerates supported report renderings.
type ReportFormat string

const (
	ReportFormatPDF ReportFormat = "pdf"
	ReportFormatCSV ReportFormat = "csv"
)

type reportOutbreakStore interface {
	FindDetail(ctx context.Context, id string) (*models.OutbreakDetail, error)
	ListValidations(ctx context.Context, outbreakID string) ([]models.Validation, error)
}

type reportCampaignStore interface {
	FindByOutbreak(ctx context.Context, outbreakID string) (*models.Campaign, error)
	ListRecords(ctx context.Context, campaignID string) ([]models.VaccinationRecord, error)
}

type reportFarmLookup interface {
	FindByID(ctx context.Context, id string) (*models.Farm, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ReportResult is a rendered outbreak report ready to send.
type ReportResult struct {
	Payload     []byte
	ContentType string
	Filename    string
}

// ReportService renders downloadable outbreak reports.
type ReportService struct {
	outbreaks reportOutbreakStore
	campaigns reportCampaignStore
	farms     reportFarmLookup
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(outbreaks reportOutbreakStore, campaigns reportCampaignStore, farms reportFarmLookup, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		outbreaks: outbreaks,
		campaigns: campaigns,
		farms:     farms,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// OutbreakReport renders the full history of an outbreak: farm, diseases,
// validation state and campaign progress with every vaccination session.
func (s *ReportService) OutbreakReport(ctx context.Context, outbreakID string, format ReportFormat) (*ReportResult, error) {
	detail, err := s.outbreaks.FindDetail(ctx, outbreakID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "outbreak not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load outbreak")
	}

	farmName := detail.FarmID
	if farm, err := s.farms.FindByID(ctx, detail.FarmID); err == nil {
		farmName = farm.Name
	}

	dataset := export.Dataset{
		Headers: []string{"Field", "Value"},
		Rows: []map[string]string{
			{"Field": "Outbreak", "Value": detail.ID},
			{"Field": "Farm", "Value": farmName},
			{"Field": "Diseases", "Value": strings.Join(detail.Diseases, ", ")},
			{"Field": "Sick animals", "Value": strconv.Itoa(detail.SickAnimalsCount)},
			{"Field": "Status", "Value": string(detail.Status)},
			{"Field": "Validated", "Value": strconv.FormatBool(detail.Validated)},
			{"Field": "Reported at", "Value": detail.CreatedAt.Format("2006-01-02 15:04")},
		},
	}
	if detail.Recommendations != nil {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Field": "Recommendations", "Value": *detail.Recommendations,
		})
	}

	campaign, err := s.campaigns.FindByOutbreak(ctx, outbreakID)
	if err == nil {
		dataset.Rows = append(dataset.Rows,
			map[string]string{"Field": "Vaccine", "Value": campaign.VaccineType},
			map[string]string{"Field": "Target animals", "Value": strconv.Itoa(campaign.TargetAnimals)},
			map[string]string{"Field": "Vaccinated animals", "Value": strconv.Itoa(campaign.VaccinatedAnimals)},
			map[string]string{"Field": "Progress", "Value": fmt.Sprintf("%.1f%%", campaign.Progress)},
			map[string]string{"Field": "Campaign stage", "Value": string(campaign.Status)},
		)
		if records, err := s.campaigns.ListRecords(ctx, campaign.ID); err == nil {
			for i, record := range records {
				dataset.Rows = append(dataset.Rows, map[string]string{
					"Field": fmt.Sprintf("Session %d", len(records)-i),
					"Value": fmt.Sprintf("%d animals on %s", record.VaccinatedAnimals, record.VaccinationDate.Format("2006-01-02")),
				})
			}
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campaign")
	}

	switch format {
	case ReportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &ReportResult{
			Payload:     payload,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("outbreak-%s.csv", detail.ID),
		}, nil
	case ReportFormatPDF:
		payload, err := s.pdf.Render(dataset, fmt.Sprintf("Outbreak report - %s", farmName))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &ReportResult{
			Payload:     payload,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("outbreak-%s.pdf", detail.ID),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}
}
