package services

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"

	dbm "itinera/internal/models/db_models"
	"itinera/internal/repositories"
	"itinera/pkg/utils"
)

type ExportedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type ExportServiceInterface interface {
	ExportItineraryPDF(ctx context.Context, ownerID, itineraryID string) (*ExportedFile, error)
}

type ExportService struct {
	itineraryRepo repositories.ItineraryRepository
	travelerRepo  repositories.TravelerRepository
	logger        *zap.Logger
}

func NewExportService(
	itineraryRepo repositories.ItineraryRepository,
	travelerRepo repositories.TravelerRepository,
	logger *zap.Logger,
) ExportServiceInterface {
	return &ExportService{
		itineraryRepo: itineraryRepo,
		travelerRepo:  travelerRepo,
		logger:        logger,
	}
}

func (s *ExportService) ExportItineraryPDF(ctx context.Context, ownerID, itineraryID string) (*ExportedFile, error) {
	itinerary, err := findOwnedItinerary(ctx, s.itineraryRepo, ownerID, itineraryID)
	if err != nil {
		return nil, err
	}
	travelers, err := s.travelerRepo.ResolveTravelerReferences(ctx, itinerary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	data, err := renderItineraryPDF(itinerary, travelers)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("itinerary exported", zap.String("itinerary_id", itinerary.ID.String()), zap.Int("bytes", len(data)))
	return &ExportedFile{
		Name:        exportFileName(itinerary.Title),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func renderItineraryPDF(it *dbm.Itinerary, travelers []dbm.Traveler) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(it.Title, true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(0, 9, tr(it.Title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, tr("Destination: "+it.Destination))
	pdf.Ln(6)
	if start, end := utils.FormatDate(it.StartDate), utils.FormatDate(it.EndDate); start != "" || end != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Dates: %s - %s", orDash(start), orDash(end)))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Travelers: %s   Status: %s", it.TravelerType, it.Status))
	pdf.Ln(8)
	if it.Description != "" {
		pdf.MultiCell(0, 5, tr(it.Description), "", "L", false)
		pdf.Ln(3)
	}

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Schedule")
	pdf.Ln(9)
	if len(it.Days) == 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.Cell(0, 6, "No days planned yet.")
		pdf.Ln(8)
	}
	for _, d := range it.Days {
		pdf.SetFont("Arial", "B", 12)
		heading := fmt.Sprintf("Day %d: %s", d.Day, d.Title)
		if d.Date != "" {
			heading += " (" + d.Date + ")"
		}
		pdf.MultiCell(0, 6, tr(heading), "", "L", false)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s at %s", d.Time, d.Location)), "", "L", false)
		if d.Description != "" {
			pdf.MultiCell(0, 5, tr(d.Description), "", "L", false)
		}
		pdf.Ln(3)
	}

	if len(travelers) > 0 {
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 8, "Travelers")
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 11)
		for _, t := range travelers {
			line := fmt.Sprintf("%s  %s", t.Name, t.Phone)
			if t.IsPrimary {
				line += "  (primary)"
			}
			pdf.Cell(0, 6, tr(line))
			pdf.Ln(6)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

func exportFileName(title string) string {
	slug := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		slug = "itinerary"
	}
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	return slug + ".pdf"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
