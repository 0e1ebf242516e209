package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"itinera/internal/infra"
	dbm "itinera/internal/models/db_models"
	"itinera/internal/models/request_models"
	resp "itinera/internal/models/response_models"
	"itinera/internal/repositories"
	"itinera/pkg/utils"
)

const (
	maxTitleRunes      = 200
	defaultDestination = "Multiple Cities"

	defaultDayTime        = "09:00"
	defaultDayLocation    = "TBD"
	defaultDayDescription = "Details"
)

type FileMeta struct {
	URL      string
	Size     int64
	MimeType string
}

type CreateItineraryInput struct {
	OwnerID      string
	Title        string
	Destination  string
	StartDate    string
	EndDate      string
	TravelerType string
	Description  string
	Days         []dbm.DayEntry
	File         *FileMeta
}

type ItineraryServiceInterface interface {
	CreateItinerary(ctx context.Context, in CreateItineraryInput) (*dbm.Itinerary, error)
	CreateFromUpload(ctx context.Context, ownerID string, upload *ReceivedUpload) (*dbm.Itinerary, error)
	CreateManualItinerary(ctx context.Context, ownerID string, req request_models.ManualItineraryRequest) (*dbm.Itinerary, error)
	ListItineraries(ctx context.Context, ownerID string) ([]resp.ItinerarySummary, error)
	GetItinerary(ctx context.Context, ownerID, itineraryID string) (*resp.ItineraryDetail, error)
	UpdateItineraryStatus(ctx context.Context, ownerID, itineraryID, status string) (*dbm.Itinerary, error)
	DeleteItinerary(ctx context.Context, ownerID, itineraryID string) (*dbm.Itinerary, error)
}

type ItineraryService struct {
	itineraryRepo repositories.ItineraryRepository
	travelerRepo  repositories.TravelerRepository
	extractor     DayScheduleExtractorInterface
	files         infra.FileStore
	indexer       ItineraryIndexer
	logger        *zap.Logger
	now           func() time.Time
}

func NewItineraryService(
	itineraryRepo repositories.ItineraryRepository,
	travelerRepo repositories.TravelerRepository,
	extractor DayScheduleExtractorInterface,
	files infra.FileStore,
	indexer ItineraryIndexer,
	logger *zap.Logger,
) ItineraryServiceInterface {
	return &ItineraryService{
		itineraryRepo: itineraryRepo,
		travelerRepo:  travelerRepo,
		extractor:     extractor,
		files:         files,
		indexer:       indexer,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *ItineraryService) CreateItinerary(ctx context.Context, in CreateItineraryInput) (*dbm.Itinerary, error) {
	ownerID, err := parseOwnerID(in.OwnerID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Trip " + s.now().Format(utils.DateLayout)
	}
	if utf8.RuneCountInString(title) > maxTitleRunes {
		return nil, utils.ValidationError("title must be at most %d characters", maxTitleRunes)
	}

	destination := strings.TrimSpace(in.Destination)
	if destination == "" {
		destination = defaultDestination
	}

	travelerType, ok := dbm.ParseTravelerType(in.TravelerType)
	if !ok {
		return nil, utils.ValidationError("travelerType must be one of Solo, Family, Couple, Business, Group")
	}

	startDate, err := utils.ParseDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := utils.ParseDate(in.EndDate)
	if err != nil {
		return nil, err
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, utils.ValidationError("endDate is before startDate")
	}

	if err := validateSchedule(in.Days); err != nil {
		return nil, err
	}

	itinerary := &dbm.Itinerary{
		OwnerID:      ownerID,
		Title:        title,
		Destination:  destination,
		StartDate:    startDate,
		EndDate:      endDate,
		TravelerType: travelerType,
		Description:  strings.TrimSpace(in.Description),
		Days:         nonNilDays(in.Days),
		TravelerIDs:  []string{},
		Status:       dbm.StatusDraft,
	}
	if in.File != nil {
		url, size, mimeType := in.File.URL, in.File.Size, in.File.MimeType
		itinerary.FileURL = &url
		itinerary.FileSize = &size
		itinerary.FileType = &mimeType
	}

	if err := s.itineraryRepo.CreateItinerary(ctx, itinerary); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	s.logger.Info("itinerary created",
		zap.String("id", itinerary.ID.String()),
		zap.String("owner_id", ownerID.String()),
		zap.Int("days", len(itinerary.Days)))

	if s.indexer != nil {
		s.indexer.IndexItinerary(ctx, itinerary)
	}
	return itinerary, nil
}

// CreateFromUpload publishes the upload, extracts the schedule for CSV files
// and persists the itinerary. The published file is removed again when any
// later step fails; the temp file is always removed.
func (s *ItineraryService) CreateFromUpload(ctx context.Context, ownerID string, upload *ReceivedUpload) (*dbm.Itinerary, error) {
	defer upload.Cleanup()

	if _, err := parseOwnerID(ownerID); err != nil {
		return nil, err
	}

	stored, err := s.files.Publish(upload.TempPath, upload.Ext)
	if err != nil {
		return nil, fmt.Errorf("publish upload: %w", err)
	}
	published := true
	defer func() {
		if !published {
			if err := s.files.Remove(stored.Name); err != nil {
				s.logger.Warn("remove published upload", zap.String("name", stored.Name), zap.Error(err))
			}
		}
	}()

	var schedule []dbm.DayEntry
	if upload.IsCSV() {
		schedule, err = s.extractor.ExtractFile(upload.TempPath)
		if err != nil {
			published = false
			return nil, err
		}
	}

	itinerary, err := s.CreateItinerary(ctx, CreateItineraryInput{
		OwnerID:      ownerID,
		Title:        upload.Field("title"),
		Destination:  upload.Field("destination"),
		StartDate:    upload.Field("startDate"),
		EndDate:      upload.Field("endDate"),
		TravelerType: upload.Field("travelerType"),
		Description:  upload.Field("description"),
		Days:         schedule,
		File: &FileMeta{
			URL:      stored.URL,
			Size:     upload.Size,
			MimeType: upload.MimeType,
		},
	})
	if err != nil {
		published = false
		return nil, err
	}
	return itinerary, nil
}

func (s *ItineraryService) CreateManualItinerary(ctx context.Context, ownerID string, req request_models.ManualItineraryRequest) (*dbm.Itinerary, error) {
	schedule, err := normalizeManualDays(req.Days)
	if err != nil {
		return nil, err
	}

	return s.CreateItinerary(ctx, CreateItineraryInput{
		OwnerID:      ownerID,
		Title:        req.Title,
		Destination:  req.Destination,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		TravelerType: req.TravelerType,
		Description:  req.Description,
		Days:         schedule,
	})
}

func (s *ItineraryService) ListItineraries(ctx context.Context, ownerID string) ([]resp.ItinerarySummary, error) {
	owner, err := parseOwnerID(ownerID)
	if err != nil {
		return nil, err
	}

	rows, err := s.itineraryRepo.ListItinerarySummaries(ctx, owner, repositories.DefaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return toItinerarySummaries(rows), nil
}

func (s *ItineraryService) GetItinerary(ctx context.Context, ownerID, itineraryID string) (*resp.ItineraryDetail, error) {
	itinerary, err := s.findOwned(ctx, ownerID, itineraryID)
	if err != nil {
		return nil, err
	}

	travelers, err := s.travelerRepo.ResolveTravelerReferences(ctx, itinerary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	summaries := make([]resp.TravelerSummary, 0, len(travelers))
	for i := range travelers {
		summaries = append(summaries, toTravelerSummary(&travelers[i]))
	}

	return &resp.ItineraryDetail{
		ItinerarySummary: toItinerarySummary(itinerary, int64(len(summaries))),
		FileURL:          itinerary.FileURL,
		FileSize:         itinerary.FileSize,
		FileType:         itinerary.FileType,
		Travelers:        summaries,
	}, nil
}

func (s *ItineraryService) UpdateItineraryStatus(ctx context.Context, ownerID, itineraryID, status string) (*dbm.Itinerary, error) {
	next, ok := dbm.ParseItineraryStatus(status)
	if !ok {
		return nil, utils.ValidationError("status must be one of draft, active, completed")
	}

	itinerary, err := s.findOwned(ctx, ownerID, itineraryID)
	if err != nil {
		return nil, err
	}

	if itinerary.Status == next {
		return itinerary, nil
	}
	if !itinerary.Status.CanTransitionTo(next) {
		return nil, utils.ValidationError("invalid status transition from %s to %s", itinerary.Status, next)
	}

	err = s.itineraryRepo.UpdateItineraryStatus(ctx, itinerary.OwnerID, itinerary.ID, next)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrItineraryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	itinerary.Status = next
	return itinerary, nil
}

func (s *ItineraryService) DeleteItinerary(ctx context.Context, ownerID, itineraryID string) (*dbm.Itinerary, error) {
	owner, err := parseOwnerID(ownerID)
	if err != nil {
		return nil, err
	}
	id, err := parseResourceID(itineraryID, utils.ErrItineraryNotFound)
	if err != nil {
		return nil, err
	}

	deleted, err := s.itineraryRepo.SoftDeleteOwnedItinerary(ctx, owner, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if deleted == nil {
		return nil, utils.ErrItineraryNotFound
	}

	s.logger.Info("itinerary deleted", zap.String("id", id.String()), zap.String("owner_id", owner.String()))
	return deleted, nil
}

func (s *ItineraryService) findOwned(ctx context.Context, ownerID, itineraryID string) (*dbm.Itinerary, error) {
	return findOwnedItinerary(ctx, s.itineraryRepo, ownerID, itineraryID)
}

// findOwnedItinerary answers NotFound for missing and foreign itineraries alike.
func findOwnedItinerary(ctx context.Context, repo repositories.ItineraryRepository, ownerID, itineraryID string) (*dbm.Itinerary, error) {
	owner, err := parseOwnerID(ownerID)
	if err != nil {
		return nil, err
	}
	id, err := parseResourceID(itineraryID, utils.ErrItineraryNotFound)
	if err != nil {
		return nil, err
	}

	itinerary, err := repo.FindOwnedItinerary(ctx, owner, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if itinerary == nil {
		return nil, utils.ErrItineraryNotFound
	}
	return itinerary, nil
}

func validateSchedule(schedule []dbm.DayEntry) error {
	if len(schedule) > dbm.MaxScheduleDays {
		return utils.ValidationError("at most %d days are allowed", dbm.MaxScheduleDays)
	}
	for i, d := range schedule {
		if d.Day != i+1 {
			return utils.ValidationError("day numbers must be contiguous from 1")
		}
	}
	return nil
}

// normalizeManualDays numbers unnumbered days by position and fills defaults.
func normalizeManualDays(in []request_models.DayEntryRequest) ([]dbm.DayEntry, error) {
	if len(in) > dbm.MaxScheduleDays {
		return nil, utils.ValidationError("at most %d days are allowed", dbm.MaxScheduleDays)
	}

	out := make([]dbm.DayEntry, 0, len(in))
	for i, d := range in {
		n := i + 1
		if d.Day != 0 && d.Day != n {
			return nil, utils.ValidationError("day %d is out of order, expected %d", d.Day, n)
		}
		out = append(out, dbm.DayEntry{
			Day:         n,
			Date:        strings.TrimSpace(d.Date),
			Title:       firstNonEmpty(strings.TrimSpace(d.Title), fmt.Sprintf("Day %d", n)),
			Time:        firstNonEmpty(strings.TrimSpace(d.Time), defaultDayTime),
			Location:    firstNonEmpty(strings.TrimSpace(d.Location), defaultDayLocation),
			Description: firstNonEmpty(strings.TrimSpace(d.Description), defaultDayDescription),
		})
	}
	return out, nil
}
