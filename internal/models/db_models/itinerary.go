package db_models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const MaxScheduleDays = 7

type ItineraryStatus string

const (
	StatusDraft     ItineraryStatus = "draft"
	StatusActive    ItineraryStatus = "active"
	StatusCompleted ItineraryStatus = "completed"
)

func ParseItineraryStatus(raw string) (ItineraryStatus, bool) {
	switch s := ItineraryStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusDraft, StatusActive, StatusCompleted:
		return s, true
	}
	return "", false
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Staying in the same status is always allowed.
func (s ItineraryStatus) CanTransitionTo(next ItineraryStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusDraft:
		return next == StatusActive
	case StatusActive:
		return next == StatusCompleted || next == StatusDraft
	}
	return false
}

type TravelerType string

const (
	TravelerSolo     TravelerType = "Solo"
	TravelerFamily   TravelerType = "Family"
	TravelerCouple   TravelerType = "Couple"
	TravelerBusiness TravelerType = "Business"
	TravelerGroup    TravelerType = "Group"
)

var travelerTypes = []TravelerType{TravelerSolo, TravelerFamily, TravelerCouple, TravelerBusiness, TravelerGroup}

// ParseTravelerType matches case-insensitively. Blank input is Solo.
func ParseTravelerType(raw string) (TravelerType, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TravelerSolo, true
	}
	for _, t := range travelerTypes {
		if strings.EqualFold(string(t), raw) {
			return t, true
		}
	}
	return "", false
}

type DayEntry struct {
	Day         int    `json:"day"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type Itinerary struct {
	BaseModel
	OwnerID      uuid.UUID                     `gorm:"type:uuid;not null;index"`
	Title        string                        `gorm:"size:200;not null"`
	Destination  string                        `gorm:"not null;default:'Multiple Cities'"`
	StartDate    *time.Time                    `gorm:"type:date"`
	EndDate      *time.Time                    `gorm:"type:date"`
	TravelerType TravelerType                  `gorm:"size:16;not null;default:'Solo'"`
	Description  string                        `gorm:"type:text"`
	FileURL      *string                       `gorm:"size:512"`
	FileSize     *int64
	FileType     *string                       `gorm:"size:64"`
	Days         datatypes.JSONSlice[DayEntry] `gorm:"type:jsonb;not null;default:'[]'"`
	TravelerIDs  pq.StringArray                `gorm:"type:text[];not null;default:'{}'"`
	Status       ItineraryStatus               `gorm:"size:16;not null;default:'draft';index"`
}

func (i *Itinerary) HasTraveler(id uuid.UUID) bool {
	want := id.String()
	for _, ref := range i.TravelerIDs {
		if ref == want {
			return true
		}
	}
	return false
}
