package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type LeadStage string

const (
	StageLead      LeadStage = "Lead"
	StageToPitch   LeadStage = "To Pitch"
	StagePitched   LeadStage = "Pitched"
	StageOnboarded LeadStage = "Onboarded"
)

// Stages in pipeline order.
var Stages = []LeadStage{StageLead, StageToPitch, StagePitched, StageOnboarded}

func (s LeadStage) Valid() bool {
	for _, stage := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

type LeadStatus string

const (
	StatusActive    LeadStatus = "Active"
	StatusInactive  LeadStatus = "Inactive"
	StatusOnboarded LeadStatus = "Onboarded"
	StatusFailed    LeadStatus = "Failed"
)

// TimelineEntry is an immutable log record embedded in a lead. Entries are
// only ever appended; the whole timeline is replaced on write.
type TimelineEntry struct {
	Timestamp        time.Time  `json:"timestamp"`
	Description      string     `json:"description"`
	NextApproachDate *time.Time `json:"next_approach_date,omitempty"`
	IsConverted      bool       `json:"is_converted,omitempty"`
}

type Lead struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category []string `json:"category"`
	ACP      float64  `json:"acp"`
	Location string   `json:"location"`
	Area     string   `json:"area"`

	InstagramAccount       string `json:"instagram_account,omitempty"`
	CompetitorAppsDiscount string `json:"competitor_apps_discount,omitempty"`
	Branches               string `json:"branches,omitempty"`
	ImageURL               string `json:"image_url,omitempty"`

	Stage  LeadStage  `json:"stage"`
	Status LeadStatus `json:"status"`

	AddedBy        string   `json:"added_by"`
	AssignedTo     string   `json:"assigned_to,omitempty"`
	ApprovedBy     string   `json:"approved_by,omitempty"`
	ResponseRating *float64 `json:"response_rating,omitempty"`

	Timeline []TimelineEntry `json:"timeline"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLead builds a lead at the start of the pipeline.
func NewLead(name string, category []string, acp float64, location, area, addedBy string) (*Lead, error) {
	lead := &Lead{
		ID:        uuid.New().String(),
		Name:      name,
		Category:  category,
		ACP:       acp,
		Location:  location,
		Area:      area,
		Stage:     StageLead,
		Status:    StatusActive,
		AddedBy:   addedBy,
		Timeline:  []TimelineEntry{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if len(l.Category) == 0 {
		return errors.New("category is required")
	}
	if l.ACP < 0 {
		return errors.New("acp must not be negative")
	}
	if l.Location == "" {
		return errors.New("location is required")
	}
	if l.Area == "" {
		return errors.New("area is required")
	}
	if l.AddedBy == "" {
		return errors.New("added_by is required")
	}
	return nil
}

// AppendTimeline returns a copy of the lead whose timeline is the prior
// sequence with entry at the end. The receiver is not mutated; persisting
// the result is the caller's job.
func (l Lead) AppendTimeline(entry TimelineEntry) Lead {
	timeline := make([]TimelineEntry, 0, len(l.Timeline)+1)
	timeline = append(timeline, l.Timeline...)
	timeline = append(timeline, entry)
	l.Timeline = timeline
	return l
}

// HasConvertedEntry reports whether any timeline entry already carries the
// conversion flag. A lead converts at most once.
func (l *Lead) HasConvertedEntry() bool {
	for _, e := range l.Timeline {
		if e.IsConverted {
			return true
		}
	}
	return false
}

// LeadUpdate carries the fields a lifecycle transition mutates. Nil fields
// are left untouched. Timeline always replaces the stored sequence whole so
// that stage change and appended entry commit together in one write.
type LeadUpdate struct {
	Stage          *LeadStage
	Status         *LeadStatus
	AssignedTo     *string
	ApprovedBy     *string
	ResponseRating *float64
	Timeline       []TimelineEntry
}

type LeadRepositoryInterface interface {
	List(ctx context.Context) ([]*Lead, error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	Insert(ctx context.Context, lead *Lead) error
	Update(ctx context.Context, id string, update LeadUpdate) (*Lead, error)
	Delete(ctx context.Context, id string) error
}
