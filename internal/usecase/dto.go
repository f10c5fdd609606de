package usecase

import "time"

// Actor is the authenticated identity behind a request. Authentication
// itself happens upstream; we only ever see the resolved identity.
type Actor struct {
	ID    string
	Email string
}

type CreateLeadInput struct {
	Name                   string
	Category               []string
	ACP                    float64
	Location               string
	Area                   string
	Note                   string
	InstagramAccount       string
	CompetitorAppsDiscount string
	Branches               string
	ImageURL               string
	Actor                  Actor
}

type ApproveLeadInput struct {
	LeadID     string
	AssignedTo string
	Remark     string
	Actor      Actor
}

type CompletePitchInput struct {
	LeadID         string
	Remark         string
	ResponseRating float64
	Actor          Actor
}

type AddRemarkInput struct {
	LeadID           string
	Remark           string
	NextApproachDate *time.Time
	Converted        bool
	Actor            Actor
}

type ShopVisitInput struct {
	LeadID string
	Remark string
	Actor  Actor
}

type DeleteLeadInput struct {
	LeadID string
	Actor  Actor
}

type BulkImportInput struct {
	CSV   string
	Actor Actor
}

// ImportRowResult reports one data row of a bulk import: either the lead it
// produced or the reason it was skipped. Row is 1-based, header excluded.
type ImportRowResult struct {
	Row    int    `json:"row"`
	Name   string `json:"name,omitempty"`
	LeadID string `json:"lead_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

type BulkImportOutput struct {
	Results  []ImportRowResult `json:"results"`
	Imported int               `json:"imported"`
	Failed   int               `json:"failed"`
}
