package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/xikelabs/lead-tracker/internal/entity"
	"github.com/xikelabs/lead-tracker/internal/infra/queue"
)

// CreateLeadUseCase registers a new lead at the start of the pipeline with
// its first timeline entry. The bulk importer drives this same path row by
// row.
type CreateLeadUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Roles  RoleResolverInterface
	Events QueueProducerInterface
}

func NewCreateLeadUseCase(
	leads entity.LeadRepositoryInterface,
	roles RoleResolverInterface,
	events QueueProducerInterface,
) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		Leads:  leads,
		Roles:  roles,
		Events: events,
	}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	role, err := uc.Roles.Resolve(ctx, input.Actor)
	if err != nil {
		return nil, err
	}
	if !role.Role.CanWrite() {
		return nil, NewGuardViolation("write access is required to add leads")
	}

	if validationErrors := ValidateCreateLeadInput(input); len(validationErrors) > 0 {
		return nil, validationFailed(validationErrors)
	}

	lead, err := entity.NewLead(
		strings.TrimSpace(input.Name),
		cleanCategories(input.Category),
		input.ACP,
		strings.TrimSpace(input.Location),
		strings.TrimSpace(input.Area),
		input.Actor.Email,
	)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}

	lead.InstagramAccount = strings.TrimSpace(input.InstagramAccount)
	lead.CompetitorAppsDiscount = strings.TrimSpace(input.CompetitorAppsDiscount)
	lead.Branches = strings.TrimSpace(input.Branches)
	lead.ImageURL = strings.TrimSpace(input.ImageURL)

	lead.Timeline = []entity.TimelineEntry{{
		Timestamp:   time.Now(),
		Description: input.Note,
	}}

	if err := uc.Leads.Insert(ctx, lead); err != nil {
		return nil, NewStoreUnavailable(err)
	}

	if uc.Events != nil {
		payload := queue.LeadEventPayload{
			Event:      queue.EventLeadCreated,
			LeadID:     lead.ID,
			LeadName:   lead.Name,
			Stage:      string(lead.Stage),
			Status:     string(lead.Status),
			Actor:      input.Actor.Email,
			OccurredAt: time.Now(),
		}
		if err := uc.Events.PublishLeadEvent(ctx, payload); err != nil {
			log.Printf("failed to publish %s for lead %s: %v", queue.EventLeadCreated, lead.ID, err)
		}
	}

	return lead, nil
}
