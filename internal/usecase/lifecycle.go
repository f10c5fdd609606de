package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/xikelabs/lead-tracker/internal/entity"
	"github.com/xikelabs/lead-tracker/internal/infra/queue"
)

// LeadLifecycleUseCase moves leads through the sales pipeline:
//
//	Lead -> To Pitch -> Pitched -> Onboarded
//
// Every transition appends a timeline entry and commits it together with the
// field mutations in a single repository update, so a failed guard never
// leaves a half-applied lead behind.
type LeadLifecycleUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Roles  RoleResolverInterface
	Events QueueProducerInterface
}

func NewLeadLifecycleUseCase(
	leads entity.LeadRepositoryInterface,
	roles RoleResolverInterface,
	events QueueProducerInterface,
) *LeadLifecycleUseCase {
	return &LeadLifecycleUseCase{
		Leads:  leads,
		Roles:  roles,
		Events: events,
	}
}

// Approve moves a fresh lead to To Pitch and hands it to an assignee.
// Admins only.
func (uc *LeadLifecycleUseCase) Approve(ctx context.Context, input ApproveLeadInput) (*entity.Lead, error) {
	role, err := uc.Roles.Resolve(ctx, input.Actor)
	if err != nil {
		return nil, err
	}
	if !role.Role.IsAdmin() {
		return nil, NewGuardViolation("only admins can approve leads")
	}

	assignee := strings.TrimSpace(input.AssignedTo)
	if assignee == "" {
		return nil, NewGuardViolation("assignee is required")
	}

	lead, err := uc.load(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if lead.Stage != entity.StageLead {
		return nil, NewInvalidTransition("Approve", lead.Stage)
	}

	description := fmt.Sprintf("Lead approved and assigned to %s", assignee)
	if input.Remark != "" {
		description += "\n Approver remarks: " + input.Remark
	}
	next := lead.AppendTimeline(entity.TimelineEntry{
		Timestamp:   time.Now(),
		Description: description,
	})

	stage := entity.StageToPitch
	updated, err := uc.Leads.Update(ctx, lead.ID, entity.LeadUpdate{
		Stage:      &stage,
		AssignedTo: &assignee,
		ApprovedBy: &input.Actor.Email,
		Timeline:   next.Timeline,
	})
	if err != nil {
		return nil, uc.wrapUpdateErr(err)
	}

	uc.publish(ctx, queue.EventLeadApproved, updated, input.Actor.Email)
	return updated, nil
}

// CompletePitch records the pitch outcome. Only the assigned user may do it,
// and the retailer response rating must sit in [0, 5].
func (uc *LeadLifecycleUseCase) CompletePitch(ctx context.Context, input CompletePitchInput) (*entity.Lead, error) {
	lead, err := uc.load(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if lead.Stage != entity.StageToPitch {
		return nil, NewInvalidTransition("CompletePitch", lead.Stage)
	}
	if lead.AssignedTo == "" || lead.AssignedTo != input.Actor.Email {
		return nil, NewGuardViolation("only the assigned user can complete the pitch")
	}
	if input.ResponseRating < 0 || input.ResponseRating > 5 {
		return nil, NewGuardViolation("response rating must be between 0 and 5")
	}

	now := time.Now()
	description := fmt.Sprintf("Pitched to retailer on %s\nRemarks: %s", now.Format(time.RFC1123), input.Remark)
	next := lead.AppendTimeline(entity.TimelineEntry{
		Timestamp:   now,
		Description: description,
	})

	stage := entity.StagePitched
	rating := input.ResponseRating
	updated, err := uc.Leads.Update(ctx, lead.ID, entity.LeadUpdate{
		Stage:          &stage,
		ResponseRating: &rating,
		Timeline:       next.Timeline,
	})
	if err != nil {
		return nil, uc.wrapUpdateErr(err)
	}

	uc.publish(ctx, queue.EventPitchCompleted, updated, input.Actor.Email)
	return updated, nil
}

// AddRemark logs a follow-up note on a pitched lead. A remark flagged as
// converted onboards the lead; a lead converts at most once.
func (uc *LeadLifecycleUseCase) AddRemark(ctx context.Context, input AddRemarkInput) (*entity.Lead, error) {
	lead, err := uc.load(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if lead.Stage != entity.StagePitched {
		return nil, NewInvalidTransition("AddRemark", lead.Stage)
	}
	if lead.AssignedTo == "" || lead.AssignedTo != input.Actor.Email {
		return nil, NewGuardViolation("only the assigned user can add remarks")
	}
	if input.Converted && lead.HasConvertedEntry() {
		return nil, NewGuardViolation("lead already has a converted timeline entry")
	}

	now := time.Now()
	if input.NextApproachDate != nil {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if input.NextApproachDate.Before(today) {
			return nil, NewGuardViolation("next approach date must not be in the past")
		}
	}

	next := lead.AppendTimeline(entity.TimelineEntry{
		Timestamp:        now,
		Description:      input.Remark,
		NextApproachDate: input.NextApproachDate,
		IsConverted:      input.Converted,
	})

	update := entity.LeadUpdate{Timeline: next.Timeline}
	event := queue.EventRemarkAdded
	if input.Converted {
		stage := entity.StageOnboarded
		status := entity.StatusOnboarded
		update.Stage = &stage
		update.Status = &status
		event = queue.EventLeadOnboarded
	}

	updated, err := uc.Leads.Update(ctx, lead.ID, update)
	if err != nil {
		return nil, uc.wrapUpdateErr(err)
	}

	uc.publish(ctx, event, updated, input.Actor.Email)
	return updated, nil
}

// AddShopVisit appends a visit note without touching the stage. Any writer
// can log a visit at any point of the pipeline.
func (uc *LeadLifecycleUseCase) AddShopVisit(ctx context.Context, input ShopVisitInput) (*entity.Lead, error) {
	role, err := uc.Roles.Resolve(ctx, input.Actor)
	if err != nil {
		return nil, err
	}
	if !role.Role.CanWrite() {
		return nil, NewGuardViolation("write access is required to log a shop visit")
	}

	lead, err := uc.load(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}

	next := lead.AppendTimeline(entity.TimelineEntry{
		Timestamp:   time.Now(),
		Description: "Shop Visit:\n" + input.Remark,
	})

	updated, err := uc.Leads.Update(ctx, lead.ID, entity.LeadUpdate{Timeline: next.Timeline})
	if err != nil {
		return nil, uc.wrapUpdateErr(err)
	}

	uc.publish(ctx, queue.EventShopVisit, updated, input.Actor.Email)
	return updated, nil
}

func (uc *LeadLifecycleUseCase) load(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := uc.Leads.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, NewNotFound("lead")
		}
		return nil, NewStoreUnavailable(err)
	}
	return lead, nil
}

func (uc *LeadLifecycleUseCase) wrapUpdateErr(err error) error {
	if errors.Is(err, entity.ErrLeadNotFound) {
		return NewNotFound("lead")
	}
	return NewStoreUnavailable(err)
}

// publish fans the committed transition out to the notification queue.
// Best-effort: a broker hiccup must not fail an already persisted change.
func (uc *LeadLifecycleUseCase) publish(ctx context.Context, event string, lead *entity.Lead, actor string) {
	if uc.Events == nil {
		return
	}
	payload := queue.LeadEventPayload{
		Event:      event,
		LeadID:     lead.ID,
		LeadName:   lead.Name,
		Stage:      string(lead.Stage),
		Status:     string(lead.Status),
		Actor:      actor,
		AssignedTo: lead.AssignedTo,
		ApprovedBy: lead.ApprovedBy,
		OccurredAt: time.Now(),
	}
	if err := uc.Events.PublishLeadEvent(ctx, payload); err != nil {
		log.Printf("failed to publish %s for lead %s: %v", event, lead.ID, err)
	}
}
