package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xikelabs/lead-tracker/internal/entity"
	"github.com/xikelabs/lead-tracker/internal/usecase"
)

var (
	admin    = usecase.Actor{ID: "admin-1", Email: "utkarsh@xike.in"}
	seller   = usecase.Actor{ID: "seller-1", Email: "sanskar@xike.in"}
	stranger = usecase.Actor{ID: "other-1", Email: "someone@xike.in"}
)

func pitchLead(stage entity.LeadStage, assignedTo string, timeline ...entity.TimelineEntry) *entity.Lead {
	if timeline == nil {
		timeline = []entity.TimelineEntry{}
	}
	return &entity.Lead{
		ID:         "lead-1",
		Name:       "Acme Cafe",
		Category:   []string{"Cafe"},
		ACP:        12000,
		Location:   "Pune",
		Area:       "Koregaon Park",
		Stage:      stage,
		Status:     entity.StatusActive,
		AddedBy:    seller.Email,
		AssignedTo: assignedTo,
		Timeline:   timeline,
	}
}

func TestApproveMovesLeadToPitch(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	roles := new(MockRoleResolver)
	events := new(MockQueueProducer)

	lead := pitchLead(entity.StageLead, "")

	roles.On("Resolve", ctx, admin).Return(roleData(entity.RoleAdmin, admin.Email), nil)
	leadRepo.On("FindByID", ctx, "lead-1").Return(lead, nil)

	var captured entity.LeadUpdate
	leadRepo.On("Update", ctx, "lead-1", mock.MatchedBy(func(u entity.LeadUpdate) bool {
		captured = u
		return u.Stage != nil && *u.Stage == entity.StageToPitch
	})).Return(pitchLead(entity.StageToPitch, seller.Email), nil)
	events.On("PublishLeadEvent", ctx, mock.Anything).Return(nil)

	uc := usecase.NewLeadLifecycleUseCase(leadRepo, roles, events)

	updated, err := uc.Approve(ctx, usecase.ApproveLeadInput{
		LeadID:     "lead-1",
		AssignedTo: seller.Email,
		Remark:     "solid outlet, go get them",
		Actor:      admin,
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.StageToPitch, updated.Stage)
	assert.Equal(t, seller.Email, *captured.AssignedTo)
	assert.Equal(t, admin.Email, *captured.ApprovedBy)
	assert.Len(t, captured.Timeline, 1)
	assert.Contains(t, captured.Timeline[0].Description, "assigned to "+seller.Email)
	assert.Contains(t, captured.Timeline[0].Description, "Approver remarks: solid outlet, go get them")
	events.AssertCalled(t, "PublishLeadEvent", ctx, mock.Anything)
}

func TestApproveRejectsNonAdmin(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	roles := new(MockRoleResolver)

	roles.On("Resolve", ctx, seller).Return(roleData(entity.RoleWrite, seller.Email), nil)

	uc := usecase.NewLeadLifecycleUseCase(leadRepo, roles, nil)

	_, err := uc.Approve(ctx, usecase.ApproveLeadInput{
		LeadID:     "lead-1",
		AssignedTo: seller.Email,
		Actor:      seller,
	})

	assert.Error(t, err)
	assert.Equal(t, usecase.CodeGuardViolation, usecase.ErrorCode(err))
	leadRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveRejectsEmptyAssignee(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	roles := new(MockRoleResolver)

	roles.On("Resolve", ctx, admin).Return(roleData(entity.RoleAdmin, admin.Email), nil)

	uc := usecase.NewLeadLifecycleUseCase(leadRepo, roles, nil)

	_, err := uc.Approve(ctx, usecase.ApproveLeadInput{LeadID: "lead-1", AssignedTo: "   ", Actor: admin})

	assert.Equal(t, usecase.CodeGuardViolation, usecase.ErrorCode(err))
	leadRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveRejectsWrongStage(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	roles := new(MockRoleResolver)

	roles.On("Resolve", ctx, admin).Return(roleData(entity.RoleAdmin, admin.Email), nil)
	leadRepo.On("FindByID", ctx, "lead-1").Return(pitchLead(entity.StagePitched, seller.Email), nil)

	uc := usecase.NewLeadLifecycleUseCase(leadRepo, roles, nil)

	_, err := uc.Approve(ctx, usecase.ApproveLeadInput{
		LeadID:     "lead-1",
		AssignedTo: seller.Email,
		Actor:      admin,
	})

	assert.Equal(t, usecase.CodeInvalidTransition, usecase.ErrorCode(err))
	leadRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompletePitchAcceptsBoundaryRating(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	roles := new(MockRoleResolver)
	events := new(MockQueueProducer)

	leadRepo.On("FindByID", ctx, "lead-1").Return(pitchLead(entity.StageToPitch, seller.Email), nil)

	var captured entity.LeadUpdate
	leadRepo.On("Update", ctx, "lead-1", mock.MatchedBy(func(u entity.LeadUpdate) bool {
		captured = u
		return u.Stage != nil && *u.Stage == entity.StagePitched
	})).Return(pitchLead(entity.StagePitched, seller.Email), nil)
	events.On("PublishLeadEvent", ctx, mock.Anything).Return(nil)

	uc := usecase.NewLeadLifecycleUseCase(leadRepo, roles, events)

	_, err := uc.CompletePitch(ctx, usecase.CompletePitchInput{
		LeadID:         "lead-1",
		Remark:         "owner was interested",
		ResponseRating: 5.0,
		Actor:          seller,
	})

	assert.NoError(t, err)
	assert.Equal(t, 5.0, *captured.ResponseRating)
	assert.Len(t, captured.Timeline, 1)
	assert.Contains(t, captured.Timeline[0].Description, "Pitched to retailer on")
	assert.Contains(t, captured.Timeline[0].Description, "Remarks: owner was interested")
}

func TestCompletePitchRejectsRatingAboveFive(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)

	leadRepo.On("FindByID", ctx, "lead-1").Return(pitchLead(entity.StageToPitch, seller.Email), nil)

	uc := usecase.NewLeadLifecycleUseCase(leadRepo, new(MockRoleResolver), nil)

	_, err := uc.CompletePitch(ctx, usecase.CompletePitchInput{
		LeadID:         "lead-1",
		ResponseRating: 5.1,
		Actor:          seller,
	})

	assert.Equal(t, usecase.CodeGuardViolation, usecase.ErrorCode(err))
	leadRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompletePitchRejectsUnassignedActor(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)

	leadRepo.On("FindByID", ctx, "lead-1").Return(pitchLead(entity.StageToPitch, seller.Email), nil)

	uc := usecase.NewLeadLifecycleUseCase(leadRepo, new(MockRoleResolver), nil)

	_, err := uc.CompletePitch(ctx, usecase.CompletePitchInput{
		LeadID:         "lead-1",
		ResponseRating: 4,
		Actor:          stranger,
	})

	assert.Equal(t, usecase.CodeGuardViolation, usecase.ErrorCode(err))
	leadRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddRemarkRejectsPastApproachDate(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)

	leadRepo.On("FindByID", ctx, "lead-1").Return(pitchLead(entity.StagePitched, seller.Email), nil)

	uc := usecase.NewLeadLifecycleUseCase(leadRepo, new(MockRoleResolver), nil)

	yesterday := time.Now().AddDate(0, 0, -1)
	_, err := uc.AddRemark(ctx, usecase.AddRemarkInput{
		LeadID:           "lead-1",
		Remark:           "call back next week",
		NextApproachDate: &yesterday,
		Actor:            seller,
	})

	assert.Equal(t, usecase.CodeGuardViolation, usecase.ErrorCode(err))
	leadRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddRemarkAcceptsFutureApproachDate(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	events := new(MockQueueProducer)

	existing := entity.TimelineEntry{Timestamp: time.Now(), Description: "pitched"}
	leadRepo.On("FindByID", ctx, "lead-1").Return(pitchLead(entity.StagePitched, seller.Email, existing), nil)

	var captured entity.LeadUpdate
	leadRepo.On("Update", ctx, "lead-1", mock.MatchedBy(func(u entity.LeadUpdate) bool {
		captured = u
		return u.Stage == nil // stage untouched for a plain remark
	})).Return(pitchLead(entity.StagePitched, seller.Email, existing), nil)
	events.On("PublishLeadEvent", ctx, mock.Anything).Return(nil)

	uc := usecase.NewLeadLifecycleUseCase(leadRepo, new(MockRoleResolver), events)

	tomorrow := time.Now().AddDate(0, 0, 1)
	_, err := uc.AddRemark(ctx, usecase.AddRemarkInput{
		LeadID:           "lead-1",
		Remark:           "call back next week",
		NextApproachDate: &tomorrow,
		Actor:            seller,
	})

	assert.NoError(t, err)
	// the timeline never shrinks: prior entries stay in place, new one at the end
	assert.Len(t, captured.Timeline, 2)
	assert.Equal(t, "pitched", captured.Timeline[0].Description)
	assert.Equal(t, "call back next week", captured.Timeline[1].Description)
}

func TestAddRemarkConvertsLead(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	events := new(MockQueueProducer)

	leadRepo.On("FindByID", ctx, "lead-1").Return(pitchLead(entity.StagePitched, seller.Email), nil)

	var captured entity.LeadUpdate
	leadRepo.On("Update", ctx, "lead-1", mock.MatchedBy(func(u entity.LeadUpdate) bool {
		captured = u
		return u.Stage != nil && *u.Stage == entity.StageOnboarded
	})).Return(pitchLead(entity.StageOnboarded, seller.Email), nil)
	events.On("PublishLeadEvent", ctx, mock.Anything).Return(nil)

	uc := usecase.NewLeadLifecycleUseCase(leadRepo, new(MockRoleResolver), events)

	_, err := uc.AddRemark(ctx, usecase.AddRemarkInput{
		LeadID:    "lead-1",
		Remark:    "signed the contract",
		Converted: true,
		Actor:     seller,
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusOnboarded, *captured.Status)
	assert.True(t, captured.Timeline[len(captured.Timeline)-1].IsConverted)
}

func TestAddRemarkRejectsSecondConversion(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)

	converted := entity.TimelineEntry{Timestamp: time.Now(), Description: "signed", IsConverted: true}
	leadRepo.On("FindByID", ctx, "lead-1").Return(pitchLead(entity.StagePitched, seller.Email, converted), nil)

	uc := usecase.NewLeadLifecycleUseCase(leadRepo, new(MockRoleResolver), nil)

	_, err := uc.AddRemark(ctx, usecase.AddRemarkInput{
		LeadID:    "lead-1",
		Remark:    "signed again?",
		Converted: true,
		Actor:     seller,
	})

	assert.Equal(t, usecase.CodeGuardViolation, usecase.ErrorCode(err))
	leadRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddRemarkRejectsWrongStage(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)

	leadRepo.On("FindByID", ctx, "lead-1").Return(pitchLead(entity.StageLead, ""), nil)

	uc := usecase.NewLeadLifecycleUseCase(leadRepo, new(MockRoleResolver), nil)

	_, err := uc.AddRemark(ctx, usecase.AddRemarkInput{LeadID: "lead-1", Remark: "hello", Actor: seller})

	assert.Equal(t, usecase.CodeInvalidTransition, usecase.ErrorCode(err))
}

func TestShopVisitKeepsStage(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	roles := new(MockRoleResolver)
	events := new(MockQueueProducer)

	roles.On("Resolve", ctx, seller).Return(roleData(entity.RoleWrite, seller.Email), nil)
	leadRepo.On("FindByID", ctx, "lead-1").Return(pitchLead(entity.StageOnboarded, seller.Email), nil)

	var captured entity.LeadUpdate
	leadRepo.On("Update", ctx, "lead-1", mock.MatchedBy(func(u entity.LeadUpdate) bool {
		captured = u
		return u.Stage == nil && u.Status == nil
	})).Return(pitchLead(entity.StageOnboarded, seller.Email), nil)
	events.On("PublishLeadEvent", ctx, mock.Anything).Return(nil)

	uc := usecase.NewLeadLifecycleUseCase(leadRepo, roles, events)

	_, err := uc.AddShopVisit(ctx, usecase.ShopVisitInput{
		LeadID: "lead-1",
		Remark: "stock looked low, revisit pricing",
		Actor:  seller,
	})

	assert.NoError(t, err)
	assert.Contains(t, captured.Timeline[0].Description, "Shop Visit:")
}

func TestShopVisitRejectsReadOnlyRole(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	roles := new(MockRoleResolver)

	roles.On("Resolve", ctx, stranger).Return(roleData(entity.RoleRead, stranger.Email), nil)

	uc := usecase.NewLeadLifecycleUseCase(leadRepo, roles, nil)

	_, err := uc.AddShopVisit(ctx, usecase.ShopVisitInput{LeadID: "lead-1", Remark: "hi", Actor: stranger})

	assert.Equal(t, usecase.CodeGuardViolation, usecase.ErrorCode(err))
	leadRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestLifecycleReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	roles := new(MockRoleResolver)

	roles.On("Resolve", ctx, admin).Return(roleData(entity.RoleAdmin, admin.Email), nil)
	leadRepo.On("FindByID", ctx, "missing").Return(nil, entity.ErrLeadNotFound)

	uc := usecase.NewLeadLifecycleUseCase(leadRepo, roles, nil)

	_, err := uc.Approve(ctx, usecase.ApproveLeadInput{LeadID: "missing", AssignedTo: seller.Email, Actor: admin})

	assert.Equal(t, usecase.CodeNotFound, usecase.ErrorCode(err))
}
