package usecase

import (
	"context"
	"errors"

	"github.com/xikelabs/lead-tracker/internal/entity"
)

// DeleteLeadUseCase removes a lead that has not entered the pipeline yet.
// Admins can delete any fresh lead, everyone else only their own.
type DeleteLeadUseCase struct {
	Leads entity.LeadRepositoryInterface
	Roles RoleResolverInterface
}

func NewDeleteLeadUseCase(leads entity.LeadRepositoryInterface, roles RoleResolverInterface) *DeleteLeadUseCase {
	return &DeleteLeadUseCase{Leads: leads, Roles: roles}
}

func (uc *DeleteLeadUseCase) Execute(ctx context.Context, input DeleteLeadInput) error {
	role, err := uc.Roles.Resolve(ctx, input.Actor)
	if err != nil {
		return err
	}

	lead, err := uc.Leads.FindByID(ctx, input.LeadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return NewNotFound("lead")
		}
		return NewStoreUnavailable(err)
	}

	if !role.Role.IsAdmin() && lead.AddedBy != input.Actor.Email {
		return NewGuardViolation("only admins or the creator can delete a lead")
	}
	if lead.Stage != entity.StageLead {
		return NewGuardViolation("only leads that have not entered the pipeline can be deleted")
	}

	if err := uc.Leads.Delete(ctx, lead.ID); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return NewNotFound("lead")
		}
		return NewStoreUnavailable(err)
	}
	return nil
}
