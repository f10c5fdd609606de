package usecase

import (
	"context"

	"github.com/xikelabs/lead-tracker/internal/entity"
	"github.com/xikelabs/lead-tracker/internal/infra/queue"
)

type QueueProducerInterface interface {
	PublishLeadEvent(ctx context.Context, payload queue.LeadEventPayload) error
}

type RoleResolverInterface interface {
	Resolve(ctx context.Context, actor Actor) (*entity.UserRoleData, error)
}

// LeadCreatorInterface is the creation path the bulk importer drives.
type LeadCreatorInterface interface {
	Execute(ctx context.Context, input CreateLeadInput) (*entity.Lead, error)
}
