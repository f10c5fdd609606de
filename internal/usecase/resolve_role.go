package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/xikelabs/lead-tracker/internal/entity"
)

// ResolveRoleUseCase looks up the access role for an identity, creating a
// default read-only record the first time the identity is seen.
type ResolveRoleUseCase struct {
	Roles entity.RoleRepositoryInterface
}

func NewResolveRoleUseCase(roles entity.RoleRepositoryInterface) *ResolveRoleUseCase {
	return &ResolveRoleUseCase{Roles: roles}
}

func (uc *ResolveRoleUseCase) Resolve(ctx context.Context, actor Actor) (*entity.UserRoleData, error) {
	data, err := uc.Roles.FindByUserID(ctx, actor.ID)
	if err == nil {
		if !data.Role.Valid() {
			// Unknown stored role values grant read access only.
			data.Role = entity.RoleRead
		}
		return data, nil
	}
	if !errors.Is(err, entity.ErrRoleNotFound) {
		return nil, NewStoreUnavailable(err)
	}

	now := time.Now()
	record := &entity.UserRoleData{
		ID:        uuid.New().String(),
		UserID:    actor.ID,
		Email:     actor.Email,
		Role:      entity.RoleRead,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.Roles.Insert(ctx, record); err != nil {
		if errors.Is(err, entity.ErrRoleAlreadyExists) {
			// Lost a creation race. The record that won is the truth;
			// re-fetch it instead of treating the conflict as fatal.
			existing, ferr := uc.Roles.FindByUserID(ctx, actor.ID)
			if ferr != nil {
				return nil, NewStoreUnavailable(ferr)
			}
			return existing, nil
		}
		return nil, NewStoreUnavailable(err)
	}

	return record, nil
}
