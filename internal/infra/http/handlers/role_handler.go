package handlers

import (
	"net/http"

	"github.com/xikelabs/lead-tracker/internal/infra/http/middleware"
	"github.com/xikelabs/lead-tracker/internal/usecase"
)

type RoleHandler struct {
	Resolver *usecase.ResolveRoleUseCase
}

func NewRoleHandler(resolver *usecase.ResolveRoleUseCase) *RoleHandler {
	return &RoleHandler{Resolver: resolver}
}

type RoleResponse struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	CanWrite bool   `json:"can_write"`
	IsAdmin  bool   `json:"is_admin"`
}

// HandleMe returns the caller's access role, creating a default read role
// the first time the identity shows up.
func (h *RoleHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r.Context())

	data, err := h.Resolver.Resolve(r.Context(), usecase.Actor{ID: actor.ID, Email: actor.Email})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RoleResponse{
		Email:    data.Email,
		Role:     string(data.Role),
		CanWrite: data.Role.CanWrite(),
		IsAdmin:  data.Role.IsAdmin(),
	})
}
