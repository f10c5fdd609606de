package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xikelabs/lead-tracker/internal/entity"
	"github.com/xikelabs/lead-tracker/internal/infra/http/middleware"
	"github.com/xikelabs/lead-tracker/internal/usecase"
)

type LeadHandler struct {
	Leads    entity.LeadRepositoryInterface
	CreateUC *usecase.CreateLeadUseCase
	DeleteUC *usecase.DeleteLeadUseCase
}

func NewLeadHandler(
	leads entity.LeadRepositoryInterface,
	createUC *usecase.CreateLeadUseCase,
	deleteUC *usecase.DeleteLeadUseCase,
) *LeadHandler {
	return &LeadHandler{
		Leads:    leads,
		CreateUC: createUC,
		DeleteUC: deleteUC,
	}
}

type CreateLeadRequest struct {
	Name                   string   `json:"name"`
	Category               []string `json:"category"`
	ACP                    float64  `json:"acp"`
	Location               string   `json:"location"`
	Area                   string   `json:"area"`
	Note                   string   `json:"note"`
	InstagramAccount       string   `json:"instagram_account"`
	CompetitorAppsDiscount string   `json:"competitor_apps_discount"`
	Branches               string   `json:"branches"`
	ImageURL               string   `json:"image_url"`
}

func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.List(r.Context())
	if err != nil {
		writeError(w, usecase.NewStoreUnavailable(err))
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lead, err := h.Leads.FindByID(r.Context(), id)
	if err != nil {
		if err == entity.ErrLeadNotFound {
			writeError(w, usecase.NewNotFound("lead"))
			return
		}
		writeError(w, usecase.NewStoreUnavailable(err))
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r.Context())

	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	lead, err := h.CreateUC.Execute(r.Context(), usecase.CreateLeadInput{
		Name:                   req.Name,
		Category:               req.Category,
		ACP:                    req.ACP,
		Location:               req.Location,
		Area:                   req.Area,
		Note:                   req.Note,
		InstagramAccount:       req.InstagramAccount,
		CompetitorAppsDiscount: req.CompetitorAppsDiscount,
		Branches:               req.Branches,
		ImageURL:               req.ImageURL,
		Actor:                  usecase.Actor{ID: actor.ID, Email: actor.Email},
	})
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordLeadCreated("single")
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r.Context())

	err := h.DeleteUC.Execute(r.Context(), usecase.DeleteLeadInput{
		LeadID: chi.URLParam(r, "id"),
		Actor:  usecase.Actor{ID: actor.ID, Email: actor.Email},
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
