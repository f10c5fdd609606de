package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xikelabs/lead-tracker/internal/infra/http/middleware"
	"github.com/xikelabs/lead-tracker/internal/usecase"
)

// LifecycleHandler exposes the pipeline transitions as one endpoint each.
type LifecycleHandler struct {
	UC *usecase.LeadLifecycleUseCase
}

func NewLifecycleHandler(uc *usecase.LeadLifecycleUseCase) *LifecycleHandler {
	return &LifecycleHandler{UC: uc}
}

type ApproveRequest struct {
	AssignedTo string `json:"assigned_to"`
	Remark     string `json:"remark"`
}

type PitchRequest struct {
	Remark         string  `json:"remark"`
	ResponseRating float64 `json:"response_rating"`
}

type RemarkRequest struct {
	Remark           string `json:"remark"`
	NextApproachDate string `json:"next_approach_date"` // YYYY-MM-DD
	Converted        bool   `json:"converted"`
}

type VisitRequest struct {
	Remark string `json:"remark"`
}

func (h *LifecycleHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r.Context())

	var req ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	lead, err := h.UC.Approve(r.Context(), usecase.ApproveLeadInput{
		LeadID:     chi.URLParam(r, "id"),
		AssignedTo: req.AssignedTo,
		Remark:     req.Remark,
		Actor:      usecase.Actor{ID: actor.ID, Email: actor.Email},
	})
	if err != nil {
		middleware.RecordStageTransition("approve", "rejected")
		writeError(w, err)
		return
	}

	middleware.RecordStageTransition("approve", "ok")
	writeJSON(w, http.StatusOK, lead)
}

func (h *LifecycleHandler) HandlePitch(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r.Context())

	var req PitchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	lead, err := h.UC.CompletePitch(r.Context(), usecase.CompletePitchInput{
		LeadID:         chi.URLParam(r, "id"),
		Remark:         req.Remark,
		ResponseRating: req.ResponseRating,
		Actor:          usecase.Actor{ID: actor.ID, Email: actor.Email},
	})
	if err != nil {
		middleware.RecordStageTransition("pitch", "rejected")
		writeError(w, err)
		return
	}

	middleware.RecordStageTransition("pitch", "ok")
	writeJSON(w, http.StatusOK, lead)
}

func (h *LifecycleHandler) HandleRemark(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r.Context())

	var req RemarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	var nextDate *time.Time
	if req.NextApproachDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.NextApproachDate, time.Local)
		if err != nil {
			http.Error(w, "next_approach_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		nextDate = &parsed
	}

	lead, err := h.UC.AddRemark(r.Context(), usecase.AddRemarkInput{
		LeadID:           chi.URLParam(r, "id"),
		Remark:           req.Remark,
		NextApproachDate: nextDate,
		Converted:        req.Converted,
		Actor:            usecase.Actor{ID: actor.ID, Email: actor.Email},
	})
	if err != nil {
		middleware.RecordStageTransition("remark", "rejected")
		writeError(w, err)
		return
	}

	middleware.RecordStageTransition("remark", "ok")
	writeJSON(w, http.StatusOK, lead)
}

func (h *LifecycleHandler) HandleVisit(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r.Context())

	var req VisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	lead, err := h.UC.AddShopVisit(r.Context(), usecase.ShopVisitInput{
		LeadID: chi.URLParam(r, "id"),
		Remark: req.Remark,
		Actor:  usecase.Actor{ID: actor.ID, Email: actor.Email},
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lead)
}
