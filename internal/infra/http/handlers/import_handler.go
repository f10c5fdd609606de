package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/xikelabs/lead-tracker/internal/infra/http/middleware"
	"github.com/xikelabs/lead-tracker/internal/usecase"
)

const maxImportBytes = 1 << 20 // 1 MiB of CSV is plenty

type ImportHandler struct {
	UC          *usecase.BulkImportUseCase
	rateLimiter *RateLimiter
}

func NewImportHandler(uc *usecase.BulkImportUseCase) *ImportHandler {
	return &ImportHandler{
		UC:          uc,
		rateLimiter: NewRateLimiter(5, time.Minute), // 5 imports/min per IP
	}
}

func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Message: "too many imports, please try again later",
		})
		return
	}

	actor, _ := middleware.ActorFrom(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	output, err := h.UC.Execute(r.Context(), usecase.BulkImportInput{
		CSV:   string(body),
		Actor: usecase.Actor{ID: actor.ID, Email: actor.Email},
	})
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordImportRows(output.Imported, output.Failed)
	for i := 0; i < output.Imported; i++ {
		middleware.RecordLeadCreated("import")
	}

	status := http.StatusOK
	if output.Failed > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, output)
}
