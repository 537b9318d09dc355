package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/learnbatch/learnbatch/internal/errs"
	"github.com/learnbatch/learnbatch/internal/model"
)

// createBatch handles POST /createbatch.
func (s *Server) createBatch(w http.ResponseWriter, r *http.Request) {
	var req createBatchRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	b, u, err := s.batches.Create(r.Context(), req.toModel())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrValidation):
			writeError(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, errs.ErrNotFound):
			writeError(w, r, http.StatusNotFound, "user not found")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, struct {
		Message string       `json:"message"`
		Batch   *model.Batch `json:"batch"`
		User    *model.User  `json:"user"`
	}{"Batch created successfully", b, u})
}

// getBatch handles GET /getbatch/{id}: always the canonical copy.
func (s *Server) getBatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad batch id")
		return
	}

	b, err := s.batches.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "batch not found")
			return
		}
		s.internalError(w, r, err)
		return
	}
	render.JSON(w, r, b)
}

// updateBatch handles PUT /batchupdate/{batchId}.
func (s *Server) updateBatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "batchId"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad batch id")
		return
	}

	var req updateBatchRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	b, err := s.batches.Update(r.Context(), id, req.toModel())
	if err != nil {
		// a partial sync may wrap ErrNotFound for a vanished holder, so it is
		// matched before the plain not-found case
		var pse *errs.PartialSyncError
		switch {
		case errors.As(err, &pse):
			// the canonical batch is already updated; tell the caller which
			// holders still carry the previous snapshot
			s.log.Error("batch update left stale copies",
				zap.String("batch", pse.BatchID.String()),
				zap.Int("synced", len(pse.Synced)),
				zap.Int("stale", len(pse.Remaining)),
				zap.Error(pse.Err),
			)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, struct {
				Error     string   `json:"error"`
				SyncedIDs []string `json:"syncedUserIds"`
				StaleIDs  []string `json:"staleUserIds"`
			}{"server error while updating batch", uuidStrings(pse.Synced), uuidStrings(pse.Remaining)})
		case errors.Is(err, errs.ErrNotFound):
			writeError(w, r, http.StatusNotFound, "batch not found")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	render.JSON(w, r, struct {
		Message string       `json:"message"`
		Batch   *model.Batch `json:"batch"`
	}{"Batch updated successfully", b})
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
