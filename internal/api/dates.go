package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/RichardoC/venue-assistant/internal/db"
	"github.com/RichardoC/venue-assistant/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ActionResult reports the outcome of an admin mutation.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type DateRequest struct {
	Date string `json:"date"`
}

type DateView struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
}

func (h *Handler) ListDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.db.ListAvailableDates(r.Context())
	if err != nil {
		h.logger.Error("Failed to list available dates", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
		return
	}

	views := make([]DateView, 0, len(dates))
	for _, d := range dates {
		views = append(views, DateView{ID: d.ID, Date: d.Day()})
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"dates": views})
}

func (h *Handler) CreateDate(w http.ResponseWriter, r *http.Request) {
	var req DateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ActionResult{Message: "Invalid request body"})
		return
	}

	status, result := h.addDate(r.Context(), req.Date)
	h.writeJSON(w, status, result)
}

func (h *Handler) DeleteDate(w http.ResponseWriter, r *http.Request) {
	status, result := h.deleteDate(r.Context(), chi.URLParam(r, "id"))
	h.writeJSON(w, status, result)
}

func (h *Handler) addDate(ctx context.Context, raw string) (int, ActionResult) {
	if strings.TrimSpace(raw) == "" {
		return http.StatusBadRequest, ActionResult{Message: "Date is required."}
	}
	day, err := models.ParseDay(raw)
	if err != nil {
		return http.StatusBadRequest, ActionResult{Message: "Invalid date format."}
	}

	_, err = h.db.CreateAvailableDate(ctx, day)
	switch {
	case errors.Is(err, db.ErrDuplicateDate):
		return http.StatusConflict, ActionResult{Message: "This date is already marked as available."}
	case err != nil:
		h.logger.Error("Failed to add available date", zap.Error(err), zap.String("date", raw))
		return http.StatusInternalServerError, ActionResult{Message: "An unexpected error occurred."}
	}

	h.logger.Info("Added available date", zap.String("date", day.Format(models.DateLayout)))
	return http.StatusCreated, ActionResult{Success: true, Message: "Date added successfully!"}
}

func (h *Handler) deleteDate(ctx context.Context, rawID string) (int, ActionResult) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return http.StatusBadRequest, ActionResult{Message: "Date ID is required."}
	}

	err = h.db.DeleteAvailableDate(ctx, id)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound, ActionResult{Message: "Failed to remove date."}
	case err != nil:
		h.logger.Error("Failed to remove available date", zap.Error(err), zap.Int64("id", id))
		return http.StatusInternalServerError, ActionResult{Message: "Failed to remove date."}
	}

	h.logger.Info("Removed available date", zap.Int64("id", id))
	return http.StatusOK, ActionResult{Success: true, Message: "Date removed successfully."}
}
