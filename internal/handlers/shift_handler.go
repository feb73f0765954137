package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"qc-backend/internal/apperrors"
	"qc-backend/internal/models"
	"qc-backend/internal/services"
	"qc-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type ShiftHandler struct {
	Service *services.ShiftService
	Stats   *services.StatisticsService
}

func NewShiftHandler(s *services.ShiftService, stats *services.StatisticsService) *ShiftHandler {
	return &ShiftHandler{Service: s, Stats: stats}
}

func (h *ShiftHandler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req models.CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	shift, err := h.Service.CreateShift(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, shift)
}

func (h *ShiftHandler) ListShifts(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	shifts, err := h.Service.ListShifts(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, shifts)
}

// GetCurrentShift resolves the caller's shift. The terminal passes the id it
// has been working against; with no id only the expiry sweep runs.
func (h *ShiftHandler) GetCurrentShift(w http.ResponseWriter, r *http.Request) {
	shiftID := 0
	if v := r.URL.Query().Get("shift_id"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "shift_id must be a number", http.StatusBadRequest)
			return
		}
		shiftID = n
	}

	shift, err := h.Service.GetCurrentShift(r.Context(), shiftID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"shift":  shift,
		"active": shift != nil,
	})
}

func (h *ShiftHandler) GetShift(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid shift id", http.StatusBadRequest)
		return
	}

	shift, err := h.Service.GetShift(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if shift == nil {
		http.Error(w, "Shift not found", http.StatusNotFound)
		return
	}

	stats, err := h.Stats.GetShiftStatistics(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"shift":      shift,
		"statistics": stats,
	})
}

func (h *ShiftHandler) CloseShift(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid shift id", http.StatusBadRequest)
		return
	}

	found, err := h.Service.CloseShift(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !found {
		http.Error(w, "Shift not found", http.StatusNotFound)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"shift_id": id,
	})
}

func (h *ShiftHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid shift id", http.StatusBadRequest)
		return
	}

	shift, err := h.Service.GetShift(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if shift == nil {
		http.Error(w, "Shift not found", http.StatusNotFound)
		return
	}

	stats, err := h.Stats.GetShiftStatistics(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, stats)
}

// ValidateShift runs all shift checks without saving anything
func (h *ShiftHandler) ValidateShift(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	errs := h.Service.ValidateShiftData(r.Context(), req.Date, req.ShiftNumber, req.ControllerNames)

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"valid":  len(errs) == 0,
		"errors": errs,
	})
}

// AutoClose forces the expiry sweep, normally driven by the scheduler
func (h *ShiftHandler) AutoClose(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.AutoCloseExpiredShifts(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// writeServiceError maps service errors onto the HTTP surface. Validation
// failures carry their message list, duplicates map to 409, everything else
// stays a generic 500 so internals never leak.
func writeServiceError(w http.ResponseWriter, err error) {
	// Duplicate shift before the generic validation check: it is
	// validation-class too, but maps to 409 rather than 400
	var dup *apperrors.DuplicateShiftError
	if errors.As(err, &dup) {
		utils.JSON(w, http.StatusConflict, map[string]string{"error": dup.Error()})
		return
	}

	if messages, ok := apperrors.IsValidation(err); ok {
		utils.ValidationFailed(w, messages)
		return
	}

	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
