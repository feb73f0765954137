package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"qc-backend/internal/models"
	"qc-backend/internal/services"
	"qc-backend/internal/validation"
	"qc-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type ControlRecordHandler struct {
	Service *services.ControlService
}

func NewControlRecordHandler(s *services.ControlService) *ControlRecordHandler {
	return &ControlRecordHandler{Service: s}
}

func (h *ControlRecordHandler) SaveRecord(w http.ResponseWriter, r *http.Request) {
	var req models.SaveControlRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.Service.SaveRecord(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, record)
}

func (h *ControlRecordHandler) ListByShift(w http.ResponseWriter, r *http.Request) {
	shiftID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid shift id", http.StatusBadRequest)
		return
	}

	records, err := h.Service.GetRecordsByShift(r.Context(), shiftID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, records)
}

func (h *ControlRecordHandler) GetRecordDefects(w http.ResponseWriter, r *http.Request) {
	recordID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid record id", http.StatusBadRequest)
		return
	}

	defects, err := h.Service.GetRecordDefects(r.Context(), recordID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, defects)
}

func (h *ControlRecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	recordID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid record id", http.StatusBadRequest)
		return
	}

	found, err := h.Service.DeleteRecord(r.Context(), recordID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !found {
		http.Error(w, "Record not found", http.StatusNotFound)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ValidateControl runs all record checks without saving anything
func (h *ControlRecordHandler) ValidateControl(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateControlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	errs, warnings := validation.ValidateControlData(req.TotalCast, req.TotalAccepted, req.Defects)

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"valid":    len(errs) == 0,
		"errors":   errs,
		"warnings": warnings,
	})
}

// CalculateMetrics is the what-if path: same arithmetic as shift statistics,
// nothing persisted
func (h *ControlRecordHandler) CalculateMetrics(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateControlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	metrics := services.CalculateMetrics(req.TotalCast, req.TotalAccepted, req.Defects)
	utils.JSON(w, http.StatusOK, metrics)
}
