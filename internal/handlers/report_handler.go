package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"qc-backend/internal/services"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// GetShiftReport streams the shift report in the requested format.
// format=pdf (default), csv, or zip for both bundled.
func (h *ReportHandler) GetShiftReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid shift id", http.StatusBadRequest)
		return
	}

	data, err := h.Service.GetShiftReportData(r.Context(), id)
	if err != nil {
		http.Error(w, "Shift not found", http.StatusNotFound)
		return
	}

	base := fmt.Sprintf("shift_%s_%d", data.Shift.Date, data.Shift.ShiftNumber)

	switch r.URL.Query().Get("format") {
	case "csv":
		content, err := h.Service.GenerateShiftCSV(data)
		if err != nil {
			http.Error(w, "Failed to generate report", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", base))
		w.Write(content)

	case "zip":
		content, err := h.Service.GenerateShiftBundle(data)
		if err != nil {
			http.Error(w, "Failed to generate report", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.zip", base))
		w.Write(content)

	default:
		content, err := h.Service.GenerateShiftPDF(data)
		if err != nil {
			http.Error(w, "Failed to generate report", http.StatusInternalServerError)
			return
		}

		// Archive a copy off the request path
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			h.Service.ArchiveShiftReport(ctx, data, content)
		}()

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", base))
		w.Write(content)
	}
}
