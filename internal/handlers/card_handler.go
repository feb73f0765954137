package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"qc-backend/internal/services"
	"qc-backend/internal/validation"
	"qc-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type CardHandler struct {
	Service *services.ControlService
}

func NewCardHandler(s *services.ControlService) *CardHandler {
	return &CardHandler{Service: s}
}

// SearchCard looks a route card up in the external production databases and
// reports whether it already went through control
func (h *CardHandler) SearchCard(w http.ResponseWriter, r *http.Request) {
	number := strings.TrimSpace(mux.Vars(r)["number"])
	if !validation.ValidCardNumber(number) {
		http.Error(w, "Card number must be exactly 6 digits", http.StatusBadRequest)
		return
	}

	result, err := h.Service.SearchCard(r.Context(), number)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, result)
}

type qrScanRequest struct {
	Payload string `json:"payload"`
}

// QRScan extracts a card number from scanner payload and runs the same
// lookup as SearchCard. Scanners prepend routing junk, so take the first
// 6-digit run found.
func (h *CardHandler) QRScan(w http.ResponseWriter, r *http.Request) {
	var req qrScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	number := validation.ExtractCardNumber(req.Payload)
	if number == "" {
		http.Error(w, "No card number found in scan payload", http.StatusBadRequest)
		return
	}

	result, err := h.Service.SearchCard(r.Context(), number)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"card_number": number,
		"result":      result,
	})
}
