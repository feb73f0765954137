package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"qc-backend/internal/models"
	"qc-backend/internal/repositories"
	"qc-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type ControllerHandler struct {
	Repo *repositories.ControllerRepository
}

func NewControllerHandler(repo *repositories.ControllerRepository) *ControllerHandler {
	return &ControllerHandler{Repo: repo}
}

func (h *ControllerHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	controllers, err := h.Repo.List(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, controllers)
}

func (h *ControllerHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.AddControllerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		utils.ValidationFailed(w, []string{"controller name is required"})
		return
	}

	controller, err := h.Repo.Add(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, controller)
}

func (h *ControllerHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid controller id", http.StatusBadRequest)
		return
	}

	found, err := h.Repo.ToggleActive(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !found {
		http.Error(w, "Controller not found", http.StatusNotFound)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *ControllerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid controller id", http.StatusBadRequest)
		return
	}

	found, err := h.Repo.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !found {
		http.Error(w, "Controller not found", http.StatusNotFound)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
