package handlers

import (
	"net/http"

	"qc-backend/internal/repositories"
	"qc-backend/pkg/utils"
)

type DefectHandler struct {
	Repo *repositories.DefectRepository
}

func NewDefectHandler(repo *repositories.DefectRepository) *DefectHandler {
	return &DefectHandler{Repo: repo}
}

// GetTypes returns the full defect catalog grouped by category, in catalog
// order, for the entry form
func (h *DefectHandler) GetTypes(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Repo.GetAllTypesGrouped(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, groups)
}
