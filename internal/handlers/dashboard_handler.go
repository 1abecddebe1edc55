package handlers

import (
	"net/http"

	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

type DashboardHandler struct {
	Service *services.DashboardService
}

func NewDashboardHandler(s *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: s}
}

// Stats handles GET /api/dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.GetStats(r.Context())
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	if stats.DueToday == nil {
		stats.DueToday = []*models.Rental{}
	}
	if stats.DueTomorrow == nil {
		stats.DueTomorrow = []*models.Rental{}
	}
	utils.JSON(w, http.StatusOK, stats)
}
