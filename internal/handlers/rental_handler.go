package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

type RentalHandler struct {
	Service *services.RentalService
	Reports *services.ReportService
}

func NewRentalHandler(s *services.RentalService, reports *services.ReportService) *RentalHandler {
	return &RentalHandler{Service: s, Reports: reports}
}

// CreateRental handles POST /api/rentals (public booking form)
func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}
	rental, err := h.Service.CreateRental(r.Context(), &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, rental)
}

// ListRentals handles GET /api/rentals
func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	f, status, err := rentalQuery(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	page, err := h.Service.ListRentals(r.Context(), f, status)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	if page.Rentals == nil {
		page.Rentals = []*models.Rental{}
	}
	utils.JSON(w, http.StatusOK, page)
}

// ExportRentals handles GET /api/rentals/export?format=csv|pdf|xlsx
func (h *RentalHandler) ExportRentals(w http.ResponseWriter, r *http.Request) {
	f, status, err := rentalQuery(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	rentals, err := h.Service.ExportRentals(r.Context(), f, status)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	export, err := h.Reports.ExportRentals(rentals, r.URL.Query().Get("format"))
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(export.Data)
}

// GetRental handles GET /api/rentals/{id}
func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	rental, err := h.Service.GetRental(r.Context(), id)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, rental)
}

// GetAgreement handles GET /api/agreements/{reference}
func (h *RentalHandler) GetAgreement(w http.ResponseWriter, r *http.Request) {
	rental, err := h.Service.GetAgreement(r.Context(), mux.Vars(r)["reference"])
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, rental)
}

// ExtendRental handles PUT /api/rentals/{id}/extend
func (h *RentalHandler) ExtendRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	var req models.ExtendRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}
	rental, err := h.Service.ExtendRental(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, rental)
}

// DeleteRental handles DELETE /api/rentals/{id}
func (h *RentalHandler) DeleteRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	if err := h.Service.DeleteRental(r.Context(), id); err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Message(w, http.StatusOK, "Rental deleted")
}
