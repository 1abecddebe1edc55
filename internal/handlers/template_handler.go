package handlers

import (
	"net/http"

	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

type TemplateHandler struct {
	Service *services.TemplateService
}

func NewTemplateHandler(s *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{Service: s}
}

// GetTemplate handles GET /api/templates
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.Service.GetTemplate(r.Context())
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, tpl)
}

// SaveTemplate handles PUT and POST /api/templates
func (h *TemplateHandler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req models.TemplateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}
	tpl, err := h.Service.SaveTemplate(r.Context(), req.Content)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, tpl)
}

// Tokens handles GET /api/templates/tokens
func (h *TemplateHandler) Tokens(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string][]string{"tokens": h.Service.Placeholders()})
}

// Preview handles POST /api/templates/preview
func (h *TemplateHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req models.TemplateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}
	preview, err := h.Service.Preview(r.Context(), req.Content)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, preview)
}
