package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"smartlio/internal/models"
	"smartlio/internal/service"
)

// BusinessHandler handles the business listing and map places
type BusinessHandler struct {
	businesses *service.BusinessService
	logger     *logrus.Logger
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(businesses *service.BusinessService, logger *logrus.Logger) *BusinessHandler {
	return &BusinessHandler{businesses: businesses, logger: logger}
}

// GetPlaces handles GET /get-places
func (h *BusinessHandler) GetPlaces(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{"places": h.businesses.ListPlaces()})
}

// AddBusiness handles POST /add-business
func (h *BusinessHandler) AddBusiness(w http.ResponseWriter, r *http.Request) {
	var req addBusinessRequest
	if err := decodeRequest(r, &req, false); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	business, err := h.businesses.AddBusiness(r.Context(), models.Business{
		Name:        *req.Name,
		Type:        *req.Type,
		Lat:         *req.Lat,
		Lon:         *req.Lon,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "Failed to add business", err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"status": StatusOK,
		"id":     business.ID,
	})
}

// ListBusinesses handles GET /list-businesses
func (h *BusinessHandler) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	businesses, err := h.businesses.ListBusinesses(r.Context())
	if err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "Failed to list businesses", err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{"businesses": businesses})
}
