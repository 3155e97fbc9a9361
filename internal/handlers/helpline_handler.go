package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"smartlio/internal/models"
	"smartlio/internal/service"
)

// HelplineHandler serves the helpline registry and the SOS endpoint
type HelplineHandler struct {
	helplines *service.HelplineService
	sos       *service.SOSService
	logger    *logrus.Logger
}

// NewHelplineHandler creates a new helpline handler
func NewHelplineHandler(helplines *service.HelplineService, sos *service.SOSService, logger *logrus.Logger) *HelplineHandler {
	return &HelplineHandler{helplines: helplines, sos: sos, logger: logger}
}

// ListHelplines handles GET /helplines
func (h *HelplineHandler) ListHelplines(w http.ResponseWriter, r *http.Request) {
	helplines, err := h.helplines.ListHelplines(r.Context())
	if err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "Failed to list helplines", err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{"helplines": helplines})
}

// TriggerSOS handles POST /sos. Every field of the body is optional.
func (h *HelplineHandler) TriggerSOS(w http.ResponseWriter, r *http.Request) {
	var req sosRequest
	if err := decodeRequest(r, &req, true); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	result, err := h.sos.TriggerSOS(r.Context(), models.SOSRequest{
		MemberID: req.MemberID,
		Lat:      req.Lat,
		Lon:      req.Lon,
		Note:     req.Note,
	})
	if err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "Failed to trigger SOS", err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}
