package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"smartlio/internal/service"
)

// FamilyHandler handles family and member routes
type FamilyHandler struct {
	directory *service.DirectoryService
	logger    *logrus.Logger
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(directory *service.DirectoryService, logger *logrus.Logger) *FamilyHandler {
	return &FamilyHandler{directory: directory, logger: logger}
}

// CreateFamily handles POST /family/create
func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeRequest(r, &req, false); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	family, err := h.directory.CreateFamily(r.Context(), *req.Name)
	if err != nil {
		h.serviceError(w, err, "Failed to create family")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"status":    StatusOK,
		"family_id": family.ID,
	})
}

// ListFamilies handles GET /family/list
func (h *FamilyHandler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	families, err := h.directory.ListFamilies(r.Context())
	if err != nil {
		h.serviceError(w, err, "Failed to list families")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{"families": families})
}

// AddMember handles POST /family/add-member
func (h *FamilyHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeRequest(r, &req, false); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	member, err := h.directory.AddMember(r.Context(), *req.FamilyID, *req.MemberName, req.Phone)
	if err != nil {
		h.serviceError(w, err, "Failed to add member")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"status":    StatusOK,
		"member_id": member.ID,
	})
}

// UpdateLocation handles POST /family/update-location
func (h *FamilyHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req updateLocationRequest
	if err := decodeRequest(r, &req, false); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	if err := h.directory.UpdateLocation(r.Context(), *req.MemberID, *req.Lat, *req.Lon, req.Timestamp); err != nil {
		h.serviceError(w, err, "Failed to update location")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{"status": StatusOK})
}

// ToggleShare handles POST /family/toggle-share/{member_id}?share=0|1
func (h *FamilyHandler) ToggleShare(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "member_id")
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidMemberID, "", nil)
		return
	}

	share, err := strconv.Atoi(r.URL.Query().Get("share"))
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidShare, "", nil)
		return
	}

	state, err := h.directory.ToggleShare(r.Context(), memberID, share != 0)
	if err != nil {
		h.serviceError(w, err, "Failed to toggle share")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"status":    StatusOK,
		"member_id": state.MemberID,
		"share":     state.Share,
	})
}

// ListMembers handles GET /family/members/{family_id}
func (h *FamilyHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	familyID, err := pathID(r, "family_id")
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidFamilyID, "", nil)
		return
	}

	members, err := h.directory.ListMembers(r.Context(), familyID)
	if err != nil {
		h.serviceError(w, err, "Failed to list members")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{"members": members})
}

func (h *FamilyHandler) serviceError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrFamilyNotFound):
		respondWithError(w, h.logger, http.StatusNotFound, ErrFamilyNotFound, "", nil)
	case errors.Is(err, service.ErrMemberNotFound):
		respondWithError(w, h.logger, http.StatusNotFound, ErrMemberNotFound, "", nil)
	default:
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}
