package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, logger logrus.FieldLogger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.WithError(err).Error("Error encoding JSON response")
		}
	}
}

func respondWithError(w http.ResponseWriter, logger logrus.FieldLogger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		logger.WithError(err).WithField("status", status).Error(logMsg)
	}

	respondJSON(w, logger, status, errorResponse{Error: userMsg})
}
