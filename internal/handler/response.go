package handler

import (
	"encoding/json"
	"net/http"

	"bizpos-backend/internal/validation"
)

type apiError struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
}

// apiResponse is the envelope of every JSON response.
type apiResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    any       `json:"data"`
	Error   *apiError `json:"error,omitempty"`
}

func newAPIError(status int) *apiError {
	return &apiError{Code: status, Status: http.StatusText(status)}
}

func writeRawJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	resp := apiResponse{Status: "ok", Data: payload}
	if status >= 400 {
		resp.Status = "error"
		resp.Error = newAPIError(status)
	}
	writeRawJSON(w, status, resp)
}

func writeError(w http.ResponseWriter, status int, message string) {
	if status < 400 {
		status = http.StatusInternalServerError
	}
	writeRawJSON(w, status, apiResponse{
		Status:  "error",
		Message: message,
		Error:   newAPIError(status),
	})
}

func writeErrorWithErr(w http.ResponseWriter, status int, message string, err error) {
	switch {
	case err == nil:
		writeError(w, status, message)
	case message == "":
		writeError(w, status, err.Error())
	default:
		writeError(w, status, message+": "+err.Error())
	}
}

// writeViolations reports a rejected save. The violations go in data so
// clients can map each one back to its field.
func writeViolations(w http.ResponseWriter, vs validation.Violations) {
	writeRawJSON(w, http.StatusUnprocessableEntity, apiResponse{
		Status:  "error",
		Message: "settings validation failed",
		Data:    vs,
		Error:   newAPIError(http.StatusUnprocessableEntity),
	})
}
