package response

import (
	"encoding/json"
	"net/http"
)

// ErrorMessage is the JSON body of every failed status API request
type ErrorMessage struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func NewErrorMessage(statusCode int, message string) ErrorMessage {
	return ErrorMessage{Message: message, StatusCode: statusCode}
}

// Unauthorized builds a 401 body; WriteError adds the bearer challenge
func Unauthorized(message string) ErrorMessage {
	return NewErrorMessage(http.StatusUnauthorized, message)
}

func WriteError(w http.ResponseWriter, err ErrorMessage) {
	w.Header().Set("Content-Type", "application/json")
	if err.StatusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="hashsearch"`)
	}
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(err)
}
