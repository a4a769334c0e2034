package handlers

import (
	"encoding/json"
	"net/http"

	"gitlab.com/hashsearch.net/internal/handlers/response"
)

func ResponseWithJson(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// ResponseError writes the shared error body used by every status API route
func ResponseError(w http.ResponseWriter, message string, code int) {
	response.WriteError(w, response.NewErrorMessage(code, message))
}
