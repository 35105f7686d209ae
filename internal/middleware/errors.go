package middleware

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every non-2xx JSON answer.
type ErrorResponse struct {
	Error         string            `json:"error"`
	CorrelationID string            `json:"correlationId,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"`
	Redirect      string            `json:"redirect,omitempty"`
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, resp ErrorResponse) {
	resp.CorrelationID = GetCorrelationID(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
