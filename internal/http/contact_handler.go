package httpapi

import (
	"net/http"

	"github.com/s2311-del/shopease-india-connect/internal/middleware"
	"github.com/s2311-del/shopease-india-connect/internal/validation"
)

// Contact accepts a contact-us message. Messages are only logged; there is no mail backend.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	var form validation.ContactForm
	if err := h.validator.Decode(r.Body, &form); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Printf("contact message from=%q subject=%q correlationId=%s",
		form.Email, form.Subject, middleware.GetCorrelationID(r.Context()))
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "received"})
}
