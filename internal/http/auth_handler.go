package httpapi

import (
	"net/http"

	"github.com/s2311-del/shopease-india-connect/internal/auth"
	"github.com/s2311-del/shopease-india-connect/internal/validation"
)

type signInResponse struct {
	Token    string       `json:"token"`
	Session  auth.Session `json:"session"`
	Redirect string       `json:"redirect"`
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var form validation.SignUpForm
	if err := h.validator.Decode(r.Body, &form); err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	u, err := h.auth.SignUp(ctx, form.Email, form.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": u.ID, "email": u.Email})
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var form validation.SignInForm
	if err := h.validator.Decode(r.Body, &form); err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	token, s, err := h.auth.SignIn(ctx, form.Email, form.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	redirect := "/"
	if s.IsAdmin() {
		redirect = "/admin"
	}
	writeJSON(w, http.StatusOK, signInResponse{Token: token, Session: s, Redirect: redirect})
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	if err := h.auth.SignOut(ctx, session(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, session(r))
}
