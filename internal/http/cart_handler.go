package httpapi

import (
	"net/http"

	"github.com/s2311-del/shopease-india-connect/internal/cart"
	"github.com/s2311-del/shopease-india-connect/internal/validation"
)

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	view, err := h.cart.View(ctx, session(r).UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) CartCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	n, err := h.cart.Count(ctx, session(r).UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var form validation.AddToCartForm
	if err := h.validator.Decode(r.Body, &form); err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	id, err := h.cart.Add(ctx, session(r).UserID, form.ProductID, form.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "productId": form.ProductID, "quantity": form.Quantity})
}

func (h *Handler) UpdateCartLine(w http.ResponseWriter, r *http.Request) {
	lineID, err := pathID(r, "lineId", cart.ErrNotFound)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var form validation.QuantityForm
	if err := h.validator.Decode(r.Body, &form); err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	if err := h.cart.UpdateQuantity(ctx, session(r).UserID, lineID, form.Quantity); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveCartLine(w http.ResponseWriter, r *http.Request) {
	lineID, err := pathID(r, "lineId", cart.ErrNotFound)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	if err := h.cart.Remove(ctx, session(r).UserID, lineID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
