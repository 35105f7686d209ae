package httpapi

import (
	"net/http"

	"github.com/s2311-del/shopease-india-connect/internal/order"
	"github.com/s2311-del/shopease-india-connect/internal/validation"
)

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var form validation.CheckoutForm
	if err := h.validator.Decode(r.Body, &form); err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	id, err := h.placer.Place(ctx, session(r), order.Delivery{Address: form.DeliveryAddress, ContactNumber: form.ContactNumber})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"orderId": id})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	orders, err := h.orders.ListMine(ctx, session(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId", order.ErrNotFound)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	detail, err := h.orders.Get(ctx, session(r), orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	d, err := h.orders.Dashboard(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId", order.ErrNotFound)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var form validation.StatusForm
	if err := h.validator.Decode(r.Body, &form); err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	o, err := h.orders.UpdateStatus(ctx, orderID, order.Status(form.Status))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
