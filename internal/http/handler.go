package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/s2311-del/shopease-india-connect/internal/auth"
	"github.com/s2311-del/shopease-india-connect/internal/cart"
	"github.com/s2311-del/shopease-india-connect/internal/catalog"
	"github.com/s2311-del/shopease-india-connect/internal/middleware"
	"github.com/s2311-del/shopease-india-connect/internal/order"
	"github.com/s2311-del/shopease-india-connect/internal/validation"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (auth.User, error)
	SignIn(ctx context.Context, email, password string) (string, auth.Session, error)
	SignOut(ctx context.Context, session auth.Session) error
	Authenticate(ctx context.Context, token string) (auth.Session, error)
}

type CatalogService interface {
	Browse(ctx context.Context, q catalog.ListingQuery) (catalog.ProductPage, error)
	Featured(ctx context.Context) ([]catalog.Product, error)
	Product(ctx context.Context, productID string) (catalog.ProductDetail, error)
	Categories(ctx context.Context) ([]catalog.Category, error)
	Category(ctx context.Context, categoryID string) (catalog.CategoryDetail, error)
	Vendors(ctx context.Context) ([]catalog.Vendor, error)
	CreateProduct(ctx context.Context, p *catalog.Product) error
	UpdateProduct(ctx context.Context, p *catalog.Product) error
	DeleteProduct(ctx context.Context, productID string) error
}

type CartService interface {
	View(ctx context.Context, userID string) (cart.View, error)
	Count(ctx context.Context, userID string) (int, error)
	Add(ctx context.Context, userID, productID string, quantity int) (string, error)
	UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) error
	Remove(ctx context.Context, userID, lineID string) error
}

type OrderPlacer interface {
	Place(ctx context.Context, session auth.Session, d order.Delivery) (string, error)
}

type OrderService interface {
	ListMine(ctx context.Context, session auth.Session) ([]order.Order, error)
	Get(ctx context.Context, session auth.Session, orderID string) (order.Detail, error)
	Dashboard(ctx context.Context) (order.Dashboard, error)
	UpdateStatus(ctx context.Context, orderID string, status order.Status) (order.Order, error)
}

type Handler struct {
	auth      AuthService
	catalog   CatalogService
	cart      CartService
	placer    OrderPlacer
	orders    OrderService
	validator *validation.Validator
	logger    *log.Logger
	timeout   time.Duration
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "storefront"})
}

func (h *Handler) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

// session is only called behind RequireSession, so a missing session is a wiring bug.
func session(r *http.Request) auth.Session {
	s, _ := auth.FromContext(r.Context())
	return s
}

// pathID reads a UUID route parameter. A value that does not parse cannot name
// a row, so it is reported as notFound without reaching the database.
func pathID(r *http.Request, name string, notFound error) (string, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return "", notFound
	}
	return id.String(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto HTTP answers. Anything unrecognised is a
// backend failure and is reported with its message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		middleware.WriteError(w, r, http.StatusBadRequest, middleware.ErrorResponse{Error: "validation failed", Fields: fields})
		return
	}
	if stockErr, ok := order.IsInsufficientStock(err); ok {
		middleware.WriteError(w, r, http.StatusConflict, middleware.ErrorResponse{Error: stockErr.Error(), Redirect: "/cart"})
		return
	}

	status := http.StatusInternalServerError
	resp := middleware.ErrorResponse{Error: err.Error()}
	switch {
	case errors.Is(err, validation.ErrMalformedBody),
		errors.Is(err, catalog.ErrInvalidQuery),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrUnknownProduct),
		errors.Is(err, catalog.ErrUnknownReference),
		errors.Is(err, order.ErrInvalidStatus):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthenticated):
		status = http.StatusUnauthorized
		resp.Redirect = "/login"
	case errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, cart.ErrNotFound),
		errors.Is(err, order.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, order.ErrEmptyCart):
		status = http.StatusConflict
		resp.Redirect = "/cart"
	case errors.Is(err, auth.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		h.logger.Printf("request failed method=%s path=%s correlationId=%s err=%v",
			r.Method, r.URL.Path, middleware.GetCorrelationID(r.Context()), err)
	}
	middleware.WriteError(w, r, status, resp)
}
