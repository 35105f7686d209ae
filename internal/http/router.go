package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/s2311-del/shopease-india-connect/internal/config"
	"github.com/s2311-del/shopease-india-connect/internal/middleware"
	"github.com/s2311-del/shopease-india-connect/internal/validation"
)

type Deps struct {
	Logger *log.Logger
	Cfg    config.Config

	Auth    AuthService
	Catalog CatalogService
	Cart    CartService
	Placer  OrderPlacer
	Orders  OrderService
}

func NewHandler(d Deps) *Handler {
	timeout := d.Cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Handler{
		auth:      d.Auth,
		catalog:   d.Catalog,
		cart:      d.Cart,
		placer:    d.Placer,
		orders:    d.Orders,
		validator: validation.New(),
		logger:    d.Logger,
		timeout:   timeout,
	}
}

func NewRouter(d Deps) http.Handler {
	h := NewHandler(d)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Recover(d.Logger))
	r.Use(middleware.CORS(d.Cfg.CORSAllowOrigins))
	r.Use(middleware.Authenticate(d.Auth, d.Logger))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.SignUp)
			r.Post("/signin", h.SignIn)
			r.With(middleware.RequireSession).Post("/signout", h.SignOut)
			r.With(middleware.RequireSession).Get("/session", h.Session)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/featured", h.FeaturedProducts)
			r.Get("/{productId}", h.GetProduct)
		})
		r.Get("/categories", h.ListCategories)
		r.Get("/categories/{categoryId}", h.GetCategory)
		r.Get("/vendors", h.ListVendors)
		r.Post("/contact", h.Contact)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Get("/count", h.CartCount)
				r.Post("/items", h.AddToCart)
				r.Patch("/items/{lineId}", h.UpdateCartLine)
				r.Delete("/items/{lineId}", h.RemoveCartLine)
			})
			r.Post("/checkout", h.Checkout)
			r.Get("/orders", h.ListOrders)
			r.Get("/orders/{orderId}", h.GetOrder)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/dashboard", h.Dashboard)
			r.Post("/products", h.CreateProduct)
			r.Put("/products/{productId}", h.UpdateProduct)
			r.Delete("/products/{productId}", h.DeleteProduct)
			r.Patch("/orders/{orderId}/status", h.UpdateOrderStatus)
		})
	})

	return r
}
