package httpapi

import (
	"net/http"

	"github.com/s2311-del/shopease-india-connect/internal/catalog"
	"github.com/s2311-del/shopease-india-connect/internal/validation"
)

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := catalog.ListingQuery{
		Search:     q.Get("search"),
		Category:   q.Get("category"),
		PriceRange: q.Get("price"),
		Sort:       catalog.SortKey(q.Get("sort")),
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	page, err := h.catalog.Browse(ctx, query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	products, err := h.catalog.Featured(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId", catalog.ErrNotFound)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	detail, err := h.catalog.Product(ctx, productID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryId", catalog.ErrNotFound)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	detail, err := h.catalog.Category(ctx, categoryID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) ListVendors(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	vendors, err := h.catalog.Vendors(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

func productFromForm(f validation.ProductForm) *catalog.Product {
	return &catalog.Product{
		Name:        f.Name,
		Description: f.Description,
		ImageURL:    f.ImageURL,
		Price:       f.Price,
		SalePrice:   f.SalePrice,
		IsOnSale:    f.IsOnSale,
		IsFeatured:  f.IsFeatured,
		Stock:       f.Stock,
		CategoryID:  f.CategoryID,
		VendorID:    f.VendorID,
	}
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var form validation.ProductForm
	if err := h.validator.Decode(r.Body, &form); err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	p := productFromForm(form)
	if err := h.catalog.CreateProduct(ctx, p); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId", catalog.ErrNotFound)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var form validation.ProductForm
	if err := h.validator.Decode(r.Body, &form); err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	p := productFromForm(form)
	p.ID = productID
	if err := h.catalog.UpdateProduct(ctx, p); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId", catalog.ErrNotFound)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	if err := h.catalog.DeleteProduct(ctx, productID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
