package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvumaihuynh/stash/internal/service"
)

type productRequest struct {
	ID              *int64  `json:"id"`
	Name            string  `json:"name" validate:"required,notblank,max=255"`
	PictureURL      *string `json:"pictureUrl" validate:"omitempty,url"`
	CategoryID      *int64  `json:"categoryId" validate:"omitempty,gt=0"`
	ParentProductID *int64  `json:"parentProductId" validate:"omitempty,gt=0"`
	DefaultLocation *string `json:"defaultLocation" validate:"omitempty,max=255"`
}

type productHandler struct {
	*Service
	productSvc service.ProductService
}

func (h *productHandler) routes(r chi.Router) {
	r.Get("/", h.listProducts)
	r.Post("/", h.createProduct)
	r.Get("/{id}", h.getProduct)
	r.Put("/{id}", h.updateProduct)
	r.Delete("/{id}", h.deleteProduct)
}

func (h *productHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productSvc.ListProducts(r.Context())
	if err != nil {
		h.handleResponseError(w, r, fmt.Errorf("product service list products: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, products)
}

func (h *productHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		h.handleResponseError(w, r, fmt.Errorf("product service get product: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, product)
}

func (h *productHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	product, err := h.productSvc.CreateProduct(r.Context(), service.CreateProductParams{
		Name:            req.Name,
		PictureURL:      req.PictureURL,
		CategoryID:      req.CategoryID,
		ParentProductID: req.ParentProductID,
		DefaultLocation: req.DefaultLocation,
	})
	if err != nil {
		h.handleResponseError(w, r, fmt.Errorf("product service create product: %w", err))
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/products/%d", product.ID))
	h.writeJSON(w, r, http.StatusCreated, product)
}

func (h *productHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	var req productRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	if err := bodyID(id, req.ID); err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), service.UpdateProductParams{
		ID:              id,
		Name:            req.Name,
		PictureURL:      req.PictureURL,
		CategoryID:      req.CategoryID,
		ParentProductID: req.ParentProductID,
		DefaultLocation: req.DefaultLocation,
	})
	if err != nil {
		h.handleResponseError(w, r, fmt.Errorf("product service update product: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, product)
}

func (h *productHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	if err := h.productSvc.DeleteProduct(r.Context(), id); err != nil {
		h.handleResponseError(w, r, fmt.Errorf("product service delete product: %w", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
