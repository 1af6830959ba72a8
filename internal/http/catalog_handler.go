package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvumaihuynh/stash/internal/apperr"
	"github.com/tuanvumaihuynh/stash/internal/service"
)

type namedRequest struct {
	ID   *int64 `json:"id"`
	Name string `json:"name" validate:"required,notblank,max=255"`
}

type locationRequest struct {
	ID          *int64  `json:"id"`
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1024"`
}

// bodyID checks that an id repeated in the body matches the path.
func bodyID(pathID int64, bodyID *int64) error {
	if bodyID != nil && *bodyID != pathID {
		return apperr.IDMismatchErr.WrapParent(fmt.Errorf("path %d, body %d", pathID, *bodyID))
	}
	return nil
}

type categoryHandler struct {
	*Service
	categorySvc service.CategoryService
}

func (h *categoryHandler) routes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categorySvc.ListCategories(r.Context())
		if err != nil {
			h.handleResponseError(w, r, fmt.Errorf("category service list categories: %w", err))
			return
		}
		h.writeJSON(w, r, http.StatusOK, categories)
	})

	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathInt64(r, "id")
		if err != nil {
			h.handleResponseError(w, r, err)
			return
		}

		category, err := h.categorySvc.GetCategory(r.Context(), id)
		if err != nil {
			h.handleResponseError(w, r, fmt.Errorf("category service get category: %w", err))
			return
		}
		h.writeJSON(w, r, http.StatusOK, category)
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var req namedRequest
		if err := h.decodeBody(w, r, &req); err != nil {
			h.handleResponseError(w, r, err)
			return
		}

		category, err := h.categorySvc.CreateCategory(r.Context(), req.Name)
		if err != nil {
			h.handleResponseError(w, r, fmt.Errorf("category service create category: %w", err))
			return
		}
		h.writeJSON(w, r, http.StatusCreated, category)
	})

	r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathInt64(r, "id")
		if err != nil {
			h.handleResponseError(w, r, err)
			return
		}

		var req namedRequest
		if err := h.decodeBody(w, r, &req); err != nil {
			h.handleResponseError(w, r, err)
			return
		}
		if err := bodyID(id, req.ID); err != nil {
			h.handleResponseError(w, r, err)
			return
		}

		category, err := h.categorySvc.UpdateCategory(r.Context(), id, req.Name)
		if err != nil {
			h.handleResponseError(w, r, fmt.Errorf("category service update category: %w", err))
			return
		}
		h.writeJSON(w, r, http.StatusOK, category)
	})

	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathInt64(r, "id")
		if err != nil {
			h.handleResponseError(w, r, err)
			return
		}

		if err := h.categorySvc.DeleteCategory(r.Context(), id); err != nil {
			h.handleResponseError(w, r, fmt.Errorf("category service delete category: %w", err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

type parentProductHandler struct {
	*Service
	parentProductSvc service.ParentProductService
}

func (h *parentProductHandler) routes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		parentProducts, err := h.parentProductSvc.ListParentProducts(r.Context())
		if err != nil {
			h.handleResponseError(w, r, fmt.Errorf("parent product service list parent products: %w", err))
			return
		}
		h.writeJSON(w, r, http.StatusOK, parentProducts)
	})

	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathInt64(r, "id")
		if err != nil {
			h.handleResponseError(w, r, err)
			return
		}

		parentProduct, err := h.parentProductSvc.GetParentProduct(r.Context(), id)
		if err != nil {
			h.handleResponseError(w, r, fmt.Errorf("parent product service get parent product: %w", err))
			return
		}
		h.writeJSON(w, r, http.StatusOK, parentProduct)
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var req namedRequest
		if err := h.decodeBody(w, r, &req); err != nil {
			h.handleResponseError(w, r, err)
			return
		}

		parentProduct, err := h.parentProductSvc.CreateParentProduct(r.Context(), req.Name)
		if err != nil {
			h.handleResponseError(w, r, fmt.Errorf("parent product service create parent product: %w", err))
			return
		}
		h.writeJSON(w, r, http.StatusCreated, parentProduct)
	})

	r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathInt64(r, "id")
		if err != nil {
			h.handleResponseError(w, r, err)
			return
		}

		var req namedRequest
		if err := h.decodeBody(w, r, &req); err != nil {
			h.handleResponseError(w, r, err)
			return
		}
		if err := bodyID(id, req.ID); err != nil {
			h.handleResponseError(w, r, err)
			return
		}

		parentProduct, err := h.parentProductSvc.UpdateParentProduct(r.Context(), id, req.Name)
		if err != nil {
			h.handleResponseError(w, r, fmt.Errorf("parent product service update parent product: %w", err))
			return
		}
		h.writeJSON(w, r, http.StatusOK, parentProduct)
	})

	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathInt64(r, "id")
		if err != nil {
			h.handleResponseError(w, r, err)
			return
		}

		if err := h.parentProductSvc.DeleteParentProduct(r.Context(), id); err != nil {
			h.handleResponseError(w, r, fmt.Errorf("parent product service delete parent product: %w", err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

type locationHandler struct {
	*Service
	locationSvc service.LocationService
}

func (h *locationHandler) routes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		locations, err := h.locationSvc.ListLocations(r.Context())
		if err != nil {
			h.handleResponseError(w, r, fmt.Errorf("location service list locations: %w", err))
			return
		}
		h.writeJSON(w, r, http.StatusOK, locations)
	})

	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathInt64(r, "id")
		if err != nil {
			h.handleResponseError(w, r, err)
			return
		}

		location, err := h.locationSvc.GetLocation(r.Context(), id)
		if err != nil {
			h.handleResponseError(w, r, fmt.Errorf("location service get location: %w", err))
			return
		}
		h.writeJSON(w, r, http.StatusOK, location)
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var req locationRequest
		if err := h.decodeBody(w, r, &req); err != nil {
			h.handleResponseError(w, r, err)
			return
		}

		location, err := h.locationSvc.CreateLocation(r.Context(), service.CreateLocationParams{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			h.handleResponseError(w, r, fmt.Errorf("location service create location: %w", err))
			return
		}
		h.writeJSON(w, r, http.StatusCreated, location)
	})

	r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathInt64(r, "id")
		if err != nil {
			h.handleResponseError(w, r, err)
			return
		}

		var req locationRequest
		if err := h.decodeBody(w, r, &req); err != nil {
			h.handleResponseError(w, r, err)
			return
		}
		if err := bodyID(id, req.ID); err != nil {
			h.handleResponseError(w, r, err)
			return
		}

		location, err := h.locationSvc.UpdateLocation(r.Context(), service.UpdateLocationParams{
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			h.handleResponseError(w, r, fmt.Errorf("location service update location: %w", err))
			return
		}
		h.writeJSON(w, r, http.StatusOK, location)
	})

	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathInt64(r, "id")
		if err != nil {
			h.handleResponseError(w, r, err)
			return
		}

		if err := h.locationSvc.DeleteLocation(r.Context(), id); err != nil {
			h.handleResponseError(w, r, fmt.Errorf("location service delete location: %w", err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
