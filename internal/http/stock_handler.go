package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stash/internal/apperr"
	"github.com/tuanvumaihuynh/stash/internal/model"
	"github.com/tuanvumaihuynh/stash/internal/service"
)

type stockRequest struct {
	ID           *int64          `json:"id"`
	ProductID    int64           `json:"productId" validate:"required,gt=0"`
	LocationID   *int64          `json:"locationId" validate:"omitempty,gt=0"`
	Amount       int             `json:"amount" validate:"gte=0,max=2147483647"`
	UnitPrice    decimal.Decimal `json:"unitPrice" validate:"gte=0"`
	PurchaseDate *time.Time      `json:"purchaseDate"`
	DueDate      *time.Time      `json:"dueDate"`
}

type listTransactionsQuery struct {
	Type *model.TransactionType `validate:"omitempty,enum"`
}

type stockHandler struct {
	*Service
	stockSvc service.StockService
}

func (h *stockHandler) routes(r chi.Router) {
	r.Get("/", h.listStocks)
	r.Post("/", h.createStock)
	r.Get("/{id}", h.getStock)
	r.Put("/{id}", h.updateStock)
	r.Delete("/{id}", h.deleteStock)

	r.Post("/consume-stock/{productId}", h.consumeForProduct)
	r.Post("/consume-stock-product/{productId}", h.consumeForProduct)
	r.Post("/consume-stock-entry/{stockId}", h.consumeForLot)

	r.Get("/transactions", h.listTransactions)
	r.Get("/transactions/{productId}", h.listTransactionsByProduct)
}

func (h *stockHandler) listStocks(w http.ResponseWriter, r *http.Request) {
	var params service.ListStocksParams
	if err := queryParam(r, "productId", &params.ProductID); err != nil {
		h.handleResponseError(w, r, err)
		return
	}
	if err := queryParam(r, "inStock", &params.InStockOnly); err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	stocks, err := h.stockSvc.ListStocks(r.Context(), params)
	if err != nil {
		h.handleResponseError(w, r, fmt.Errorf("stock service list stocks: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, stocks)
}

func (h *stockHandler) getStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	stock, err := h.stockSvc.GetStock(r.Context(), id)
	if err != nil {
		h.handleResponseError(w, r, fmt.Errorf("stock service get stock: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, stock)
}

func (h *stockHandler) createStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	stock, err := h.stockSvc.CreateStock(r.Context(), service.CreateStockParams{
		ProductID:    req.ProductID,
		LocationID:   req.LocationID,
		Amount:       req.Amount,
		UnitPrice:    req.UnitPrice,
		PurchaseDate: req.PurchaseDate,
		DueDate:      req.DueDate,
	})
	if err != nil {
		h.handleResponseError(w, r, fmt.Errorf("stock service create stock: %w", err))
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/stocks/%d", stock.ID))
	h.writeJSON(w, r, http.StatusCreated, stock)
}

func (h *stockHandler) updateStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	var req stockRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	if err := bodyID(id, req.ID); err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	stock, err := h.stockSvc.UpdateStock(r.Context(), service.UpdateStockParams{
		ID:           id,
		ProductID:    req.ProductID,
		LocationID:   req.LocationID,
		Amount:       req.Amount,
		UnitPrice:    req.UnitPrice,
		PurchaseDate: req.PurchaseDate,
		DueDate:      req.DueDate,
	})
	if err != nil {
		h.handleResponseError(w, r, fmt.Errorf("stock service update stock: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, stock)
}

func (h *stockHandler) deleteStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	if err := h.stockSvc.DeleteStock(r.Context(), id); err != nil {
		h.handleResponseError(w, r, fmt.Errorf("stock service delete stock: %w", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// consumeForProduct takes the amount as a bare JSON integer.
func (h *stockHandler) consumeForProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathInt64(r, "productId")
	if err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	var amount int
	if err := decodeJSON(w, r, &amount); err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	res, err := h.stockSvc.ConsumeForProduct(r.Context(), productID, amount)
	if err != nil {
		h.handleResponseError(w, r, fmt.Errorf("stock service consume for product: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, res)
}

func (h *stockHandler) consumeForLot(w http.ResponseWriter, r *http.Request) {
	stockID, err := pathInt64(r, "stockId")
	if err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	var amount int
	if err := decodeJSON(w, r, &amount); err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	res, err := h.stockSvc.ConsumeForLot(r.Context(), stockID, amount)
	if err != nil {
		h.handleResponseError(w, r, fmt.Errorf("stock service consume for lot: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, res)
}

func (h *stockHandler) listTransactions(w http.ResponseWriter, r *http.Request) {
	var q listTransactionsQuery
	if err := queryParam(r, "type", &q.Type); err != nil {
		h.handleResponseError(w, r, err)
		return
	}
	if err := h.validator.Validate(q); err != nil {
		h.handleResponseError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

	txs, err := h.stockSvc.ListTransactions(r.Context(), service.ListTransactionsParams{Type: q.Type})
	if err != nil {
		h.handleResponseError(w, r, fmt.Errorf("stock service list transactions: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, txs)
}

func (h *stockHandler) listTransactionsByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathInt64(r, "productId")
	if err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	txs, err := h.stockSvc.ListTransactionsByProduct(r.Context(), productID)
	if err != nil {
		h.handleResponseError(w, r, fmt.Errorf("stock service list transactions by product: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, txs)
}
