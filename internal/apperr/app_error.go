package apperr

import "github.com/tuanvumaihuynh/stash/pkg/zerror"

const (
	ValidationErrorCode = "VALIDATION_FAILED"
	IDMismatchErrorCode = "ID_MISMATCH"

	InsufficientStockErrorCode = "INSUFFICIENT_STOCK"

	InvalidProductReferenceErrorCode       = "INVALID_PRODUCT_ID"
	InvalidLocationReferenceErrorCode      = "INVALID_LOCATION_ID"
	InvalidStockReferenceErrorCode         = "INVALID_STOCK_ID"
	InvalidCategoryReferenceErrorCode      = "INVALID_CATEGORY_ID"
	InvalidParentProductReferenceErrorCode = "INVALID_PARENT_PRODUCT_ID"

	StockNotFoundErrorCode         = "STOCK_NOT_FOUND"
	ProductNotFoundErrorCode       = "PRODUCT_NOT_FOUND"
	CategoryNotFoundErrorCode      = "CATEGORY_NOT_FOUND"
	LocationNotFoundErrorCode      = "LOCATION_NOT_FOUND"
	ParentProductNotFoundErrorCode = "PARENT_PRODUCT_NOT_FOUND"
	TransactionsNotFoundErrorCode  = "TRANSACTIONS_NOT_FOUND"

	ProductInUseErrorCode = "PRODUCT_IN_USE"

	RouteNotFoundErrorCode = "ROUTE_NOT_FOUND"
	UnhealthyErrorCode     = "UNHEALTHY"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	IDMismatchErr = zerror.NewBadRequest(IDMismatchErrorCode, "id in path does not match id in body")

	InsufficientStockErr = zerror.NewBadRequest(InsufficientStockErrorCode, "Not enough stock to consume the requested amount.")

	InvalidProductReferenceErr       = zerror.NewBadRequest(InvalidProductReferenceErrorCode, "Invalid ProductId")
	InvalidLocationReferenceErr      = zerror.NewBadRequest(InvalidLocationReferenceErrorCode, "Invalid LocationId")
	InvalidStockReferenceErr         = zerror.NewBadRequest(InvalidStockReferenceErrorCode, "Invalid StockId")
	InvalidCategoryReferenceErr      = zerror.NewBadRequest(InvalidCategoryReferenceErrorCode, "Invalid CategoryId")
	InvalidParentProductReferenceErr = zerror.NewBadRequest(InvalidParentProductReferenceErrorCode, "Invalid ParentProductId")

	StockNotFoundErr         = zerror.NewNotFound(StockNotFoundErrorCode, "stock not found")
	ProductNotFoundErr       = zerror.NewNotFound(ProductNotFoundErrorCode, "product not found")
	CategoryNotFoundErr      = zerror.NewNotFound(CategoryNotFoundErrorCode, "category not found")
	LocationNotFoundErr      = zerror.NewNotFound(LocationNotFoundErrorCode, "location not found")
	ParentProductNotFoundErr = zerror.NewNotFound(ParentProductNotFoundErrorCode, "parent product not found")
	TransactionsNotFoundErr  = zerror.NewNotFound(TransactionsNotFoundErrorCode, "no transactions found for product")

	ProductInUseErr = zerror.NewConflict(ProductInUseErrorCode, "product still has stock entries")

	RouteNotFoundErr = zerror.NewNotFound(RouteNotFoundErrorCode, "route not found")
	UnhealthyErr     = zerror.NewServiceUnavailable(UnhealthyErrorCode, "service unavailable")
)
