package model

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// StockLot is a batch of one product held at a location.
type StockLot struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"productId"`
	LocationID   *int64          `json:"locationId"`
	Amount       int             `json:"amount"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	PurchaseDate *time.Time      `json:"purchaseDate"`
	DueDate      *time.Time      `json:"dueDate"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`

	// ProductName is joined from products on reads; empty when the product is gone.
	ProductName string `json:"productName,omitempty"`
}

type StockLotState string

const (
	StockLotStateActive   StockLotState = "Active"
	StockLotStateDepleted StockLotState = "Depleted"
)

// State reports whether the lot can still be consumed.
func (s StockLot) State() StockLotState {
	if s.Amount > 0 {
		return StockLotStateActive
	}
	return StockLotStateDepleted
}

// maxDueDate stands in for a missing due date so unexpiring lots sort last.
var maxDueDate = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// SortLotsForConsumption orders lots in the sequence they are drawn down:
// earliest due date first (lots without one last), then oldest purchase first.
// A missing purchase date sorts before any date. Ties keep their input order.
func SortLotsForConsumption(lots []StockLot) {
	slices.SortStableFunc(lots, func(a, b StockLot) int {
		if c := dueDateKey(a).Compare(dueDateKey(b)); c != 0 {
			return c
		}
		return comparePurchaseDate(a.PurchaseDate, b.PurchaseDate)
	})
}

func dueDateKey(s StockLot) time.Time {
	if s.DueDate == nil {
		return maxDueDate
	}
	return *s.DueDate
}

func comparePurchaseDate(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(a.UnixNano(), b.UnixNano())
	}
}
