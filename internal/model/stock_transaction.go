package model

import (
	"fmt"
	"time"
)

type TransactionType string

const (
	TransactionTypeAdd     TransactionType = "Add"
	TransactionTypeEdit    TransactionType = "Edit"
	TransactionTypeConsume TransactionType = "Consume"
	TransactionTypeDelete  TransactionType = "Delete"
)

func (t TransactionType) Validate() error {
	switch t {
	case TransactionTypeAdd, TransactionTypeEdit, TransactionTypeConsume, TransactionTypeDelete:
		return nil
	default:
		return fmt.Errorf("invalid transaction type: %q", string(t))
	}
}

// StockTransaction is one immutable ledger entry. ProductName is a snapshot taken
// when the entry was written and StockID may point at a lot deleted since.
type StockTransaction struct {
	ID              int64           `json:"id"`
	StockID         int64           `json:"stockId"`
	ProductName     string          `json:"productName"`
	Amount          int             `json:"amount"`
	TransactionTime time.Time       `json:"transactionTime"`
	TransactionType TransactionType `json:"transactionType"`
}
