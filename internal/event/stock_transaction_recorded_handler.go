package event

import (
	"context"
	"log/slog"
	"time"
)

const TopicStockTransactionRecorded = "stock.transaction.recorded"

// StockTransactionRecordedEvent mirrors one ledger entry plus the lot amount left after it.
type StockTransactionRecordedEvent struct {
	TransactionID   int64     `json:"transaction_id"`
	StockID         int64     `json:"stock_id"`
	ProductID       int64     `json:"product_id"`
	ProductName     string    `json:"product_name"`
	Amount          int       `json:"amount"`
	TransactionType string    `json:"transaction_type"`
	TransactionTime time.Time `json:"transaction_time"`
	RemainingAmount int       `json:"remaining_amount"`
}

func (s *Service) handleStockTransactionRecordedEvent(ctx context.Context, ev StockTransactionRecordedEvent) error {
	logger := s.logger.With(
		slog.Int64("transaction_id", ev.TransactionID),
		slog.Int64("stock_id", ev.StockID),
		slog.Int64("product_id", ev.ProductID),
		slog.String("transaction_type", ev.TransactionType),
		slog.Int("amount", ev.Amount),
	)

	logger.InfoContext(ctx, "stock transaction recorded")

	if ev.TransactionType == "Consume" && ev.RemainingAmount == 0 {
		logger.WarnContext(ctx, "stock lot depleted", slog.String("product_name", ev.ProductName))
	}

	return nil
}
