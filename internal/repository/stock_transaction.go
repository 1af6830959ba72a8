package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/stash/internal/model"
	"github.com/tuanvumaihuynh/stash/internal/storage/db"
)

// StockTransactionRepository is append only: ledger rows are never updated or deleted.
type StockTransactionRepository interface {
	WithDB(db db.DB) StockTransactionRepository
	CreateStockTransaction(ctx context.Context, tx model.StockTransaction) (model.StockTransaction, error)
	// ListStockTransactions returns every entry, or only those of txType when it is set.
	ListStockTransactions(ctx context.Context, txType *model.TransactionType) ([]model.StockTransaction, error)
	// ListStockTransactionsByProduct returns entries whose lot still exists and belongs to the product.
	ListStockTransactionsByProduct(ctx context.Context, productID int64) ([]model.StockTransaction, error)
}

type stockTransactionRepository struct {
	db db.DB
}

func NewStockTransactionRepository(db db.DB) StockTransactionRepository {
	return &stockTransactionRepository{db: db}
}

func (r stockTransactionRepository) WithDB(db db.DB) StockTransactionRepository {
	return &stockTransactionRepository{db: db}
}

func (r stockTransactionRepository) CreateStockTransaction(ctx context.Context, tx model.StockTransaction) (model.StockTransaction, error) {
	if tx.Amount > math.MaxInt32 || tx.Amount < math.MinInt32 {
		return model.StockTransaction{}, fmt.Errorf("transaction amount out of range: %d", tx.Amount)
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO stock_transactions (stock_id, product_name, amount, transaction_time, transaction_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		tx.StockID,
		tx.ProductName,
		int32(tx.Amount),
		tx.TransactionTime,
		string(tx.TransactionType),
	).Scan(&tx.ID)
	if err != nil {
		return model.StockTransaction{}, fmt.Errorf("insert stock transaction: %w", err)
	}

	return tx, nil
}

func (r stockTransactionRepository) ListStockTransactions(ctx context.Context, txType *model.TransactionType) ([]model.StockTransaction, error) {
	var typeArg *string
	if txType != nil {
		s := string(*txType)
		typeArg = &s
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, stock_id, product_name, amount, transaction_time, transaction_type
		FROM stock_transactions
		WHERE (@transaction_type::text IS NULL OR transaction_type = @transaction_type)
		ORDER BY transaction_time, id`,
		pgx.NamedArgs{"transaction_type": typeArg},
	)
	if err != nil {
		return nil, fmt.Errorf("query stock transactions: %w", err)
	}

	txs, err := pgx.CollectRows(rows, scanStockTransaction)
	if err != nil {
		return nil, fmt.Errorf("collect stock transactions: %w", err)
	}

	return txs, nil
}

func (r stockTransactionRepository) ListStockTransactionsByProduct(ctx context.Context, productID int64) ([]model.StockTransaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.stock_id, t.product_name, t.amount, t.transaction_time, t.transaction_type
		FROM stock_transactions AS t
		JOIN stocks AS s ON s.id = t.stock_id
		WHERE s.product_id = $1
		ORDER BY t.transaction_time, t.id`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("query stock transactions by product: %w", err)
	}

	txs, err := pgx.CollectRows(rows, scanStockTransaction)
	if err != nil {
		return nil, fmt.Errorf("collect stock transactions by product: %w", err)
	}

	return txs, nil
}

func scanStockTransaction(row pgx.CollectableRow) (model.StockTransaction, error) {
	var (
		tx     model.StockTransaction
		amount int32
		txType string
	)
	if err := row.Scan(&tx.ID, &tx.StockID, &tx.ProductName, &amount, &tx.TransactionTime, &txType); err != nil {
		return model.StockTransaction{}, err
	}
	tx.Amount = int(amount)
	tx.TransactionType = model.TransactionType(txType)

	return tx, nil
}
