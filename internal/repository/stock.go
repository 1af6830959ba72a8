package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/stash/internal/model"
	"github.com/tuanvumaihuynh/stash/internal/storage/db"
)

// Default postgres names of the stocks foreign keys.
const (
	stocksProductFKey  = "stocks_product_id_fkey"
	stocksLocationFKey = "stocks_location_id_fkey"
)

type ListStocksParams struct {
	ProductID   *int64
	InStockOnly bool
}

type StockRepository interface {
	WithDB(db db.DB) StockRepository
	ListStocks(ctx context.Context, params ListStocksParams) ([]model.StockLot, error)
	// ListConsumableStocksByProduct returns the product's lots with amount > 0 in consumption order.
	ListConsumableStocksByProduct(ctx context.Context, productID int64) ([]model.StockLot, error)
	GetStock(ctx context.Context, id int64) (model.StockLot, error)
	CreateStock(ctx context.Context, stock model.StockLot) (model.StockLot, error)
	UpdateStock(ctx context.Context, stock model.StockLot) error
	DeleteStock(ctx context.Context, id int64) error
}

type stockRepository struct {
	db db.DB
}

func NewStockRepository(db db.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r stockRepository) WithDB(db db.DB) StockRepository {
	return &stockRepository{db: db}
}

const selectStockColumns = `
	SELECT
		s.id,
		s.product_id,
		s.location_id,
		s.amount,
		s.unit_price,
		s.purchase_date,
		s.due_date,
		s.created_at,
		s.updated_at,
		COALESCE(p.name, '')
	FROM stocks AS s
	LEFT JOIN products AS p ON p.id = s.product_id`

func (r stockRepository) ListStocks(ctx context.Context, params ListStocksParams) ([]model.StockLot, error) {
	rows, err := r.db.Query(ctx, selectStockColumns+`
		WHERE (@product_id::bigint IS NULL OR s.product_id = @product_id)
			AND (NOT @in_stock_only::boolean OR s.amount > 0)
		ORDER BY s.id`,
		pgx.NamedArgs{
			"product_id":    params.ProductID,
			"in_stock_only": params.InStockOnly,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query stocks: %w", err)
	}

	stocks, err := pgx.CollectRows(rows, scanStockLot)
	if err != nil {
		return nil, fmt.Errorf("collect stocks: %w", err)
	}

	return stocks, nil
}

func (r stockRepository) ListConsumableStocksByProduct(ctx context.Context, productID int64) ([]model.StockLot, error) {
	rows, err := r.db.Query(ctx, selectStockColumns+`
		WHERE s.product_id = $1 AND s.amount > 0
		ORDER BY COALESCE(s.due_date, 'infinity'::timestamptz), s.purchase_date NULLS FIRST, s.id`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("query consumable stocks: %w", err)
	}

	stocks, err := pgx.CollectRows(rows, scanStockLot)
	if err != nil {
		return nil, fmt.Errorf("collect consumable stocks: %w", err)
	}

	return stocks, nil
}

func (r stockRepository) GetStock(ctx context.Context, id int64) (model.StockLot, error) {
	rows, err := r.db.Query(ctx, selectStockColumns+` WHERE s.id = $1`, id)
	if err != nil {
		return model.StockLot{}, fmt.Errorf("query stock: %w", err)
	}

	stock, err := pgx.CollectExactlyOneRow(rows, scanStockLot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.StockLot{}, ErrNotFound
		}
		return model.StockLot{}, fmt.Errorf("collect stock: %w", err)
	}

	return stock, nil
}

func (r stockRepository) CreateStock(ctx context.Context, stock model.StockLot) (model.StockLot, error) {
	if err := checkAmount(stock.Amount); err != nil {
		return model.StockLot{}, err
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO stocks (product_id, location_id, amount, unit_price, purchase_date, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		stock.ProductID,
		stock.LocationID,
		int32(stock.Amount), //nolint:gosec
		stock.UnitPrice,
		stock.PurchaseDate,
		stock.DueDate,
		stock.CreatedAt,
		stock.UpdatedAt,
	).Scan(&stock.ID)
	if err != nil {
		return model.StockLot{}, stockWriteErr("insert stock", err)
	}

	return stock, nil
}

func (r stockRepository) UpdateStock(ctx context.Context, stock model.StockLot) error {
	if err := checkAmount(stock.Amount); err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE stocks
		SET
			product_id    = $2,
			location_id   = $3,
			amount        = $4,
			unit_price    = $5,
			purchase_date = $6,
			due_date      = $7,
			updated_at    = $8
		WHERE id = $1`,
		stock.ID,
		stock.ProductID,
		stock.LocationID,
		int32(stock.Amount), //nolint:gosec
		stock.UnitPrice,
		stock.PurchaseDate,
		stock.DueDate,
		stock.UpdatedAt,
	)
	if err != nil {
		return stockWriteErr("update stock", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r stockRepository) DeleteStock(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stocks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanStockLot(row pgx.CollectableRow) (model.StockLot, error) {
	var (
		s      model.StockLot
		amount int32
	)
	if err := row.Scan(
		&s.ID,
		&s.ProductID,
		&s.LocationID,
		&amount,
		&s.UnitPrice,
		&s.PurchaseDate,
		&s.DueDate,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.ProductName,
	); err != nil {
		return model.StockLot{}, err
	}
	s.Amount = int(amount)

	return s, nil
}

func stockWriteErr(op string, err error) error {
	switch {
	case db.IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, foreignKeyErr(db.ForeignKeyConstraint(err)))
	case db.IsCheckViolation(err):
		return fmt.Errorf("%s: %w", op, ErrNegativeAmount)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func checkAmount(amount int) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	if amount > math.MaxInt32 {
		return fmt.Errorf("%w: %d", ErrAmountOutOfRange, amount)
	}
	return nil
}

// foreignKeyErr names the missing reference from the stocks constraint that failed.
func foreignKeyErr(constraint string) error {
	switch constraint {
	case stocksProductFKey:
		return ErrInvalidProductReference
	case stocksLocationFKey:
		return ErrInvalidLocationReference
	default:
		return ErrInvalidReference
	}
}
