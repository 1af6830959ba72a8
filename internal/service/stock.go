package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stash/internal/apperr"
	"github.com/tuanvumaihuynh/stash/internal/config"
	"github.com/tuanvumaihuynh/stash/internal/event"
	"github.com/tuanvumaihuynh/stash/internal/model"
	"github.com/tuanvumaihuynh/stash/internal/repository"
	"github.com/tuanvumaihuynh/stash/internal/storage/db"
	"github.com/tuanvumaihuynh/stash/pkg/keymutex"
	"github.com/tuanvumaihuynh/stash/pkg/outbox"
)

type ListStocksParams struct {
	ProductID   *int64
	InStockOnly bool
}

type ListTransactionsParams struct {
	Type *model.TransactionType
}

type CreateStockParams struct {
	ProductID    int64
	LocationID   *int64
	Amount       int
	UnitPrice    decimal.Decimal
	PurchaseDate *time.Time
	DueDate      *time.Time
}

type UpdateStockParams struct {
	ID           int64
	ProductID    int64
	LocationID   *int64
	Amount       int
	UnitPrice    decimal.Decimal
	PurchaseDate *time.Time
	DueDate      *time.Time
}

// Allocation is the part of a consumption drawn from one lot.
type Allocation struct {
	StockID   int64 `json:"stockId"`
	Amount    int   `json:"amount"`
	Remaining int   `json:"remaining"`
}

// ConsumeResult describes what a consumption actually removed. On shortfall
// Consumed is less than Requested and the allocations already persisted stay.
type ConsumeResult struct {
	Requested   int          `json:"requested"`
	Consumed    int          `json:"consumed"`
	Allocations []Allocation `json:"allocations"`
}

type StockService interface {
	ListStocks(ctx context.Context, params ListStocksParams) ([]model.StockLot, error)
	GetStock(ctx context.Context, id int64) (model.StockLot, error)
	CreateStock(ctx context.Context, params CreateStockParams) (model.StockLot, error)
	UpdateStock(ctx context.Context, params UpdateStockParams) (model.StockLot, error)
	DeleteStock(ctx context.Context, id int64) error

	// ConsumeForProduct draws amount from the product's lots, earliest due date
	// first. Each lot is persisted on its own; a shortfall does not undo them.
	ConsumeForProduct(ctx context.Context, productID int64, amount int) (ConsumeResult, error)
	// ConsumeForLot draws amount from a single lot, or nothing if it holds less.
	ConsumeForLot(ctx context.Context, stockID int64, amount int) (ConsumeResult, error)

	ListTransactions(ctx context.Context, params ListTransactionsParams) ([]model.StockTransaction, error)
	ListTransactionsByProduct(ctx context.Context, productID int64) ([]model.StockTransaction, error)
}

type stockService struct {
	cfg    config.Stock
	logger *slog.Logger
	now    func() time.Time

	db            db.DB
	stockRepo     repository.StockRepository
	stockTxRepo   repository.StockTransactionRepository
	productRepo   repository.ProductRepository
	locationRepo  repository.LocationRepository
	outboxMsgRepo repository.OutboxMsgRepository

	productLocks *keymutex.KeyMutex[int64]
}

func NewStockService(
	cfg config.Stock,
	logger *slog.Logger,
	db db.DB,
	stockRepo repository.StockRepository,
	stockTxRepo repository.StockTransactionRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) StockService {
	return &stockService{
		cfg:           cfg,
		logger:        logger.With(slog.String("service", "stock")),
		now:           time.Now,
		db:            db,
		stockRepo:     stockRepo,
		stockTxRepo:   stockTxRepo,
		productRepo:   productRepo,
		locationRepo:  locationRepo,
		outboxMsgRepo: outboxMsgRepo,
		productLocks:  keymutex.New[int64](),
	}
}

func (s *stockService) ListStocks(ctx context.Context, params ListStocksParams) ([]model.StockLot, error) {
	stocks, err := s.stockRepo.ListStocks(ctx, repository.ListStocksParams{
		ProductID:   params.ProductID,
		InStockOnly: params.InStockOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("stock repository list stocks: %w", err)
	}

	return stocks, nil
}

func (s *stockService) GetStock(ctx context.Context, id int64) (model.StockLot, error) {
	stock, err := s.stockRepo.GetStock(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.StockLot{}, apperr.StockNotFoundErr.WrapParent(fmt.Errorf("stock %d", id))
		}
		return model.StockLot{}, fmt.Errorf("stock repository get stock: %w", err)
	}

	return stock, nil
}

func (s *stockService) CreateStock(ctx context.Context, params CreateStockParams) (model.StockLot, error) {
	if err := checkAmount(params.Amount); err != nil {
		return model.StockLot{}, err
	}

	if err := s.checkReferences(ctx, params.ProductID, params.LocationID); err != nil {
		return model.StockLot{}, err
	}

	now := s.now()
	stock := model.StockLot{
		ProductID:    params.ProductID,
		LocationID:   params.LocationID,
		Amount:       params.Amount,
		UnitPrice:    params.UnitPrice,
		PurchaseDate: params.PurchaseDate,
		DueDate:      params.DueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		created, err := s.stockRepo.
			WithDB(db).
			CreateStock(ctx, stock)
		if err != nil {
			return stockWriteErr(err, "create stock")
		}
		stock = created

		tx, err := s.appendTransaction(ctx, db, stock.ID, model.TransactionTypeAdd, stock.Amount)
		if err != nil {
			return err
		}
		stock.ProductName = tx.ProductName

		return nil
	}); err != nil {
		return model.StockLot{}, fmt.Errorf("db with tx: %w", err)
	}

	return stock, nil
}

func (s *stockService) UpdateStock(ctx context.Context, params UpdateStockParams) (model.StockLot, error) {
	if err := checkAmount(params.Amount); err != nil {
		return model.StockLot{}, err
	}

	existing, err := s.GetStock(ctx, params.ID)
	if err != nil {
		return model.StockLot{}, err
	}

	if err := s.checkReferences(ctx, params.ProductID, params.LocationID); err != nil {
		return model.StockLot{}, err
	}

	stock := existing
	stock.ProductID = params.ProductID
	stock.LocationID = params.LocationID
	stock.Amount = params.Amount
	stock.UnitPrice = params.UnitPrice
	stock.PurchaseDate = params.PurchaseDate
	stock.DueDate = params.DueDate
	stock.UpdatedAt = s.now()

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.stockRepo.
			WithDB(db).
			UpdateStock(ctx, stock); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.InvalidStockReferenceErr.WrapParent(fmt.Errorf("stock %d", stock.ID))
			}
			return stockWriteErr(err, "update stock")
		}

		// Edit entries record the amount after the edit, not the difference.
		tx, err := s.appendTransaction(ctx, db, stock.ID, model.TransactionTypeEdit, stock.Amount)
		if err != nil {
			return err
		}
		stock.ProductName = tx.ProductName

		return nil
	}); err != nil {
		return model.StockLot{}, fmt.Errorf("db with tx: %w", err)
	}

	return stock, nil
}

func (s *stockService) DeleteStock(ctx context.Context, id int64) error {
	stock, err := s.GetStock(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		// The entry is written while the lot still exists so its product resolves.
		if _, err := s.appendTransaction(ctx, db, stock.ID, model.TransactionTypeDelete, -stock.Amount); err != nil {
			return err
		}

		if err := s.stockRepo.
			WithDB(db).
			DeleteStock(ctx, stock.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.InvalidStockReferenceErr.WrapParent(fmt.Errorf("stock %d", stock.ID))
			}
			return fmt.Errorf("stock repository delete stock: %w", err)
		}

		return nil
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}

func (s *stockService) ConsumeForProduct(ctx context.Context, productID int64, amount int) (ConsumeResult, error) {
	result := ConsumeResult{Requested: amount, Allocations: []Allocation{}}
	if amount <= 0 {
		return result, nil
	}

	if s.cfg.SerializeConsumption {
		unlock := s.productLocks.Lock(productID)
		defer unlock()
	}

	lots, err := s.stockRepo.ListConsumableStocksByProduct(ctx, productID)
	if err != nil {
		return result, fmt.Errorf("stock repository list consumable stocks: %w", err)
	}
	model.SortLotsForConsumption(lots)

	remaining := amount
	for _, lot := range lots {
		if remaining == 0 {
			break
		}
		if lot.Amount <= 0 {
			continue
		}

		take := min(lot.Amount, remaining)
		lot.Amount -= take

		if err := s.persistConsumption(ctx, lot, take); err != nil {
			return result, err
		}

		remaining -= take
		result.Consumed += take
		result.Allocations = append(result.Allocations, Allocation{
			StockID:   lot.ID,
			Amount:    take,
			Remaining: lot.Amount,
		})
	}

	logger := s.logger.With(
		slog.Int64("product_id", productID),
		slog.Int("requested", amount),
		slog.Int("consumed", result.Consumed),
		slog.Int("lots", len(result.Allocations)),
	)

	if remaining > 0 {
		logger.WarnContext(ctx, "insufficient stock for product")
		return result, apperr.InsufficientStockErr.WrapParent(
			fmt.Errorf("product %d short by %d of %d", productID, remaining, amount))
	}

	logger.InfoContext(ctx, "consumed stock for product")
	return result, nil
}

func (s *stockService) ConsumeForLot(ctx context.Context, stockID int64, amount int) (ConsumeResult, error) {
	result := ConsumeResult{Requested: amount, Allocations: []Allocation{}}
	if amount <= 0 {
		return result, nil
	}

	lot, err := s.lotForConsumption(ctx, stockID)
	if err != nil {
		return result, err
	}

	if s.cfg.SerializeConsumption {
		unlock := s.productLocks.Lock(lot.ProductID)
		defer unlock()

		// Re-read under the lock so a consumption that finished while we waited is seen.
		if lot, err = s.lotForConsumption(ctx, stockID); err != nil {
			return result, err
		}
	}

	if lot.Amount < amount {
		return result, apperr.InsufficientStockErr.WrapParent(
			fmt.Errorf("stock %d holds %d of %d", stockID, lot.Amount, amount))
	}

	lot.Amount -= amount
	if err := s.persistConsumption(ctx, lot, amount); err != nil {
		return result, err
	}

	result.Consumed = amount
	result.Allocations = append(result.Allocations, Allocation{
		StockID:   lot.ID,
		Amount:    amount,
		Remaining: lot.Amount,
	})

	s.logger.InfoContext(ctx, "consumed stock from lot",
		slog.Int64("stock_id", stockID),
		slog.Int("amount", amount),
		slog.Int("remaining", lot.Amount),
	)

	return result, nil
}

func (s *stockService) ListTransactions(ctx context.Context, params ListTransactionsParams) ([]model.StockTransaction, error) {
	if params.Type != nil {
		if err := params.Type.Validate(); err != nil {
			return nil, apperr.ValidationErr.WrapParent(err)
		}
	}

	txs, err := s.stockTxRepo.ListStockTransactions(ctx, params.Type)
	if err != nil {
		return nil, fmt.Errorf("stock transaction repository list stock transactions: %w", err)
	}

	return txs, nil
}

func (s *stockService) ListTransactionsByProduct(ctx context.Context, productID int64) ([]model.StockTransaction, error) {
	txs, err := s.stockTxRepo.ListStockTransactionsByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("stock transaction repository list stock transactions by product: %w", err)
	}

	if len(txs) == 0 {
		return nil, apperr.TransactionsNotFoundErr.WrapParent(fmt.Errorf("product %d", productID))
	}

	return txs, nil
}

// lotForConsumption loads a lot; a missing lot cannot cover any amount.
func (s *stockService) lotForConsumption(ctx context.Context, stockID int64) (model.StockLot, error) {
	lot, err := s.stockRepo.GetStock(ctx, stockID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.StockLot{}, apperr.InsufficientStockErr.WrapParent(fmt.Errorf("stock %d not found", stockID))
		}
		return model.StockLot{}, fmt.Errorf("stock repository get stock: %w", err)
	}

	return lot, nil
}

// persistConsumption writes the decremented lot and its Consume entry in one transaction.
func (s *stockService) persistConsumption(ctx context.Context, lot model.StockLot, taken int) error {
	lot.UpdatedAt = s.now()

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.stockRepo.
			WithDB(db).
			UpdateStock(ctx, lot); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.InvalidStockReferenceErr.WrapParent(fmt.Errorf("stock %d", lot.ID))
			}
			return stockWriteErr(err, "update stock")
		}

		if _, err := s.appendTransaction(ctx, db, lot.ID, model.TransactionTypeConsume, taken); err != nil {
			return err
		}

		return nil
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}

// appendTransaction records one ledger entry for a lot and stages its event in the
// outbox. It must run inside the transaction that changed the lot.
func (s *stockService) appendTransaction(
	ctx context.Context,
	db db.DB,
	stockID int64,
	txType model.TransactionType,
	amount int,
) (model.StockTransaction, error) {
	lot, err := s.stockRepo.
		WithDB(db).
		GetStock(ctx, stockID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.StockTransaction{}, apperr.InvalidStockReferenceErr.WrapParent(fmt.Errorf("stock %d", stockID))
		}
		return model.StockTransaction{}, fmt.Errorf("stock repository get stock: %w", err)
	}

	productName := lot.ProductName
	if productName == "" {
		productName = s.cfg.UnknownProductName
	}

	tx, err := s.stockTxRepo.
		WithDB(db).
		CreateStockTransaction(ctx, model.StockTransaction{
			StockID:         lot.ID,
			ProductName:     productName,
			Amount:          amount,
			TransactionTime: s.now(),
			TransactionType: txType,
		})
	if err != nil {
		return model.StockTransaction{}, fmt.Errorf("stock transaction repository create stock transaction: %w", err)
	}

	remaining := lot.Amount
	if txType == model.TransactionTypeDelete {
		remaining = 0
	}

	ev := event.StockTransactionRecordedEvent{
		TransactionID:   tx.ID,
		StockID:         tx.StockID,
		ProductID:       lot.ProductID,
		ProductName:     tx.ProductName,
		Amount:          tx.Amount,
		TransactionType: string(tx.TransactionType),
		TransactionTime: tx.TransactionTime,
		RemainingAmount: remaining,
	}

	evBytes, err := json.Marshal(ev)
	if err != nil {
		return model.StockTransaction{}, fmt.Errorf("marshal event: %w", err)
	}

	partitionKey := strconv.FormatInt(lot.ProductID, 10)
	if err := s.outboxMsgRepo.
		WithDB(db).
		CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        event.TopicStockTransactionRecorded,
			Headers:      outbox.BuildHeaders(ctx),
			Payload:      evBytes,
			PartitionKey: &partitionKey,
		}); err != nil {
		return model.StockTransaction{}, fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return tx, nil
}

func checkAmount(amount int) error {
	if amount < 0 {
		return apperr.ValidationErr.WrapParent(fmt.Errorf("amount %d is negative", amount))
	}
	if amount > math.MaxInt32 {
		return apperr.ValidationErr.WrapParent(fmt.Errorf("amount %d is out of range", amount))
	}
	return nil
}

// stockWriteErr maps repository write failures on a lot to app errors.
func stockWriteErr(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrInvalidLocationReference):
		return apperr.InvalidLocationReferenceErr.WrapParent(err)
	case errors.Is(err, repository.ErrInvalidReference):
		return apperr.InvalidProductReferenceErr.WrapParent(err)
	case errors.Is(err, repository.ErrNegativeAmount), errors.Is(err, repository.ErrAmountOutOfRange):
		return apperr.ValidationErr.WrapParent(err)
	default:
		return fmt.Errorf("stock repository %s: %w", op, err)
	}
}

func (s *stockService) checkReferences(ctx context.Context, productID int64, locationID *int64) error {
	if _, err := s.productRepo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.InvalidProductReferenceErr.WrapParent(fmt.Errorf("product %d", productID))
		}
		return fmt.Errorf("product repository get product: %w", err)
	}

	if locationID == nil {
		return nil
	}

	if _, err := s.locationRepo.GetLocation(ctx, *locationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.InvalidLocationReferenceErr.WrapParent(fmt.Errorf("location %d", *locationID))
		}
		return fmt.Errorf("location repository get location: %w", err)
	}

	return nil
}
