package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stash/internal/apperr"
	"github.com/tuanvumaihuynh/stash/internal/config"
	"github.com/tuanvumaihuynh/stash/internal/event"
	"github.com/tuanvumaihuynh/stash/internal/model"
	"github.com/tuanvumaihuynh/stash/internal/repository"
	"github.com/tuanvumaihuynh/stash/internal/service"
	"github.com/tuanvumaihuynh/stash/pkg/ptr"
)

const milkID int64 = 1

func day(d int) *time.Time {
	return ptr.New(time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC))
}

func newStockService(t *testing.T, cfg config.Stock) (service.StockService, *store) {
	t.Helper()

	if cfg.UnknownProductName == "" {
		cfg.UnknownProductName = "Unknown"
	}

	s := newStore()
	s.addProduct(milkID, "Milk")

	svc := service.NewStockService(
		cfg,
		slog.New(slog.DiscardHandler),
		fakeDB{},
		fakeStockRepo{s},
		fakeStockTxRepo{s},
		fakeProductRepo{s},
		fakeLocationRepo{s},
		fakeOutboxMsgRepo{s},
	)
	return svc, s
}

func amountOf(t *testing.T, s *store, id int64) int {
	t.Helper()
	l, ok := s.lot(id)
	require.True(t, ok, "lot %d missing", id)
	return l.Amount
}

func consumeAmounts(txs []model.StockTransaction) map[int64]int {
	out := map[int64]int{}
	for _, tx := range txs {
		if tx.TransactionType == model.TransactionTypeConsume {
			out[tx.StockID] += tx.Amount
		}
	}
	return out
}

func TestConsumeForProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("draws earliest due date first across lots", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})
		s.addLot(model.StockLot{ID: 1, ProductID: milkID, Amount: 3, DueDate: day(20)})
		s.addLot(model.StockLot{ID: 2, ProductID: milkID, Amount: 5, DueDate: day(10)})

		res, err := svc.ConsumeForProduct(ctx, milkID, 7)
		require.NoError(t, err)

		assert.Equal(t, 7, res.Requested)
		assert.Equal(t, 7, res.Consumed)
		assert.Equal(t, []service.Allocation{
			{StockID: 2, Amount: 5, Remaining: 0},
			{StockID: 1, Amount: 2, Remaining: 1},
		}, res.Allocations)

		assert.Equal(t, 0, amountOf(t, s, 2))
		assert.Equal(t, 1, amountOf(t, s, 1))

		txs := s.transactions()
		require.Len(t, txs, 2)
		assert.Equal(t, int64(2), txs[0].StockID)
		assert.Equal(t, 5, txs[0].Amount)
		assert.Equal(t, int64(1), txs[1].StockID)
		assert.Equal(t, 2, txs[1].Amount)
		for _, tx := range txs {
			assert.Equal(t, model.TransactionTypeConsume, tx.TransactionType)
			assert.Equal(t, "Milk", tx.ProductName)
		}
	})

	t.Run("lots without due date are drawn last", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})
		s.addLot(model.StockLot{ID: 1, ProductID: milkID, Amount: 4, PurchaseDate: day(1)})
		s.addLot(model.StockLot{ID: 2, ProductID: milkID, Amount: 4, DueDate: day(28)})

		_, err := svc.ConsumeForProduct(ctx, milkID, 4)
		require.NoError(t, err)

		assert.Equal(t, 4, amountOf(t, s, 1))
		assert.Equal(t, 0, amountOf(t, s, 2))
	})

	t.Run("purchase date breaks due date ties", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})
		s.addLot(model.StockLot{ID: 1, ProductID: milkID, Amount: 2, DueDate: day(10), PurchaseDate: day(5)})
		s.addLot(model.StockLot{ID: 2, ProductID: milkID, Amount: 2, DueDate: day(10), PurchaseDate: day(2)})

		_, err := svc.ConsumeForProduct(ctx, milkID, 2)
		require.NoError(t, err)

		assert.Equal(t, 2, amountOf(t, s, 1))
		assert.Equal(t, 0, amountOf(t, s, 2))
	})

	t.Run("shortfall keeps what was consumed", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})
		s.addLot(model.StockLot{ID: 1, ProductID: milkID, Amount: 2})

		res, err := svc.ConsumeForProduct(ctx, milkID, 5)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperr.InsufficientStockErr))

		assert.Equal(t, 2, res.Consumed)
		assert.Equal(t, 0, amountOf(t, s, 1))

		txs := s.transactions()
		require.Len(t, txs, 1)
		assert.Equal(t, 2, txs[0].Amount)
		assert.Equal(t, model.TransactionTypeConsume, txs[0].TransactionType)
	})

	t.Run("no lots is insufficient stock", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})

		_, err := svc.ConsumeForProduct(ctx, milkID, 1)
		assert.ErrorIs(t, err, apperr.InsufficientStockErr)
		assert.Empty(t, s.transactions())
	})

	t.Run("depleted lots are skipped", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})
		s.addLot(model.StockLot{ID: 1, ProductID: milkID, Amount: 0, DueDate: day(1)})
		s.addLot(model.StockLot{ID: 2, ProductID: milkID, Amount: 3, DueDate: day(9)})

		res, err := svc.ConsumeForProduct(ctx, milkID, 3)
		require.NoError(t, err)

		require.Len(t, res.Allocations, 1)
		assert.Equal(t, int64(2), res.Allocations[0].StockID)
		assert.NotContains(t, consumeAmounts(s.transactions()), int64(1))
	})

	t.Run("zero or negative amount is a no-op", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})
		s.addLot(model.StockLot{ID: 1, ProductID: milkID, Amount: 3})

		for _, amount := range []int{0, -4} {
			res, err := svc.ConsumeForProduct(ctx, milkID, amount)
			require.NoError(t, err)
			assert.Equal(t, 0, res.Consumed)
			assert.Empty(t, res.Allocations)
		}

		assert.Equal(t, 3, amountOf(t, s, 1))
		assert.Empty(t, s.transactions())
	})

	t.Run("failure on a later lot leaves earlier lots consumed", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})
		s.addLot(model.StockLot{ID: 1, ProductID: milkID, Amount: 2, DueDate: day(1)})
		s.addLot(model.StockLot{ID: 2, ProductID: milkID, Amount: 2, DueDate: day(2)})
		s.failUpdate[2] = errors.New("connection reset")

		res, err := svc.ConsumeForProduct(ctx, milkID, 3)
		require.Error(t, err)
		assert.NotErrorIs(t, err, apperr.InsufficientStockErr)

		assert.Equal(t, 2, res.Consumed)
		assert.Equal(t, 0, amountOf(t, s, 1))
		assert.Equal(t, 2, amountOf(t, s, 2))
		assert.Len(t, s.transactions(), 1)
	})

	t.Run("stages one event per lot", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})
		s.addLot(model.StockLot{ID: 1, ProductID: milkID, Amount: 1, DueDate: day(1)})
		s.addLot(model.StockLot{ID: 2, ProductID: milkID, Amount: 5, DueDate: day(2)})

		_, err := svc.ConsumeForProduct(ctx, milkID, 2)
		require.NoError(t, err)

		require.Len(t, s.outbox, 2)
		msg := s.outbox[0]
		assert.Equal(t, event.TopicStockTransactionRecorded, msg.Topic)
		require.NotNil(t, msg.PartitionKey)
		assert.Equal(t, "1", *msg.PartitionKey)

		var ev event.StockTransactionRecordedEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		assert.Equal(t, int64(1), ev.StockID)
		assert.Equal(t, milkID, ev.ProductID)
		assert.Equal(t, "Consume", ev.TransactionType)
		assert.Equal(t, 1, ev.Amount)
		assert.Equal(t, 0, ev.RemainingAmount)
	})
}

func TestConsumeForProductSerialized(t *testing.T) {
	svc, s := newStockService(t, config.Stock{SerializeConsumption: true})
	s.addLot(model.StockLot{ID: 1, ProductID: milkID, Amount: 5})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range 10 {
		wg.Go(func() {
			if _, err := svc.ConsumeForProduct(context.Background(), milkID, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, amountOf(t, s, 1))
	assert.Equal(t, 5, consumeAmounts(s.transactions())[1])
}

func TestConsumeForLot(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements the lot", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})
		s.addLot(model.StockLot{ID: 7, ProductID: milkID, Amount: 4})

		res, err := svc.ConsumeForLot(ctx, 7, 3)
		require.NoError(t, err)

		assert.Equal(t, 3, res.Consumed)
		assert.Equal(t, 1, amountOf(t, s, 7))

		txs := s.transactions()
		require.Len(t, txs, 1)
		assert.Equal(t, model.StockTransaction{
			ID:              txs[0].ID,
			StockID:         7,
			ProductName:     "Milk",
			Amount:          3,
			TransactionTime: txs[0].TransactionTime,
			TransactionType: model.TransactionTypeConsume,
		}, txs[0])
	})

	t.Run("exact amount depletes the lot", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{SerializeConsumption: true})
		s.addLot(model.StockLot{ID: 7, ProductID: milkID, Amount: 4})

		_, err := svc.ConsumeForLot(ctx, 7, 4)
		require.NoError(t, err)

		l, _ := s.lot(7)
		assert.Equal(t, model.StockLotStateDepleted, l.State())
	})

	t.Run("not enough in the lot changes nothing", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})
		s.addLot(model.StockLot{ID: 7, ProductID: milkID, Amount: 2})

		_, err := svc.ConsumeForLot(ctx, 7, 3)
		assert.ErrorIs(t, err, apperr.InsufficientStockErr)

		assert.Equal(t, 2, amountOf(t, s, 7))
		assert.Empty(t, s.transactions())
	})

	t.Run("missing lot is insufficient stock", func(t *testing.T) {
		svc, _ := newStockService(t, config.Stock{})

		_, err := svc.ConsumeForLot(ctx, 404, 1)
		assert.ErrorIs(t, err, apperr.InsufficientStockErr)
	})

	t.Run("unknown product falls back to placeholder name", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})
		s.addLot(model.StockLot{ID: 7, ProductID: 999, Amount: 2})

		_, err := svc.ConsumeForLot(ctx, 7, 1)
		require.NoError(t, err)

		txs := s.transactions()
		require.Len(t, txs, 1)
		assert.Equal(t, "Unknown", txs[0].ProductName)
	})

	t.Run("zero amount is a no-op", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})
		s.addLot(model.StockLot{ID: 7, ProductID: milkID, Amount: 2})

		_, err := svc.ConsumeForLot(ctx, 7, 0)
		require.NoError(t, err)
		assert.Empty(t, s.transactions())
	})
}

func TestStockLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("create appends Add with the initial amount", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})

		lot, err := svc.CreateStock(ctx, service.CreateStockParams{
			ProductID: milkID,
			Amount:    6,
			UnitPrice: decimal.RequireFromString("1.25"),
			DueDate:   day(15),
		})
		require.NoError(t, err)

		assert.NotZero(t, lot.ID)
		assert.Equal(t, "Milk", lot.ProductName)

		txs := s.transactions()
		require.Len(t, txs, 1)
		assert.Equal(t, lot.ID, txs[0].StockID)
		assert.Equal(t, 6, txs[0].Amount)
		assert.Equal(t, model.TransactionTypeAdd, txs[0].TransactionType)
	})

	t.Run("create rejects unknown references", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})

		_, err := svc.CreateStock(ctx, service.CreateStockParams{ProductID: 999, Amount: 1})
		assert.ErrorIs(t, err, apperr.InvalidProductReferenceErr)

		_, err = svc.CreateStock(ctx, service.CreateStockParams{ProductID: milkID, LocationID: ptr.New[int64](5), Amount: 1})
		assert.ErrorIs(t, err, apperr.InvalidLocationReferenceErr)

		assert.Empty(t, s.transactions())
	})

	t.Run("create rejects negative amount", func(t *testing.T) {
		svc, _ := newStockService(t, config.Stock{})

		_, err := svc.CreateStock(ctx, service.CreateStockParams{ProductID: milkID, Amount: -1})
		assert.ErrorIs(t, err, apperr.ValidationErr)
	})

	t.Run("create rejects amount beyond int32", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})

		_, err := svc.CreateStock(ctx, service.CreateStockParams{ProductID: milkID, Amount: math.MaxInt32 + 1})
		assert.ErrorIs(t, err, apperr.ValidationErr)
		assert.Empty(t, s.transactions())
	})

	t.Run("write time reference failures name the missing row", func(t *testing.T) {
		tests := []struct {
			name    string
			repoErr error
			want    error
			notWant error
		}{
			{"location", repository.ErrInvalidLocationReference, apperr.InvalidLocationReferenceErr, apperr.InvalidProductReferenceErr},
			{"product", repository.ErrInvalidProductReference, apperr.InvalidProductReferenceErr, apperr.InvalidLocationReferenceErr},
			{"out of range", repository.ErrAmountOutOfRange, apperr.ValidationErr, apperr.InvalidProductReferenceErr},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, s := newStockService(t, config.Stock{})
				s.addLot(model.StockLot{ID: 3, ProductID: milkID, Amount: 10})
				s.failUpdate[3] = fmt.Errorf("update stock: %w", tt.repoErr)

				_, err := svc.UpdateStock(ctx, service.UpdateStockParams{ID: 3, ProductID: milkID, Amount: 4})
				require.ErrorIs(t, err, tt.want)
				assert.NotErrorIs(t, err, tt.notWant)
			})
		}
	})

	t.Run("edit appends the post-edit amount", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})
		s.addLot(model.StockLot{ID: 3, ProductID: milkID, Amount: 10})

		lot, err := svc.UpdateStock(ctx, service.UpdateStockParams{ID: 3, ProductID: milkID, Amount: 4})
		require.NoError(t, err)
		assert.Equal(t, 4, lot.Amount)

		txs := s.transactions()
		require.Len(t, txs, 1)
		assert.Equal(t, model.TransactionTypeEdit, txs[0].TransactionType)
		assert.Equal(t, 4, txs[0].Amount)
	})

	t.Run("edit of a missing lot is not found", func(t *testing.T) {
		svc, _ := newStockService(t, config.Stock{})

		_, err := svc.UpdateStock(ctx, service.UpdateStockParams{ID: 3, ProductID: milkID, Amount: 4})
		assert.ErrorIs(t, err, apperr.StockNotFoundErr)
	})

	t.Run("delete appends the negated amount before removal", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})
		s.addLot(model.StockLot{ID: 3, ProductID: milkID, Amount: 8})

		require.NoError(t, svc.DeleteStock(ctx, 3))

		_, ok := s.lot(3)
		assert.False(t, ok)

		txs := s.transactions()
		require.Len(t, txs, 1)
		assert.Equal(t, model.TransactionTypeDelete, txs[0].TransactionType)
		assert.Equal(t, -8, txs[0].Amount)
		assert.Equal(t, "Milk", txs[0].ProductName)

		var ev event.StockTransactionRecordedEvent
		require.Len(t, s.outbox, 1)
		require.NoError(t, json.Unmarshal(s.outbox[0].Payload, &ev))
		assert.Equal(t, 0, ev.RemainingAmount)
	})

	t.Run("delete of a missing lot is not found", func(t *testing.T) {
		svc, _ := newStockService(t, config.Stock{})

		assert.ErrorIs(t, svc.DeleteStock(ctx, 3), apperr.StockNotFoundErr)
	})

	t.Run("ledger survives lot deletion", func(t *testing.T) {
		svc, s := newStockService(t, config.Stock{})
		s.addLot(model.StockLot{ID: 3, ProductID: milkID, Amount: 2})

		_, err := svc.ConsumeForLot(ctx, 3, 1)
		require.NoError(t, err)
		require.NoError(t, svc.DeleteStock(ctx, 3))

		all, err := svc.ListTransactions(ctx, service.ListTransactionsParams{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		_, err = svc.ListTransactionsByProduct(ctx, milkID)
		assert.ErrorIs(t, err, apperr.TransactionsNotFoundErr)
	})
}

func TestListTransactionsByProduct(t *testing.T) {
	ctx := context.Background()
	svc, s := newStockService(t, config.Stock{})
	s.addProduct(2, "Bread")
	s.addLot(model.StockLot{ID: 1, ProductID: milkID, Amount: 5})
	s.addLot(model.StockLot{ID: 2, ProductID: 2, Amount: 5})

	_, err := svc.ConsumeForLot(ctx, 1, 1)
	require.NoError(t, err)
	_, err = svc.ConsumeForLot(ctx, 2, 2)
	require.NoError(t, err)

	txs, err := svc.ListTransactionsByProduct(ctx, milkID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(1), txs[0].StockID)

	t.Run("repeated reads return the same entries", func(t *testing.T) {
		first, err := svc.ListTransactionsByProduct(ctx, milkID)
		require.NoError(t, err)
		second, err := svc.ListTransactionsByProduct(ctx, milkID)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	first, err := svc.ListTransactions(ctx, service.ListTransactionsParams{})
	require.NoError(t, err)
	second, err := svc.ListTransactions(ctx, service.ListTransactionsParams{})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	consumeType := model.TransactionTypeConsume
	consumed, err := svc.ListTransactions(ctx, service.ListTransactionsParams{Type: &consumeType})
	require.NoError(t, err)
	assert.Len(t, consumed, 2)

	addType := model.TransactionTypeAdd
	added, err := svc.ListTransactions(ctx, service.ListTransactionsParams{Type: &addType})
	require.NoError(t, err)
	assert.Empty(t, added)

	bogus := model.TransactionType("Transfer")
	_, err = svc.ListTransactions(ctx, service.ListTransactionsParams{Type: &bogus})
	assert.ErrorIs(t, err, apperr.ValidationErr)
}

func TestListStocks(t *testing.T) {
	svc, s := newStockService(t, config.Stock{})
	s.addLot(model.StockLot{ID: 1, ProductID: milkID, Amount: 0})
	s.addLot(model.StockLot{ID: 2, ProductID: milkID, Amount: 3})

	stocks, err := svc.ListStocks(context.Background(), service.ListStocksParams{InStockOnly: true})
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, int64(2), stocks[0].ID)
	assert.Equal(t, "Milk", stocks[0].ProductName)

	_, err = svc.GetStock(context.Background(), 99)
	assert.ErrorIs(t, err, apperr.StockNotFoundErr)
}
